package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/pkg/clock"
	"github.com/go-qna-api/internal/pkg/password"
	"github.com/go-qna-api/internal/pkg/token"
	"github.com/go-qna-api/internal/ratelimit"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken *domain.RefreshToken
}

type TokenPair struct {
	AccessToken  string
	RefreshToken *domain.RefreshToken
}

type Service interface {
	// Login checks credentials and opens a session. All previously issued
	// refresh tokens for the user are revoked — one session per user.
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)

	// Refresh exchanges a refresh token for a new access/refresh pair.
	// Rotation is strictly one-shot: the presented token is deleted whether
	// it succeeds or turns out to be expired, and can never be replayed.
	Refresh(ctx context.Context, refreshTokenID string) (*TokenPair, error)

	// Logout revokes every refresh token for the user. Idempotent.
	Logout(ctx context.Context, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenStore interface {
	Put(ctx context.Context, t *domain.RefreshToken) error
	Get(ctx context.Context, tokenID string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, tokenID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type accessSigner interface {
	Sign(userID, role string) (string, error)
}

type attemptLimiter interface {
	Allow(ctx context.Context, action, subject string) error
}

type service struct {
	users      userStore
	tokens     tokenStore
	signer     accessSigner
	limiter    attemptLimiter
	hasher     password.Hasher
	clock      clock.Clock
	refreshTTL time.Duration
}

type ServiceDeps struct {
	UserRepo   userStore
	TokenRepo  tokenStore
	Signer     accessSigner
	Limiter    attemptLimiter
	Hasher     password.Hasher
	Clock      clock.Clock
	RefreshTTL time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:      deps.UserRepo,
		tokens:     deps.TokenRepo,
		signer:     deps.Signer,
		limiter:    deps.Limiter,
		hasher:     deps.Hasher,
		clock:      deps.Clock,
		refreshTTL: deps.RefreshTTL,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	// The budget check runs before any store or hasher call, so an abusive
	// caller cannot amplify bcrypt cost past the budget.
	if err := s.limiter.Allow(ctx, ratelimit.ActionAuth, req.Email); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same failure as a wrong password — never reveal whether the
		// account exists.
		return nil, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}
	if !s.hasher.Compare(req.Password, u.PasswordHash) {
		return nil, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}
	if err := s.tokens.DeleteByUser(ctx, u.UserID); err != nil {
		return nil, err
	}
	rt, err := s.issue(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	bearer, err := s.signer.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, AccessToken: bearer, RefreshToken: rt}, nil
}

func (s *service) Refresh(ctx context.Context, refreshTokenID string) (*TokenPair, error) {
	t, err := s.tokens.Get(ctx, refreshTokenID)
	if err != nil {
		return nil, err
	}
	if s.clock.Now().Unix() >= t.ExpiresAt {
		// An expired token is consumed by the act of presenting it; the
		// next attempt with the same id must see not-found.
		if err := s.tokens.Delete(ctx, refreshTokenID); err != nil {
			slog.Warn("failed to delete expired refresh token", "token_id", refreshTokenID, "err", err)
		}
		return nil, fmt.Errorf("refresh: %w", domain.ErrTokenExpired)
	}
	// Consume before issuing. If the delete fails we abort rather than leave
	// two valid tokens for the user.
	if err := s.tokens.Delete(ctx, refreshTokenID); err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	rt, err := s.issue(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	bearer, err := s.signer.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: bearer, RefreshToken: rt}, nil
}

func (s *service) Logout(ctx context.Context, userID string) error {
	return s.tokens.DeleteByUser(ctx, userID)
}

func (s *service) issue(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	tokenID, err := token.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	rt := &domain.RefreshToken{
		TokenID:   tokenID,
		UserID:    userID,
		ExpiresAt: now.Add(s.refreshTTL).Unix(),
		CreatedAt: now,
	}
	if err := s.tokens.Put(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}
