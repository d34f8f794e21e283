package account

import (
	"context"
	"fmt"
	"time"

	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/pkg/clock"
	"github.com/go-qna-api/internal/pkg/code"
	"github.com/go-qna-api/internal/pkg/id"
	"github.com/go-qna-api/internal/pkg/password"
	"github.com/go-qna-api/internal/ratelimit"
)

type Service interface {
	// RequestEmailValidation issues a fresh 6-digit code for the email and
	// mails it. Rate-limited per email: a denied call has no side effects.
	RequestEmailValidation(ctx context.Context, email string) error

	// VerifyEmailValidation consumes the latest outstanding code for the
	// email. Verification is single-use: a row, once verified, is never
	// accepted again.
	VerifyEmailValidation(ctx context.Context, email, codeStr string) error

	// Register creates a user account. The email must have passed
	// verification beforehand.
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)

	Get(ctx context.Context, userID string) (*domain.User, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Delete(ctx context.Context, userID string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

type validationStore interface {
	Put(ctx context.Context, v *domain.EmailValidation) error
	Latest(ctx context.Context, email string) (*domain.EmailValidation, error)
	MarkVerified(ctx context.Context, email, validationID string) error
}

type tokenRevoker interface {
	DeleteByUser(ctx context.Context, userID string) error
}

type attemptLimiter interface {
	Allow(ctx context.Context, action, subject string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	users       userStore
	validations validationStore
	tokens      tokenRevoker
	limiter     attemptLimiter
	mailer      mailer
	hasher      password.Hasher
	codes       code.Generator
	clock       clock.Clock
	codeTTL     time.Duration
}

type ServiceDeps struct {
	UserRepo       userStore
	ValidationRepo validationStore
	TokenRepo      tokenRevoker
	Limiter        attemptLimiter
	Mailer         mailer
	Hasher         password.Hasher
	Codes          code.Generator
	Clock          clock.Clock
	CodeTTL        time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:       deps.UserRepo,
		validations: deps.ValidationRepo,
		tokens:      deps.TokenRepo,
		limiter:     deps.Limiter,
		mailer:      deps.Mailer,
		hasher:      deps.Hasher,
		codes:       deps.Codes,
		clock:       deps.Clock,
		codeTTL:     deps.CodeTTL,
	}
}

const dynamoMaxPage = 50

func (s *service) RequestEmailValidation(ctx context.Context, email string) error {
	// Budget check comes first: a denied call must not generate a code,
	// touch the store, or send mail.
	if err := s.limiter.Allow(ctx, ratelimit.ActionEmailValidation, email); err != nil {
		return err
	}
	codeStr, err := s.codes.Next()
	if err != nil {
		return err
	}
	now := s.clock.Now().UTC()
	v := &domain.EmailValidation{
		Email:        email,
		ValidationID: id.New(),
		Code:         codeStr,
		ExpiresAt:    now.Add(s.codeTTL).Unix(),
		CreatedAt:    now,
	}
	if err := s.validations.Put(ctx, v); err != nil {
		return err
	}
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", codeStr, int(s.codeTTL.Minutes()))
	if err := s.mailer.SendEmail(email, "Verify your email", body); err != nil {
		return fmt.Errorf("send validation code (%s): %w", err, domain.ErrDelivery)
	}
	return nil
}

func (s *service) VerifyEmailValidation(ctx context.Context, email, codeStr string) error {
	// Only the most recently created row counts; superseded rows are never
	// accepted even if their code matches.
	v, err := s.validations.Latest(ctx, email)
	if err != nil {
		return err
	}
	if v.Verified {
		return fmt.Errorf("code already used: %w", domain.ErrInvalidCode)
	}
	if s.clock.Now().Unix() >= v.ExpiresAt {
		return fmt.Errorf("validation code expired: %w", domain.ErrTokenExpired)
	}
	// String compare, not numeric — "012345" must not match "12345".
	if v.Code != codeStr {
		return fmt.Errorf("code mismatch: %w", domain.ErrInvalidCode)
	}
	return s.validations.MarkVerified(ctx, email, v.ValidationID)
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := s.limiter.Allow(ctx, ratelimit.ActionUserCreation, req.Email); err != nil {
		return nil, err
	}
	v, err := s.validations.Latest(ctx, req.Email)
	if err != nil || !v.Verified {
		return nil, fmt.Errorf("email not verified: %w", domain.ErrForbidden)
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 || limit > dynamoMaxPage {
		limit = dynamoMaxPage
	}
	return s.users.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.About != nil {
		updates["about"] = *req.About
	}
	if len(updates) == 0 {
		return s.users.Get(ctx, userID)
	}
	if err := s.users.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(currentPassword, u.PasswordHash) {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, userID, map[string]interface{}{"password_hash": hash})
}

// Delete removes the account and revokes every active session grant so no
// refresh token outlives its user.
func (s *service) Delete(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	return s.tokens.DeleteByUser(ctx, userID)
}
