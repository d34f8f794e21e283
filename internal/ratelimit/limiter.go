package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-qna-api/internal/config"
	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/pkg/clock"
)

// Action identifiers for the security-sensitive budgets.
const (
	ActionAuth            = "auth"
	ActionUserCreation    = "user-creation"
	ActionEmailValidation = "email-validation"
)

// CounterStore persists attempt counters. Increment must be atomic per key and
// return the post-increment total; rows should expire at expiresAt.
type CounterStore interface {
	Increment(ctx context.Context, key string, expiresAt int64) (int64, error)
}

// Limiter counts attempts per (action, subject) in fixed windows over an
// injected CounterStore. It is a plain value, never a process-wide singleton,
// so tests instantiate isolated limiters.
type Limiter struct {
	store    CounterStore
	clock    clock.Clock
	policies map[string]config.RateLimitPolicy
}

var actionCodes = map[string]string{
	ActionAuth:            domain.CodeAuthRateLimit,
	ActionUserCreation:    domain.CodeUserCreationRateLimit,
	ActionEmailValidation: domain.CodeEmailValidationRateLimit,
}

func New(store CounterStore, clk clock.Clock, limits config.RateLimits) *Limiter {
	return &Limiter{
		store: store,
		clock: clk,
		policies: map[string]config.RateLimitPolicy{
			ActionAuth:            limits.Auth,
			ActionUserCreation:    limits.UserCreation,
			ActionEmailValidation: limits.EmailValidation,
		},
	}
}

// Allow consumes one attempt for (action, subject). It returns a
// *domain.RateLimitError carrying the action's code once the window budget is
// exhausted. Store failures are returned as distinct errors — a broken counter
// store must never be read as "allowed".
func (l *Limiter) Allow(ctx context.Context, action, subject string) error {
	p, ok := l.policies[action]
	if !ok {
		return fmt.Errorf("unknown rate limit action %q", action)
	}
	windowStart := l.clock.Now().Truncate(p.Window)
	key := action + "#" + subject + "#" + strconv.FormatInt(windowStart.Unix(), 10)

	// Keep the row one extra window beyond its end so in-flight checks near
	// the boundary never race the TTL sweep.
	expiresAt := windowStart.Add(2 * p.Window).Unix()

	n, err := l.store.Increment(ctx, key, expiresAt)
	if err != nil {
		return fmt.Errorf("rate limit check for %s: %w", action, err)
	}
	if n > p.MaxAttempts {
		return &domain.RateLimitError{Code: actionCodes[action]}
	}
	return nil
}
