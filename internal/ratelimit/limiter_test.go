package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-qna-api/internal/config"
	"github.com/go-qna-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock returns a fixed instant that tests can move forward.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memCounterStore is an in-memory CounterStore.
type memCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemCounterStore() *memCounterStore {
	return &memCounterStore{counts: make(map[string]int64)}
}

func (s *memCounterStore) Increment(_ context.Context, key string, _ int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.counts[key]++
	return s.counts[key], nil
}

func testLimits() config.RateLimits {
	return config.RateLimits{
		Auth:            config.RateLimitPolicy{MaxAttempts: 3, Window: 15 * time.Minute},
		UserCreation:    config.RateLimitPolicy{MaxAttempts: 2, Window: time.Hour},
		EmailValidation: config.RateLimitPolicy{MaxAttempts: 2, Window: time.Hour},
	}
}

func TestAllow_WithinBudget(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(newMemCounterStore(), clk, testLimits())

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(context.Background(), ActionAuth, "1.2.3.4"))
	}
}

func TestAllow_BudgetExhausted(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(newMemCounterStore(), clk, testLimits())

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(context.Background(), ActionAuth, "1.2.3.4"))
	}
	err := l.Allow(context.Background(), ActionAuth, "1.2.3.4")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))

	var rle *domain.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, domain.CodeAuthRateLimit, rle.Code)
}

func TestAllow_SubjectsAreIndependent(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(newMemCounterStore(), clk, testLimits())

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(context.Background(), ActionAuth, "a@x.com"))
	}
	require.Error(t, l.Allow(context.Background(), ActionAuth, "a@x.com"))
	assert.NoError(t, l.Allow(context.Background(), ActionAuth, "b@x.com"))
}

func TestAllow_WindowRolls(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(newMemCounterStore(), clk, testLimits())

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(context.Background(), ActionAuth, "1.2.3.4"))
	}
	require.Error(t, l.Allow(context.Background(), ActionAuth, "1.2.3.4"))

	clk.advance(15 * time.Minute)
	assert.NoError(t, l.Allow(context.Background(), ActionAuth, "1.2.3.4"))
}

func TestAllow_PerActionCodes(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(newMemCounterStore(), clk, testLimits())

	for i := 0; i < 2; i++ {
		require.NoError(t, l.Allow(context.Background(), ActionEmailValidation, "a@x.com"))
	}
	err := l.Allow(context.Background(), ActionEmailValidation, "a@x.com")
	var rle *domain.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, domain.CodeEmailValidationRateLimit, rle.Code)

	for i := 0; i < 2; i++ {
		require.NoError(t, l.Allow(context.Background(), ActionUserCreation, "a@x.com"))
	}
	err = l.Allow(context.Background(), ActionUserCreation, "a@x.com")
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, domain.CodeUserCreationRateLimit, rle.Code)
}

func TestAllow_StoreErrorIsNotRateLimit(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := newMemCounterStore()
	store.err = errors.New("dynamo unavailable")
	l := New(store, clk, testLimits())

	err := l.Allow(context.Background(), ActionAuth, "1.2.3.4")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrRateLimited))
}

func TestAllow_UnknownAction(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(newMemCounterStore(), clk, testLimits())

	err := l.Allow(context.Background(), "password-reset", "a@x.com")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrRateLimited))
}
