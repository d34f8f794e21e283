package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-qna-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	users, _ := args.Get(0).([]domain.User)
	return users, args.String(1), args.Error(2)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockValidationStore struct{ mock.Mock }

func (m *mockValidationStore) Put(ctx context.Context, v *domain.EmailValidation) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockValidationStore) Latest(ctx context.Context, email string) (*domain.EmailValidation, error) {
	args := m.Called(ctx, email)
	if v, _ := args.Get(0).(*domain.EmailValidation); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockValidationStore) MarkVerified(ctx context.Context, email, validationID string) error {
	return m.Called(ctx, email, validationID).Error(0)
}

type mockTokenRevoker struct{ mock.Mock }

func (m *mockTokenRevoker) DeleteByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockLimiter struct{ mock.Mock }

func (m *mockLimiter) Allow(ctx context.Context, action, subject string) error {
	return m.Called(ctx, action, subject).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- fakes ---

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeCodes struct{ code string }

func (f fakeCodes) Next() (string, error) { return f.code, nil }

type fakeHasher struct {
	hashCalls    int
	compareCalls int
}

func (f *fakeHasher) Hash(pw string) (string, error) {
	f.hashCalls++
	return "hashed:" + pw, nil
}
func (f *fakeHasher) Compare(pw, hash string) bool {
	f.compareCalls++
	return "hashed:"+pw == hash
}

// --- builder ---

func newService(us *mockUserStore, vs *mockValidationStore, tr *mockTokenRevoker, lim *mockLimiter, ml *mockMailer, h *fakeHasher, now time.Time) Service {
	return NewService(ServiceDeps{
		UserRepo:       us,
		ValidationRepo: vs,
		TokenRepo:      tr,
		Limiter:        lim,
		Mailer:         ml,
		Hasher:         h,
		Codes:          fakeCodes{code: "123456"},
		Clock:          fixedClock{now: now},
		CodeTTL:        10 * time.Minute,
	})
}

func allowAll() *mockLimiter {
	lim := &mockLimiter{}
	lim.On("Allow", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return lim
}

// --- RequestEmailValidation ---

func TestRequestEmailValidation_HappyPath(t *testing.T) {
	now := time.Now()
	vs := &mockValidationStore{}
	ml := &mockMailer{}

	vs.On("Put", mock.Anything, mock.MatchedBy(func(v *domain.EmailValidation) bool {
		return v.Email == "a@b.com" &&
			v.Code == "123456" &&
			v.ValidationID != "" &&
			!v.Verified &&
			v.ExpiresAt == now.UTC().Add(10*time.Minute).Unix()
	})).Return(nil)
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.MatchedBy(func(body string) bool {
		return len(body) > 0
	})).Return(nil)

	svc := newService(nil, vs, nil, allowAll(), ml, &fakeHasher{}, now)
	err := svc.RequestEmailValidation(context.Background(), "a@b.com")

	require.NoError(t, err)
	vs.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestRequestEmailValidation_RateLimited_NoSideEffects(t *testing.T) {
	vs := &mockValidationStore{}
	ml := &mockMailer{}
	lim := &mockLimiter{}
	lim.On("Allow", mock.Anything, mock.Anything, "a@b.com").
		Return(&domain.RateLimitError{Code: domain.CodeEmailValidationRateLimit})

	svc := newService(nil, vs, nil, lim, ml, &fakeHasher{}, time.Now())
	err := svc.RequestEmailValidation(context.Background(), "a@b.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	vs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestEmailValidation_MailerFailure_ReturnsDelivery(t *testing.T) {
	vs := &mockValidationStore{}
	ml := &mockMailer{}
	vs.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(nil, vs, nil, allowAll(), ml, &fakeHasher{}, time.Now())
	err := svc.RequestEmailValidation(context.Background(), "a@b.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDelivery))
}

// --- VerifyEmailValidation ---

func TestVerifyEmailValidation_HappyPath(t *testing.T) {
	now := time.Now()
	vs := &mockValidationStore{}
	vs.On("Latest", mock.Anything, "a@b.com").Return(&domain.EmailValidation{
		Email:        "a@b.com",
		ValidationID: "v1",
		Code:         "123456",
		ExpiresAt:    now.Add(5 * time.Minute).Unix(),
	}, nil)
	vs.On("MarkVerified", mock.Anything, "a@b.com", "v1").Return(nil)

	svc := newService(nil, vs, nil, allowAll(), nil, &fakeHasher{}, now)
	err := svc.VerifyEmailValidation(context.Background(), "a@b.com", "123456")

	require.NoError(t, err)
	vs.AssertExpectations(t)
}

func TestVerifyEmailValidation_NoOutstandingCode(t *testing.T) {
	vs := &mockValidationStore{}
	vs.On("Latest", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)

	svc := newService(nil, vs, nil, allowAll(), nil, &fakeHasher{}, time.Now())
	err := svc.VerifyEmailValidation(context.Background(), "a@b.com", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerifyEmailValidation_AlreadyVerified_IsSingleUse(t *testing.T) {
	now := time.Now()
	vs := &mockValidationStore{}
	vs.On("Latest", mock.Anything, "a@b.com").Return(&domain.EmailValidation{
		Email:        "a@b.com",
		ValidationID: "v1",
		Code:         "123456",
		ExpiresAt:    now.Add(5 * time.Minute).Unix(),
		Verified:     true,
	}, nil)

	svc := newService(nil, vs, nil, allowAll(), nil, &fakeHasher{}, now)
	err := svc.VerifyEmailValidation(context.Background(), "a@b.com", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
	vs.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyEmailValidation_Expired(t *testing.T) {
	now := time.Now()
	vs := &mockValidationStore{}
	vs.On("Latest", mock.Anything, "a@b.com").Return(&domain.EmailValidation{
		Email:        "a@b.com",
		ValidationID: "v1",
		Code:         "123456",
		ExpiresAt:    now.Add(-1 * time.Second).Unix(),
	}, nil)

	svc := newService(nil, vs, nil, allowAll(), nil, &fakeHasher{}, now)
	err := svc.VerifyEmailValidation(context.Background(), "a@b.com", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired))
}

func TestVerifyEmailValidation_WrongCode(t *testing.T) {
	now := time.Now()
	vs := &mockValidationStore{}
	vs.On("Latest", mock.Anything, "a@b.com").Return(&domain.EmailValidation{
		Email:        "a@b.com",
		ValidationID: "v1",
		Code:         "123456",
		ExpiresAt:    now.Add(5 * time.Minute).Unix(),
	}, nil)

	svc := newService(nil, vs, nil, allowAll(), nil, &fakeHasher{}, now)
	err := svc.VerifyEmailValidation(context.Background(), "a@b.com", "654321")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
	vs.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyEmailValidation_LeadingZerosMatterInComparison(t *testing.T) {
	now := time.Now()
	vs := &mockValidationStore{}
	vs.On("Latest", mock.Anything, "a@b.com").Return(&domain.EmailValidation{
		Email:        "a@b.com",
		ValidationID: "v1",
		Code:         "012345",
		ExpiresAt:    now.Add(5 * time.Minute).Unix(),
	}, nil)

	svc := newService(nil, vs, nil, allowAll(), nil, &fakeHasher{}, now)
	err := svc.VerifyEmailValidation(context.Background(), "a@b.com", "12345")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
}

// --- Register ---

func TestRegister_HappyPath(t *testing.T) {
	now := time.Now()
	us := &mockUserStore{}
	vs := &mockValidationStore{}
	h := &fakeHasher{}

	vs.On("Latest", mock.Anything, "a@b.com").Return(&domain.EmailValidation{
		Email:    "a@b.com",
		Verified: true,
	}, nil)
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.UserID != "" &&
			u.Email == "a@b.com" &&
			u.Role == domain.RoleUser &&
			u.PasswordHash == "hashed:secret-pw-1"
	})).Return(nil)

	svc := newService(us, vs, nil, allowAll(), nil, h, now)
	u, err := svc.Register(context.Background(), domain.CreateUserRequest{
		Name:     "Ana",
		Email:    "a@b.com",
		Password: "secret-pw-1",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
	us.AssertExpectations(t)
}

func TestRegister_EmailNotVerified(t *testing.T) {
	us := &mockUserStore{}
	vs := &mockValidationStore{}
	vs.On("Latest", mock.Anything, "a@b.com").Return(&domain.EmailValidation{
		Email:    "a@b.com",
		Verified: false,
	}, nil)

	svc := newService(us, vs, nil, allowAll(), nil, &fakeHasher{}, time.Now())
	_, err := svc.Register(context.Background(), domain.CreateUserRequest{
		Name:     "Ana",
		Email:    "a@b.com",
		Password: "secret-pw-1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_NoValidationRow(t *testing.T) {
	vs := &mockValidationStore{}
	vs.On("Latest", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)

	svc := newService(&mockUserStore{}, vs, nil, allowAll(), nil, &fakeHasher{}, time.Now())
	_, err := svc.Register(context.Background(), domain.CreateUserRequest{
		Name:     "Ana",
		Email:    "a@b.com",
		Password: "secret-pw-1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	us := &mockUserStore{}
	vs := &mockValidationStore{}
	vs.On("Latest", mock.Anything, "a@b.com").Return(&domain.EmailValidation{Verified: true}, nil)
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1"}, nil)

	svc := newService(us, vs, nil, allowAll(), nil, &fakeHasher{}, time.Now())
	_, err := svc.Register(context.Background(), domain.CreateUserRequest{
		Name:     "Ana",
		Email:    "a@b.com",
		Password: "secret-pw-1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_RateLimited_NoStoreCalls(t *testing.T) {
	us := &mockUserStore{}
	vs := &mockValidationStore{}
	h := &fakeHasher{}
	lim := &mockLimiter{}
	lim.On("Allow", mock.Anything, mock.Anything, "a@b.com").
		Return(&domain.RateLimitError{Code: domain.CodeUserCreationRateLimit})

	svc := newService(us, vs, nil, lim, nil, h, time.Now())
	_, err := svc.Register(context.Background(), domain.CreateUserRequest{
		Name:     "Ana",
		Email:    "a@b.com",
		Password: "secret-pw-1",
	})

	require.Error(t, err)
	var rle *domain.RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, domain.CodeUserCreationRateLimit, rle.Code)
	assert.Zero(t, h.hashCalls)
	vs.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything)
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- ChangePassword ---

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{
		UserID:       "u1",
		PasswordHash: "hashed:right-pw",
	}, nil)

	svc := newService(us, nil, nil, allowAll(), nil, &fakeHasher{}, time.Now())
	err := svc.ChangePassword(context.Background(), "u1", "wrong-pw", "new-pw-12345")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{
		UserID:       "u1",
		PasswordHash: "hashed:right-pw",
	}, nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m["password_hash"] == "hashed:new-pw-12345"
	})).Return(nil)

	svc := newService(us, nil, nil, allowAll(), nil, &fakeHasher{}, time.Now())
	err := svc.ChangePassword(context.Background(), "u1", "right-pw", "new-pw-12345")

	require.NoError(t, err)
	us.AssertExpectations(t)
}

// --- Delete ---

func TestDelete_RevokesAllRefreshTokens(t *testing.T) {
	us := &mockUserStore{}
	tr := &mockTokenRevoker{}
	us.On("Delete", mock.Anything, "u1").Return(nil)
	tr.On("DeleteByUser", mock.Anything, "u1").Return(nil)

	svc := newService(us, nil, tr, allowAll(), nil, &fakeHasher{}, time.Now())
	err := svc.Delete(context.Background(), "u1")

	require.NoError(t, err)
	tr.AssertExpectations(t)
}
