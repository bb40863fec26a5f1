package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByOnboardingToken(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter entity.UserFilter) ([]*entity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStage(ctx context.Context, id string, from, to entity.Stage, previous *entity.Stage, now time.Time) (bool, error) {
	args := m.Called(ctx, id, from, to, previous, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) AssignAgent(ctx context.Context, id, agentID string, now time.Time) error {
	args := m.Called(ctx, id, agentID, now)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateDetails(ctx context.Context, lead *entity.Lead, now time.Time) error {
	args := m.Called(ctx, lead, now)
	return args.Error(0)
}

func (m *MockLeadRepository) Touch(ctx context.Context, id string, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockLeadRepository) MarkStale(ctx context.Context, cutoff, now time.Time) ([]entity.StaleCandidate, error) {
	args := m.Called(ctx, cutoff, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StaleCandidate), args.Error(1)
}

// MockActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Append(ctx context.Context, a *entity.LeadActivity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.LeadActivity, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LeadActivity), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n usecase.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockSMSVerifier
type MockSMSVerifier struct {
	mock.Mock
}

func (m *MockSMSVerifier) SendOTP(ctx context.Context, phone string) (string, error) {
	args := m.Called(ctx, phone)
	return args.String(0), args.Error(1)
}

func (m *MockSMSVerifier) ValidateOTP(ctx context.Context, phone, verificationID, code string) (bool, error) {
	args := m.Called(ctx, phone, verificationID, code)
	return args.Bool(0), args.Error(1)
}

// MockOTPRepository
type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Create(ctx context.Context, otp *entity.EmailOTP) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}

func (m *MockOTPRepository) FindLatestByEmail(ctx context.Context, email string) (*entity.EmailOTP, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmailOTP), args.Error(1)
}

func (m *MockOTPRepository) IncrementAttempts(ctx context.Context, id string, max int) (bool, error) {
	args := m.Called(ctx, id, max)
	return args.Bool(0), args.Error(1)
}

func (m *MockOTPRepository) MarkVerified(ctx context.Context, id string, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

// MockSubscriberRepository
type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) Upsert(ctx context.Context, s *entity.Subscriber) (bool, error) {
	args := m.Called(ctx, s)
	return args.Bool(0), args.Error(1)
}

// fakeHasher stores passwords with a visible prefix so tests can assert on them.
type fakeHasher struct{}

func (fakeHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }

func (fakeHasher) Compare(hash, pw string) bool { return hash == "hashed:"+pw }

type fakeSessions struct{}

func (fakeSessions) Issue(u *entity.User) (string, time.Time, error) {
	return "token-" + u.ID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

// fakeCodes accepts the code "123456" for any secret it generated.
type fakeCodes struct{}

func (fakeCodes) Generate(email string, at time.Time) (string, string, error) {
	return "secret-" + email, "123456", nil
}

func (fakeCodes) Validate(code, secret string, at time.Time) bool { return code == "123456" }

// testClock is a settable clock shared by a test.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Clock() usecase.Clock { return func() time.Time { return c.now } }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
