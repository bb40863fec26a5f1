package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

// TestSendEmailOTP - a secret is stored for ten minutes and the code is emailed
func TestSendEmailOTP(t *testing.T) {
	otps := new(MockOTPRepository)
	notifier := new(MockNotifier)
	clock := newTestClock()
	svc := usecase.NewOTPService(nil, fakeCodes{}, otps, notifier, clock.Clock())

	otps.On("Create", mock.Anything, mock.MatchedBy(func(o *entity.EmailOTP) bool {
		return o.Email == "ana@example.com" && o.Secret == "secret-ana@example.com" && o.ExpiresAt.Equal(clock.now.Add(10*time.Minute))
	})).Return(nil)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n usecase.Notification) bool {
		return n.Kind == usecase.NotifyEmailOTP && n.Data["code"] == "123456"
	})).Return(nil)

	require.NoError(t, svc.SendEmail(context.Background(), "ana@example.com"))
	otps.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

// TestVerifyEmailOTP - covers success, wrong code, expiry, reuse and attempt cap
func TestVerifyEmailOTP(t *testing.T) {
	clock := newTestClock()
	verifiedAt := clock.now

	cases := []struct {
		name    string
		otp     *entity.EmailOTP
		code    string
		wantErr bool
	}{
		{"valid", &entity.EmailOTP{ID: "o1", ExpiresAt: clock.now.Add(time.Minute)}, "123456", false},
		{"wrong code", &entity.EmailOTP{ID: "o1", ExpiresAt: clock.now.Add(time.Minute)}, "000000", true},
		{"expired", &entity.EmailOTP{ID: "o1", ExpiresAt: clock.now.Add(-time.Second)}, "123456", true},
		{"already used", &entity.EmailOTP{ID: "o1", ExpiresAt: clock.now.Add(time.Minute), VerifiedAt: &verifiedAt}, "123456", true},
		{"too many attempts", &entity.EmailOTP{ID: "o1", ExpiresAt: clock.now.Add(time.Minute), Attempts: entity.MaxOTPAttempts}, "123456", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			otps := new(MockOTPRepository)
			otps.On("FindLatestByEmail", mock.Anything, "ana@example.com").Return(tc.otp, nil)
			otps.On("IncrementAttempts", mock.Anything, "o1", entity.MaxOTPAttempts).Return(true, nil)
			otps.On("MarkVerified", mock.Anything, "o1", mock.Anything).Return(nil)
			svc := usecase.NewOTPService(nil, fakeCodes{}, otps, nil, clock.Clock())

			err := svc.VerifyEmail(context.Background(), "ana@example.com", tc.code)
			if tc.wantErr {
				assert.Equal(t, usecase.CodeInvalidOTP, domainCode(t, err))
				otps.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			otps.AssertCalled(t, "MarkVerified", mock.Anything, "o1", mock.Anything)
		})
	}
}

// guardedOTPs keeps one code and applies the conditional increment under a lock.
type guardedOTPs struct {
	mu  sync.Mutex
	otp entity.EmailOTP
}

func (g *guardedOTPs) Create(ctx context.Context, otp *entity.EmailOTP) error { return nil }

func (g *guardedOTPs) FindLatestByEmail(ctx context.Context, email string) (*entity.EmailOTP, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o := g.otp
	return &o, nil
}

func (g *guardedOTPs) IncrementAttempts(ctx context.Context, id string, max int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.otp.VerifiedAt != nil || g.otp.Attempts >= max {
		return false, nil
	}
	g.otp.Attempts++
	return true, nil
}

func (g *guardedOTPs) MarkVerified(ctx context.Context, id string, now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.otp.VerifiedAt != nil {
		return entity.ErrOTPNotFound
	}
	g.otp.VerifiedAt = &now
	return nil
}

// TestVerifyEmailOTP_ConcurrentGuesses - parallel wrong guesses only get MaxOTPAttempts tries
func TestVerifyEmailOTP_ConcurrentGuesses(t *testing.T) {
	clock := newTestClock()
	otps := &guardedOTPs{otp: entity.EmailOTP{ID: "o1", ExpiresAt: clock.now.Add(time.Minute)}}
	svc := usecase.NewOTPService(nil, fakeCodes{}, otps, nil, clock.Clock())

	const guesses = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		tried   int
		capped  int
		unknown int
	)
	for i := 0; i < guesses; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.VerifyEmail(context.Background(), "ana@example.com", "000000")
			mu.Lock()
			defer mu.Unlock()
			var de *usecase.DomainError
			switch {
			case errors.As(err, &de) && de.Message == "invalid verification code":
				tried++
			case errors.As(err, &de) && de.Message == "too many attempts":
				capped++
			default:
				unknown++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, entity.MaxOTPAttempts, tried)
	assert.Equal(t, guesses-entity.MaxOTPAttempts, capped)
	assert.Zero(t, unknown)
	assert.Equal(t, entity.MaxOTPAttempts, otps.otp.Attempts)
}

// TestVerifyEmailOTP_ConcurrentCorrectCode - only one of two racing verifications wins
func TestVerifyEmailOTP_ConcurrentCorrectCode(t *testing.T) {
	clock := newTestClock()
	otps := new(MockOTPRepository)
	otps.On("FindLatestByEmail", mock.Anything, "ana@example.com").
		Return(&entity.EmailOTP{ID: "o1", ExpiresAt: clock.now.Add(time.Minute)}, nil)
	otps.On("IncrementAttempts", mock.Anything, "o1", entity.MaxOTPAttempts).Return(true, nil)
	otps.On("MarkVerified", mock.Anything, "o1", mock.Anything).Return(entity.ErrOTPNotFound)
	svc := usecase.NewOTPService(nil, fakeCodes{}, otps, nil, clock.Clock())

	err := svc.VerifyEmail(context.Background(), "ana@example.com", "123456")
	assert.Equal(t, usecase.CodeInvalidOTP, domainCode(t, err))
	assert.False(t, usecase.IsTechnicalError(err))
}

// TestVerifyEmailOTP_CapReachedBetweenReadAndWrite - a refused increment rejects the guess
func TestVerifyEmailOTP_CapReachedBetweenReadAndWrite(t *testing.T) {
	clock := newTestClock()
	otps := new(MockOTPRepository)
	otps.On("FindLatestByEmail", mock.Anything, "ana@example.com").
		Return(&entity.EmailOTP{ID: "o1", ExpiresAt: clock.now.Add(time.Minute), Attempts: 4}, nil)
	otps.On("IncrementAttempts", mock.Anything, "o1", entity.MaxOTPAttempts).Return(false, nil)
	svc := usecase.NewOTPService(nil, fakeCodes{}, otps, nil, clock.Clock())

	err := svc.VerifyEmail(context.Background(), "ana@example.com", "123456")
	assert.Equal(t, usecase.CodeInvalidOTP, domainCode(t, err))
	otps.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything)
}

// TestSMSOTP - the provider verification id round-trips
func TestSMSOTP(t *testing.T) {
	sms := new(MockSMSVerifier)
	svc := usecase.NewOTPService(sms, fakeCodes{}, nil, nil, newTestClock().Clock())

	sms.On("SendOTP", mock.Anything, "9876543210").Return("ver-1", nil)
	sms.On("ValidateOTP", mock.Anything, "9876543210", "ver-1", "4321").Return(true, nil)
	sms.On("ValidateOTP", mock.Anything, "9876543210", "ver-1", "0000").Return(false, nil)

	id, err := svc.SendSMS(context.Background(), "+91 98765-43210")
	require.NoError(t, err)
	assert.Equal(t, "ver-1", id)

	require.NoError(t, svc.VerifySMS(context.Background(), "9876543210", "ver-1", "4321"))
	err = svc.VerifySMS(context.Background(), "9876543210", "ver-1", "0000")
	assert.Equal(t, usecase.CodeInvalidOTP, domainCode(t, err))

	_, err = svc.SendSMS(context.Background(), "12345")
	assert.Equal(t, usecase.CodeValidation, domainCode(t, err))
}

// TestSMSProviderDown - provider failures are technical errors
func TestSMSProviderDown(t *testing.T) {
	sms := new(MockSMSVerifier)
	sms.On("SendOTP", mock.Anything, mock.Anything).Return("", errors.New("503"))
	svc := usecase.NewOTPService(sms, fakeCodes{}, nil, nil, newTestClock().Clock())

	_, err := svc.SendSMS(context.Background(), "9876543210")
	assert.True(t, usecase.IsTechnicalError(err))
}
