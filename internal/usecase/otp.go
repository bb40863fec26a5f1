package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

const EmailOTPValidity = 10 * time.Minute

// OTPCodes derives and checks emailed one-time codes.
type OTPCodes interface {
	Generate(email string, at time.Time) (secret, code string, err error)
	Validate(code, secret string, at time.Time) bool
}

type OTPService struct {
	SMS      SMSVerifier
	Codes    OTPCodes
	OTPs     entity.OTPRepository
	Notifier Notifier
	Clock    Clock
}

func NewOTPService(sms SMSVerifier, codes OTPCodes, otps entity.OTPRepository, notifier Notifier, clock Clock) *OTPService {
	return &OTPService{SMS: sms, Codes: codes, OTPs: otps, Notifier: notifier, Clock: clock}
}

func (s *OTPService) SendSMS(ctx context.Context, phone string) (string, error) {
	phone = normalizePhone(phone)
	if !isValidPhoneNumber(phone) {
		return "", validationFailed([]ValidationError{{"phone", "must be a valid 10 digit mobile number"}})
	}
	if s.SMS == nil {
		return "", &TechnicalError{Code: CodeProvider, Message: "sms provider is not configured"}
	}
	id, err := s.SMS.SendOTP(ctx, phone)
	if err != nil {
		return "", technical(CodeProvider, "failed to send otp", err)
	}
	return id, nil
}

func (s *OTPService) VerifySMS(ctx context.Context, phone, verificationID, code string) error {
	phone = normalizePhone(phone)
	var errs []ValidationError
	if !isValidPhoneNumber(phone) {
		errs = append(errs, ValidationError{"phone", "must be a valid 10 digit mobile number"})
	}
	if verificationID == "" {
		errs = append(errs, ValidationError{"verificationId", "is required"})
	}
	if code == "" {
		errs = append(errs, ValidationError{"code", "is required"})
	}
	if len(errs) > 0 {
		return validationFailed(errs)
	}
	if s.SMS == nil {
		return &TechnicalError{Code: CodeProvider, Message: "sms provider is not configured"}
	}

	ok, err := s.SMS.ValidateOTP(ctx, phone, verificationID, code)
	if err != nil {
		return technical(CodeProvider, "failed to validate otp", err)
	}
	if !ok {
		return &DomainError{Code: CodeInvalidOTP, Message: "invalid verification code"}
	}
	return nil
}

func (s *OTPService) SendEmail(ctx context.Context, email string) error {
	if !isValidEmail(email) {
		return validationFailed([]ValidationError{{"email", "must be a valid email"}})
	}
	email = normalizeEmail(email)
	now := s.Clock.now()

	secret, code, err := s.Codes.Generate(email, now)
	if err != nil {
		return technical(CodeProvider, "failed to generate otp", err)
	}
	otp := &entity.EmailOTP{
		ID:        uuid.NewString(),
		Email:     email,
		Secret:    secret,
		ExpiresAt: now.Add(EmailOTPValidity),
		CreatedAt: now,
	}
	if err := s.OTPs.Create(ctx, otp); err != nil {
		return technical(CodeDatabase, "failed to store otp", err)
	}

	// delivery failure fails the request
	if s.Notifier != nil {
		err = s.Notifier.Notify(ctx, Notification{
			Kind: NotifyEmailOTP,
			To:   email,
			Data: map[string]string{"code": code, "validMinutes": "10"},
		})
		if err != nil {
			return technical(CodeProvider, "failed to send otp email", err)
		}
	}
	return nil
}

// VerifyEmail checks a code against the latest secret issued for email.
// Codes are single use and allow MaxOTPAttempts tries.
func (s *OTPService) VerifyEmail(ctx context.Context, email, code string) error {
	if !isValidEmail(email) || code == "" {
		return validationFailed([]ValidationError{{"code", "email and code are required"}})
	}
	email = normalizeEmail(email)
	now := s.Clock.now()

	otp, err := s.OTPs.FindLatestByEmail(ctx, email)
	if errors.Is(err, entity.ErrOTPNotFound) {
		return &DomainError{Code: CodeInvalidOTP, Message: "no code was requested for this email"}
	}
	if err != nil {
		return technical(CodeDatabase, "failed to load otp", err)
	}
	switch {
	case otp.VerifiedAt != nil:
		return &DomainError{Code: CodeInvalidOTP, Message: "code was already used"}
	case !now.Before(otp.ExpiresAt):
		return &DomainError{Code: CodeInvalidOTP, Message: "code has expired"}
	case otp.Attempts >= entity.MaxOTPAttempts:
		return &DomainError{Code: CodeInvalidOTP, Message: "too many attempts"}
	}

	ok, err := s.OTPs.IncrementAttempts(ctx, otp.ID, entity.MaxOTPAttempts)
	if err != nil {
		return technical(CodeDatabase, "failed to record attempt", err)
	}
	if !ok {
		return &DomainError{Code: CodeInvalidOTP, Message: "too many attempts"}
	}
	if !s.Codes.Validate(code, otp.Secret, now) {
		log.Printf("⚠️ invalid email otp attempt for %s", email)
		return &DomainError{Code: CodeInvalidOTP, Message: "invalid verification code"}
	}
	err = s.OTPs.MarkVerified(ctx, otp.ID, now)
	if errors.Is(err, entity.ErrOTPNotFound) {
		return &DomainError{Code: CodeInvalidOTP, Message: "code was already used"}
	}
	if err != nil {
		return technical(CodeDatabase, "failed to mark otp verified", err)
	}
	return nil
}
