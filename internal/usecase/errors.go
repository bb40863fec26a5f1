package usecase

import (
	"errors"
	"fmt"
)

// DomainError is a business rejection the caller can act on.
type DomainError struct {
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps an infrastructure failure.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func technical(code, msg string, err error) error {
	return &TechnicalError{Code: code, Message: msg, Err: err}
}

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidStage     = "INVALID_TRANSITION"
	CodeStageConflict    = "STAGE_CONFLICT"
	CodeNotReadyToWin    = "WON_PRECONDITION_FAILED"
	CodeForbidden        = "FORBIDDEN"
	CodeInvalidLogin     = "INVALID_CREDENTIALS"
	CodeAccountInactive  = "ACCOUNT_INACTIVE"
	CodeEmailExists      = "EMAIL_EXISTS"
	CodeAgentUnavailable = "AGENT_UNAVAILABLE"
	CodeOnboardingGone   = "ONBOARDING_EXPIRED"
	CodeInvalidOTP       = "INVALID_OTP"
	CodeDatabase         = "DATABASE_ERROR"
	CodeProvider         = "PROVIDER_ERROR"
)
