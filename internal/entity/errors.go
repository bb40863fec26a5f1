package entity

import "errors"

var (
	ErrLeadNotFound       = errors.New("lead not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidStage       = errors.New("invalid stage")
	ErrInvalidTransition  = errors.New("invalid stage transition")
	ErrStageConflict      = errors.New("lead stage changed concurrently")
	ErrNotStale           = errors.New("lead is not stale")
	ErrOTPNotFound        = errors.New("otp not found")
	ErrTokenNotFound      = errors.New("provider token not found")
	ErrOnboardingNotFound = errors.New("onboarding token not found")
)
