package auth

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const emailOTPPeriod = 600

var emailOTPOpts = totp.ValidateOpts{
	Period:    emailOTPPeriod,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// TOTPCodes derives emailed codes from a fresh TOTP secret per request.
type TOTPCodes struct {
	Issuer string
}

func NewTOTPCodes(issuer string) *TOTPCodes {
	return &TOTPCodes{Issuer: issuer}
}

func (c *TOTPCodes) Generate(email string, at time.Time) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      c.Issuer,
		AccountName: email,
		Period:      emailOTPPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	code, err := totp.GenerateCodeCustom(key.Secret(), at, emailOTPOpts)
	if err != nil {
		return "", "", err
	}
	return key.Secret(), code, nil
}

func (c *TOTPCodes) Validate(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, emailOTPOpts)
	if err != nil {
		return false
	}
	return ok
}
