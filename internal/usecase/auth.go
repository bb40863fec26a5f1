package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type AuthService struct {
	Users    entity.UserRepository
	Hasher   PasswordHasher
	Sessions SessionIssuer
	Clock    Clock
}

func NewAuthService(users entity.UserRepository, hasher PasswordHasher, sessions SessionIssuer, clock Clock) *AuthService {
	return &AuthService{Users: users, Hasher: hasher, Sessions: sessions, Clock: clock}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginOutput, error) {
	user, err := s.Users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, &DomainError{Code: CodeInvalidLogin, Message: "invalid email or password"}
	}
	if err != nil {
		return nil, technical(CodeDatabase, "failed to load user", err)
	}
	if !s.Hasher.Compare(user.PasswordHash, password) {
		return nil, &DomainError{Code: CodeInvalidLogin, Message: "invalid email or password"}
	}
	if user.Status == entity.UserInactive {
		return nil, &DomainError{Code: CodeAccountInactive, Message: "account is deactivated"}
	}
	return s.session(user)
}

// ChangePassword replaces the password and returns a fresh session without
// the forced-change flag.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) (*LoginOutput, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, &DomainError{Code: CodeNotFound, Message: "user not found"}
	}
	if err != nil {
		return nil, technical(CodeDatabase, "failed to load user", err)
	}
	if !s.Hasher.Compare(user.PasswordHash, current) {
		return nil, &DomainError{Code: CodeInvalidLogin, Message: "current password is incorrect"}
	}
	if errs := ValidatePasswordStrength(next); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if current == next {
		return nil, validationFailed([]ValidationError{{"newPassword", "must differ from the current password"}})
	}

	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return nil, technical(CodeDatabase, "failed to hash password", err)
	}
	user.PasswordHash = hash
	user.MustChangePassword = false
	user.UpdatedAt = s.Clock.now()
	if err := s.Users.Update(ctx, user); err != nil {
		return nil, technical(CodeDatabase, "failed to save password", err)
	}
	return s.session(user)
}

// CheckActive confirms the account behind a session still exists and has not
// been deactivated.
func (s *AuthService) CheckActive(ctx context.Context, userID string) error {
	if !isValidID(userID) {
		return &DomainError{Code: CodeAccountInactive, Message: "account no longer exists"}
	}
	user, err := s.Users.FindByID(ctx, userID)
	if errors.Is(err, entity.ErrUserNotFound) {
		return &DomainError{Code: CodeAccountInactive, Message: "account no longer exists"}
	}
	if err != nil {
		return technical(CodeDatabase, "failed to load user", err)
	}
	if user.Status == entity.UserInactive {
		return &DomainError{Code: CodeAccountInactive, Message: "account is deactivated"}
	}
	return nil
}

// EnsureAdmin creates the first admin account, or reports it already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*entity.User, bool, error) {
	email = normalizeEmail(email)
	existing, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, entity.ErrUserNotFound) {
		return nil, false, technical(CodeDatabase, "failed to load user", err)
	}
	if errs := ValidatePasswordStrength(password); len(errs) > 0 {
		return nil, false, validationFailed(errs)
	}

	admin := entity.NewUser(name, email, "", entity.RoleAdmin, s.Clock.now())
	admin.Verification.Status = entity.VerificationVerified
	admin.PasswordHash, err = s.Hasher.Hash(password)
	if err != nil {
		return nil, false, technical(CodeDatabase, "failed to hash password", err)
	}
	if err := s.Users.Create(ctx, admin); err != nil {
		return nil, false, technical(CodeDatabase, "failed to create admin", err)
	}
	return admin, true, nil
}

func (s *AuthService) session(user *entity.User) (*LoginOutput, error) {
	token, exp, err := s.Sessions.Issue(user)
	if err != nil {
		return nil, technical(CodeDatabase, "failed to issue session", err)
	}
	return &LoginOutput{Token: token, ExpiresAt: exp.Format(time.RFC3339), User: user}, nil
}

const tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// generateTempPassword returns a random 12 character password that always
// contains an upper case letter, a lower case letter and a digit.
func generateTempPassword() (string, error) {
	for {
		buf := make([]byte, 12)
		max := big.NewInt(int64(len(tempPasswordAlphabet)))
		for i := range buf {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", err
			}
			buf[i] = tempPasswordAlphabet[n.Int64()]
		}
		pw := string(buf)
		if len(ValidatePasswordStrength(pw)) == 0 {
			return pw, nil
		}
	}
}
