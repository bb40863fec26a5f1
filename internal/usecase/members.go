package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

const DefaultOnboardingTTL = 72 * time.Hour

// MemberService manages agent and admin accounts and agent onboarding.
type MemberService struct {
	Users         entity.UserRepository
	Hasher        PasswordHasher
	Notifier      Notifier
	Clock         Clock
	OnboardingTTL time.Duration
	BaseURL       string
}

func NewMemberService(users entity.UserRepository, hasher PasswordHasher, notifier Notifier, clock Clock, onboardingTTL time.Duration, baseURL string) *MemberService {
	if onboardingTTL <= 0 {
		onboardingTTL = DefaultOnboardingTTL
	}
	return &MemberService{
		Users:         users,
		Hasher:        hasher,
		Notifier:      notifier,
		Clock:         clock,
		OnboardingTTL: onboardingTTL,
		BaseURL:       strings.TrimRight(baseURL, "/"),
	}
}

func (s *MemberService) CreateMember(ctx context.Context, actor Actor, input CreateMemberInput) (*CreateMemberOutput, error) {
	if !actor.IsAdmin() {
		return nil, &DomainError{Code: CodeForbidden, Message: "only admins can create members"}
	}

	var errs []ValidationError
	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	}
	if !isValidEmail(input.Email) {
		errs = append(errs, ValidationError{"email", "must be a valid email"})
	}
	if input.Phone != "" && !isValidPhoneNumber(normalizePhone(input.Phone)) {
		errs = append(errs, ValidationError{"phone", "must be a valid 10 digit mobile number"})
	}
	if input.Role != entity.RoleAgent && input.Role != entity.RoleAdmin {
		errs = append(errs, ValidationError{"role", "must be agent or admin"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	now := s.Clock.now()
	phone := ""
	if input.Phone != "" {
		phone = normalizePhone(input.Phone)
	}
	user := entity.NewUser(strings.TrimSpace(input.Name), normalizeEmail(input.Email), phone, input.Role, now)
	user.MustChangePassword = true

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, technical(CodeDatabase, "failed to generate password", err)
	}
	if user.PasswordHash, err = s.Hasher.Hash(tempPassword); err != nil {
		return nil, technical(CodeDatabase, "failed to hash password", err)
	}

	out := &CreateMemberOutput{User: user, TemporaryPassword: tempPassword}
	if user.Role == entity.RoleAgent {
		user.Status = entity.UserPending
		expires := now.Add(s.OnboardingTTL)
		user.Onboarding = entity.Onboarding{Token: uuid.NewString(), ExpiresAt: &expires}
		out.OnboardingURL = s.BaseURL + "/onboarding/" + user.Onboarding.Token
	} else {
		user.Verification.Status = entity.VerificationVerified
	}

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, &DomainError{Code: CodeEmailExists, Message: "a user with this email already exists"}
		}
		return nil, technical(CodeDatabase, "failed to create member", err)
	}

	notify(ctx, s.Notifier, Notification{
		Kind: NotifyMemberWelcome,
		To:   user.Email,
		Name: user.Name,
		Data: map[string]string{
			"role":              string(user.Role),
			"temporaryPassword": tempPassword,
			"loginUrl":          s.BaseURL + "/login",
			"onboardingUrl":     out.OnboardingURL,
		},
	})

	log.Printf("✅ Member %s created with role %s", user.Email, user.Role)
	return out, nil
}

func (s *MemberService) ListMembers(ctx context.Context, actor Actor, filter entity.UserFilter) ([]*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, &DomainError{Code: CodeForbidden, Message: "only admins can list members"}
	}
	users, err := s.Users.List(ctx, filter)
	if err != nil {
		return nil, technical(CodeDatabase, "failed to list members", err)
	}
	return users, nil
}

// VerifyAgent records the admin's review of an agent's submitted documents.
// Approval activates the agent so leads can be assigned.
func (s *MemberService) VerifyAgent(ctx context.Context, actor Actor, id string, approved bool, notes string) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, &DomainError{Code: CodeForbidden, Message: "only admins can verify members"}
	}
	user, err := s.member(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleAgent {
		return nil, validationFailed([]ValidationError{{"id", "only agents go through verification"}})
	}

	now := s.Clock.now()
	reviewer := actor.UserID
	user.Verification.ReviewedBy = &reviewer
	user.Verification.ReviewedAt = &now
	user.Verification.Notes = notes
	if approved {
		user.Verification.Status = entity.VerificationVerified
		if user.Status == entity.UserPending {
			user.Status = entity.UserActive
		}
	} else {
		user.Verification.Status = entity.VerificationRejected
	}
	user.UpdatedAt = now

	if err := s.Users.Update(ctx, user); err != nil {
		return nil, technical(CodeDatabase, "failed to update member", err)
	}
	log.Printf("✅ Agent %s verification: %s", user.Email, user.Verification.Status)
	return user, nil
}

func (s *MemberService) Deactivate(ctx context.Context, actor Actor, id string) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, &DomainError{Code: CodeForbidden, Message: "only admins can deactivate members"}
	}
	if id == actor.UserID {
		return nil, validationFailed([]ValidationError{{"id", "admins cannot deactivate themselves"}})
	}
	user, err := s.member(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Status = entity.UserInactive
	user.UpdatedAt = s.Clock.now()
	if err := s.Users.Update(ctx, user); err != nil {
		return nil, technical(CodeDatabase, "failed to update member", err)
	}
	return user, nil
}

// GetOnboarding resolves an onboarding token that is still usable.
func (s *MemberService) GetOnboarding(ctx context.Context, token string) (*entity.User, error) {
	user, err := s.Users.FindByOnboardingToken(ctx, token)
	if errors.Is(err, entity.ErrOnboardingNotFound) || errors.Is(err, entity.ErrUserNotFound) {
		return nil, &DomainError{Code: CodeNotFound, Message: "onboarding link not found"}
	}
	if err != nil {
		return nil, technical(CodeDatabase, "failed to load onboarding", err)
	}
	ob := user.Onboarding
	if ob.CompletedAt != nil || ob.ExpiresAt == nil || !s.Clock.now().Before(*ob.ExpiresAt) {
		return nil, &DomainError{Code: CodeOnboardingGone, Message: "onboarding link has expired or was already used"}
	}
	return user, nil
}

func (s *MemberService) CompleteOnboarding(ctx context.Context, token string, input CompleteOnboardingInput) (*entity.User, error) {
	user, err := s.GetOnboarding(ctx, token)
	if err != nil {
		return nil, err
	}

	var errs []ValidationError
	if len(input.Documents) == 0 {
		errs = append(errs, ValidationError{"documents", "at least one document is required"})
	}
	for _, doc := range input.Documents {
		if strings.TrimSpace(doc) == "" {
			errs = append(errs, ValidationError{"documents", "must not contain empty entries"})
			break
		}
	}
	if input.Phone != "" && !isValidPhoneNumber(normalizePhone(input.Phone)) {
		errs = append(errs, ValidationError{"phone", "must be a valid 10 digit mobile number"})
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	now := s.Clock.now()
	if input.Phone != "" {
		user.Phone = normalizePhone(input.Phone)
	}
	user.Verification.Documents = input.Documents
	user.Verification.Status = entity.VerificationSubmitted
	user.Onboarding.CompletedAt = &now
	user.UpdatedAt = now

	if err := s.Users.Update(ctx, user); err != nil {
		return nil, technical(CodeDatabase, "failed to save onboarding", err)
	}
	log.Printf("✅ Agent %s submitted verification documents", user.Email)
	return user, nil
}

func (s *MemberService) member(ctx context.Context, id string) (*entity.User, error) {
	if !isValidID(id) {
		return nil, &DomainError{Code: CodeNotFound, Message: "member not found"}
	}
	user, err := s.Users.FindByID(ctx, id)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, &DomainError{Code: CodeNotFound, Message: "member not found"}
	}
	if err != nil {
		return nil, technical(CodeDatabase, "failed to load member", err)
	}
	if user.Role == entity.RoleCustomer {
		return nil, &DomainError{Code: CodeNotFound, Message: "member not found"}
	}
	return user, nil
}
