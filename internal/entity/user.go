package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAgent || r == RoleAdmin
}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserPending  UserStatus = "pending"
	UserInactive UserStatus = "inactive"
)

type VerificationStatus string

const (
	VerificationUnsubmitted VerificationStatus = "unsubmitted"
	VerificationSubmitted   VerificationStatus = "submitted"
	VerificationVerified    VerificationStatus = "verified"
	VerificationRejected    VerificationStatus = "rejected"
)

type Verification struct {
	Status     VerificationStatus `json:"status"`
	Documents  []string           `json:"documents"`
	Notes      string             `json:"notes,omitempty"`
	ReviewedBy *string            `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time         `json:"reviewedAt,omitempty"`
}

type Onboarding struct {
	Token       string     `json:"-"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// User is the single account type for customers, agents and admins.
type User struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Email              string       `json:"email"`
	Phone              string       `json:"phone,omitempty"`
	Role               Role         `json:"role"`
	Status             UserStatus   `json:"status"`
	PasswordHash       string       `json:"-"`
	MustChangePassword bool         `json:"mustChangePassword"`
	Verification       Verification `json:"verification"`
	Onboarding         Onboarding   `json:"onboarding"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

func NewUser(name, email, phone string, role Role, now time.Time) *User {
	return &User{
		ID:     uuid.New().String(),
		Name:   name,
		Email:  email,
		Phone:  phone,
		Role:   role,
		Status: UserActive,
		Verification: Verification{
			Status:    VerificationUnsubmitted,
			Documents: []string{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) CanTakeLeads() bool {
	return u.Role == RoleAgent && u.Status == UserActive && u.Verification.Status == VerificationVerified
}

type UserFilter struct {
	Role   Role
	Status UserStatus
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByOnboardingToken(ctx context.Context, token string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]*User, error)
	Update(ctx context.Context, u *User) error
}
