package usecase

import (
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type SubmitLeadInput struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Destination  string            `json:"destination"`
	TravelDate   string            `json:"travelDate"`
	DurationDays int               `json:"durationDays"`
	Travelers    []entity.Traveler `json:"travelers"`
	Budget       float64           `json:"budget"`
	Source       string            `json:"source"`
	IPAddress    string            `json:"-"`
}

type SubmitLeadOutput struct {
	ID              string `json:"id"`
	Remaining       int    `json:"remaining"`
	CustomerCreated bool   `json:"customerCreated"`
}

// Actor is the authenticated caller of an admin or dashboard operation.
type Actor struct {
	UserID string
	Role   entity.Role
}

func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

type LeadView struct {
	Lead       *entity.Lead           `json:"lead"`
	Activities []*entity.LeadActivity `json:"activities"`
}

type BoardColumn struct {
	Stage entity.Stage   `json:"stage"`
	Leads []*entity.Lead `json:"leads"`
}

type SweepResult struct {
	Staled           int      `json:"staled"`
	LeadIDs          []string `json:"leadIds"`
	ActivityFailures int      `json:"activityFailures"`
}

type LoginOutput struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      *entity.User `json:"user"`
}

type CreateMemberInput struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Phone string      `json:"phone"`
	Role  entity.Role `json:"role"`
}

type CreateMemberOutput struct {
	User              *entity.User `json:"user"`
	TemporaryPassword string       `json:"temporaryPassword"`
	OnboardingURL     string       `json:"onboardingUrl,omitempty"`
}

type CompleteOnboardingInput struct {
	Phone     string   `json:"phone"`
	Documents []string `json:"documents"`
}
