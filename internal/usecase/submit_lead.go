package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type SubmitLeadUseCase struct {
	Leads       entity.LeadRepository
	Activities  entity.ActivityRepository
	Users       entity.UserRepository
	RateLimiter *LeadRateLimiter
	Hasher      PasswordHasher
	Notifier    Notifier
	Clock       Clock
	AdminEmail  string
	LoginURL    string
}

func NewSubmitLeadUseCase(
	leads entity.LeadRepository,
	activities entity.ActivityRepository,
	users entity.UserRepository,
	rateLimiter *LeadRateLimiter,
	hasher PasswordHasher,
	notifier Notifier,
	clock Clock,
	adminEmail, loginURL string,
) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		Leads:       leads,
		Activities:  activities,
		Users:       users,
		RateLimiter: rateLimiter,
		Hasher:      hasher,
		Notifier:    notifier,
		Clock:       clock,
		AdminEmail:  adminEmail,
		LoginURL:    loginURL,
	}
}

func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	if errs := ValidateSubmitLeadInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	limit, err := uc.RateLimiter.Check(ctx, input.IPAddress)
	if err != nil {
		return nil, err
	}
	if !limit.Allowed {
		return nil, &DomainError{Code: CodeRateLimited, Message: "not allowed", Details: map[string]any{"blockedUntil": limit.BlockedUntil}}
	}

	now := uc.Clock.now()
	email := normalizeEmail(input.Email)

	lead := entity.NewLead(strings.TrimSpace(input.Name), email, normalizePhone(input.Phone), strings.TrimSpace(input.Destination), now)
	lead.TravelDate = input.TravelDate
	lead.DurationDays = input.DurationDays
	lead.Budget = input.Budget
	lead.Source = input.Source
	lead.IPAddress = input.IPAddress
	if input.Travelers != nil {
		lead.Travelers = input.Travelers
	}

	customer, err := uc.Users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, entity.ErrUserNotFound) {
		return nil, technical(CodeDatabase, "failed to look up customer", err)
	}

	saga := NewSaga()
	var tempPassword string
	created := false

	if customer == nil {
		customer = entity.NewUser(lead.Name, email, lead.Phone, entity.RoleCustomer, now)
		customer.MustChangePassword = true
		tempPassword, err = generateTempPassword()
		if err != nil {
			return nil, technical(CodeDatabase, "failed to generate password", err)
		}
		customer.PasswordHash, err = uc.Hasher.Hash(tempPassword)
		if err != nil {
			return nil, technical(CodeDatabase, "failed to hash password", err)
		}
		newCustomer := customer
		saga.AddStep("create_customer",
			func(ctx context.Context) error { return uc.Users.Create(ctx, newCustomer) },
			func(ctx context.Context) error { return uc.Users.Delete(ctx, newCustomer.ID) },
		)
		created = true
	}
	if customer.Role == entity.RoleCustomer {
		lead.CustomerID = &customer.ID
	}

	saga.AddStep("create_lead", func(ctx context.Context) error {
		return uc.Leads.Create(ctx, lead)
	}, nil)

	if err := saga.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			// another submission created the account first; the lead still needs saving
			return uc.retryWithExistingCustomer(ctx, lead, email, limit.Remaining)
		}
		return nil, technical(CodeDatabase, "failed to save lead", err)
	}

	uc.afterCreate(ctx, lead, customer, tempPassword)

	log.Printf("✅ Lead %s received for %s (%s)", lead.ID, lead.Destination, lead.Email)
	return &SubmitLeadOutput{ID: lead.ID, Remaining: limit.Remaining, CustomerCreated: created}, nil
}

func (uc *SubmitLeadUseCase) retryWithExistingCustomer(ctx context.Context, lead *entity.Lead, email string, remaining int) (*SubmitLeadOutput, error) {
	customer, err := uc.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, technical(CodeDatabase, "failed to look up customer", err)
	}
	lead.CustomerID = nil
	if customer.Role == entity.RoleCustomer {
		lead.CustomerID = &customer.ID
	}
	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, technical(CodeDatabase, "failed to save lead", err)
	}
	uc.afterCreate(ctx, lead, customer, "")
	return &SubmitLeadOutput{ID: lead.ID, Remaining: remaining}, nil
}

// afterCreate runs the best-effort side effects of a new lead.
func (uc *SubmitLeadUseCase) afterCreate(ctx context.Context, lead *entity.Lead, customer *entity.User, tempPassword string) {
	activity := entity.NewActivity(lead.ID, entity.ActionCreated, "submitted via "+sourceOrDefault(lead.Source), lead.CreatedAt)
	if err := uc.Activities.Append(ctx, activity); err != nil {
		log.Printf("⚠️ activity log failed for lead %s: %v", lead.ID, err)
	}

	notify(ctx, uc.Notifier, Notification{
		Kind: NotifyLeadReceived,
		To:   uc.AdminEmail,
		Name: lead.Name,
		Data: map[string]string{
			"leadId":      lead.ID,
			"email":       lead.Email,
			"phone":       lead.Phone,
			"destination": lead.Destination,
			"travelDate":  lead.TravelDate,
		},
	})

	if tempPassword != "" {
		notify(ctx, uc.Notifier, Notification{
			Kind: NotifyCustomerWelcome,
			To:   customer.Email,
			Name: customer.Name,
			Data: map[string]string{
				"temporaryPassword": tempPassword,
				"loginUrl":          uc.LoginURL,
				"destination":       lead.Destination,
			},
		})
	}
}

func sourceOrDefault(source string) string {
	if source == "" {
		return "website"
	}
	return source
}
