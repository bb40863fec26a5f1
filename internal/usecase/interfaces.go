package usecase

import (
	"context"
	"log"
	"time"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type NotificationKind string

const (
	NotifyLeadReceived    NotificationKind = "lead_received"
	NotifyCustomerWelcome NotificationKind = "customer_welcome"
	NotifyMemberWelcome   NotificationKind = "member_welcome"
	NotifyAgentAssigned   NotificationKind = "agent_assigned"
	NotifyEmailOTP        NotificationKind = "email_otp"
	NotifyNewsletter      NotificationKind = "newsletter_welcome"
)

// Notification is an outbound email request; delivery is best effort.
type Notification struct {
	Kind NotificationKind  `json:"kind"`
	To   string            `json:"to"`
	Name string            `json:"name"`
	Data map[string]string `json:"data,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type SessionIssuer interface {
	Issue(u *entity.User) (string, time.Time, error)
}

// SMSVerifier is the third-party SMS OTP provider.
type SMSVerifier interface {
	SendOTP(ctx context.Context, phone string) (string, error)
	ValidateOTP(ctx context.Context, phone, verificationID, code string) (bool, error)
}

// Clock returns the current time; tests pin it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// notify delivers n and logs failures; callers never fail on notifications.
func notify(ctx context.Context, n Notifier, msg Notification) {
	if n == nil || msg.To == "" {
		return
	}
	if err := n.Notify(ctx, msg); err != nil {
		log.Printf("⚠️ notification %s to %s failed: %v", msg.Kind, msg.To, err)
	}
}
