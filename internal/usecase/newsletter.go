package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type NewsletterService struct {
	Subscribers entity.SubscriberRepository
	Notifier    Notifier
	Clock       Clock
}

func NewNewsletterService(subscribers entity.SubscriberRepository, notifier Notifier, clock Clock) *NewsletterService {
	return &NewsletterService{Subscribers: subscribers, Notifier: notifier, Clock: clock}
}

// Subscribe is idempotent; created is false when the email was already subscribed.
func (s *NewsletterService) Subscribe(ctx context.Context, email, source string) (created bool, err error) {
	if !isValidEmail(email) {
		return false, validationFailed([]ValidationError{{"email", "must be a valid email"}})
	}
	sub := &entity.Subscriber{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		Source:       source,
		SubscribedAt: s.Clock.now(),
	}
	created, err = s.Subscribers.Upsert(ctx, sub)
	if err != nil {
		return false, technical(CodeDatabase, "failed to subscribe", err)
	}
	if created {
		notify(ctx, s.Notifier, Notification{Kind: NotifyNewsletter, To: sub.Email})
	}
	return created, nil
}
