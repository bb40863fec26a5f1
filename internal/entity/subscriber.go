package entity

import (
	"context"
	"time"
)

type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Source       string    `json:"source,omitempty"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

type SubscriberRepository interface {
	// Upsert inserts the subscriber and reports whether it was new.
	Upsert(ctx context.Context, s *Subscriber) (bool, error)
}
