package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type Traveler struct {
	Name   string `json:"name" bson:"name"`
	Age    int    `json:"age" bson:"age"`
	Gender string `json:"gender,omitempty" bson:"gender,omitempty"`
}

type Lead struct {
	ID            string        `json:"id" bson:"_id"`
	Name          string        `json:"name" bson:"name"`
	Email         string        `json:"email" bson:"email"`
	Phone         string        `json:"phone" bson:"phone"`
	Destination   string        `json:"destination" bson:"destination"`
	TravelDate    string        `json:"travelDate,omitempty" bson:"travelDate,omitempty"` // YYYY-MM-DD
	DurationDays  int           `json:"durationDays,omitempty" bson:"durationDays,omitempty"`
	Travelers     []Traveler    `json:"travelers" bson:"travelers"`
	Budget        float64       `json:"budget" bson:"budget"`
	NetAmount     float64       `json:"netAmount" bson:"netAmount"`
	TripProfit    float64       `json:"tripProfit" bson:"tripProfit"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	Stage         Stage         `json:"stage" bson:"stage"`
	PreviousStage *Stage        `json:"previousStage,omitempty" bson:"previousStage,omitempty"`
	AgentID       *string       `json:"agentId,omitempty" bson:"agentId,omitempty"`
	CustomerID    *string       `json:"customerId,omitempty" bson:"customerId,omitempty"`
	ItineraryURL  string        `json:"itineraryUrl,omitempty" bson:"itineraryUrl,omitempty"`
	Documents     []string      `json:"documents" bson:"documents"`
	Notes         string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Source        string        `json:"source,omitempty" bson:"source,omitempty"`
	IPAddress     string        `json:"-" bson:"ipAddress,omitempty"`

	LastActivityAt time.Time `json:"lastActivityAt" bson:"lastActivityAt"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

func NewLead(name, email, phone, destination string, now time.Time) *Lead {
	return &Lead{
		ID:             uuid.New().String(),
		Name:           name,
		Email:          email,
		Phone:          phone,
		Destination:    destination,
		Travelers:      []Traveler{},
		Documents:      []string{},
		PaymentStatus:  PaymentPending,
		Stage:          StageNew,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ReadyToWin checks the business preconditions for closing a lead as won:
// trip cost set, itinerary present and at least one document attached.
func (l *Lead) ReadyToWin() []string {
	var missing []string
	if l.NetAmount <= 0 {
		missing = append(missing, "netAmount")
	}
	if l.ItineraryURL == "" {
		missing = append(missing, "itineraryUrl")
	}
	if len(l.Documents) == 0 {
		missing = append(missing, "documents")
	}
	return missing
}

// LeadDetails carries the editable non-stage fields. Nil means unchanged.
type LeadDetails struct {
	Budget        *float64       `json:"budget,omitempty"`
	NetAmount     *float64       `json:"netAmount,omitempty"`
	TripProfit    *float64       `json:"tripProfit,omitempty"`
	PaymentStatus *PaymentStatus `json:"paymentStatus,omitempty"`
	ItineraryURL  *string        `json:"itineraryUrl,omitempty"`
	Documents     []string       `json:"documents,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	TravelDate    *string        `json:"travelDate,omitempty"`
	DurationDays  *int           `json:"durationDays,omitempty"`
}

func (d LeadDetails) ApplyTo(l *Lead) {
	if d.Budget != nil {
		l.Budget = *d.Budget
	}
	if d.NetAmount != nil {
		l.NetAmount = *d.NetAmount
	}
	if d.TripProfit != nil {
		l.TripProfit = *d.TripProfit
	}
	if d.PaymentStatus != nil {
		l.PaymentStatus = *d.PaymentStatus
	}
	if d.ItineraryURL != nil {
		l.ItineraryURL = *d.ItineraryURL
	}
	if d.Documents != nil {
		l.Documents = d.Documents
	}
	if d.Notes != nil {
		l.Notes = *d.Notes
	}
	if d.TravelDate != nil {
		l.TravelDate = *d.TravelDate
	}
	if d.DurationDays != nil {
		l.DurationDays = *d.DurationDays
	}
}

type LeadFilter struct {
	Stage   Stage
	AgentID string
	Email   string
	Limit   int
}

// StaleCandidate is a lead moved to stale by the sweep, with the stage it held before.
type StaleCandidate struct {
	LeadID         string
	PreviousStage  Stage
	LastActivityAt time.Time
}

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	// UpdateStage writes the new stage only if the stored stage still equals from.
	// It reports false when the guard did not match.
	UpdateStage(ctx context.Context, id string, from, to Stage, previous *Stage, now time.Time) (bool, error)
	AssignAgent(ctx context.Context, id, agentID string, now time.Time) error
	UpdateDetails(ctx context.Context, lead *Lead, now time.Time) error
	Touch(ctx context.Context, id string, now time.Time) error
	// MarkStale moves every active lead idle since before cutoff to stale and
	// returns what it moved.
	MarkStale(ctx context.Context, cutoff, now time.Time) ([]StaleCandidate, error)
}
