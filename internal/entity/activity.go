package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ActivityAction string

const (
	ActionCreated       ActivityAction = "created"
	ActionStageChanged  ActivityAction = "stage_changed"
	ActionAgentAssigned ActivityAction = "agent_assigned"
	ActionAutoStale     ActivityAction = "auto_stale"
	ActionRecovered     ActivityAction = "recovered"
	ActionUpdated       ActivityAction = "updated"
	ActionNoteAdded     ActivityAction = "note_added"
)

// LeadActivity is an immutable entry of a lead's history.
type LeadActivity struct {
	ID        string         `json:"id" bson:"_id"`
	LeadID    string         `json:"leadId" bson:"leadId"`
	Action    ActivityAction `json:"action" bson:"action"`
	FromStage *Stage         `json:"fromStage,omitempty" bson:"fromStage,omitempty"`
	ToStage   *Stage         `json:"toStage,omitempty" bson:"toStage,omitempty"`
	Details   string         `json:"details,omitempty" bson:"details,omitempty"`
	ActorID   *string        `json:"actorId,omitempty" bson:"actorId,omitempty"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
}

func NewActivity(leadID string, action ActivityAction, details string, now time.Time) *LeadActivity {
	return &LeadActivity{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Action:    action,
		Details:   details,
		Timestamp: now,
	}
}

func NewStageActivity(leadID string, action ActivityAction, from, to Stage, now time.Time) *LeadActivity {
	a := NewActivity(leadID, action, "", now)
	a.FromStage = &from
	a.ToStage = &to
	return a
}

// ActivityRepository is append-only.
type ActivityRepository interface {
	Append(ctx context.Context, activity *LeadActivity) error
	ListByLead(ctx context.Context, leadID string) ([]*LeadActivity, error)
}
