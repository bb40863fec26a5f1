package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

// LeadPipeline holds the admin/agent operations on existing leads.
type LeadPipeline struct {
	Leads      entity.LeadRepository
	Activities entity.ActivityRepository
	Users      entity.UserRepository
	Notifier   Notifier
	Clock      Clock
}

func NewLeadPipeline(
	leads entity.LeadRepository,
	activities entity.ActivityRepository,
	users entity.UserRepository,
	notifier Notifier,
	clock Clock,
) *LeadPipeline {
	return &LeadPipeline{
		Leads:      leads,
		Activities: activities,
		Users:      users,
		Notifier:   notifier,
		Clock:      clock,
	}
}

// ChangeStage applies a manual transition. expectedFrom is the stage the
// caller last saw; when nil the stored stage is used.
func (p *LeadPipeline) ChangeStage(ctx context.Context, actor Actor, id string, to entity.Stage, expectedFrom *entity.Stage) (*entity.Lead, error) {
	lead, err := p.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := lead.Stage
	if expectedFrom != nil && *expectedFrom != from {
		return nil, stageConflict(lead)
	}
	if err := entity.CanTransition(from, to); err != nil {
		return nil, &DomainError{Code: CodeInvalidStage, Message: err.Error()}
	}
	if to == entity.StageWon {
		if missing := lead.ReadyToWin(); len(missing) > 0 {
			return nil, &DomainError{
				Code:    CodeNotReadyToWin,
				Message: "lead cannot be won until trip cost, itinerary and documents are set",
				Details: map[string][]string{"missing": missing},
			}
		}
	}

	now := p.Clock.now()
	ok, err := p.Leads.UpdateStage(ctx, id, from, to, nil, now)
	if err != nil {
		return nil, technical(CodeDatabase, "failed to update stage", err)
	}
	if !ok {
		return nil, p.conflictWithCurrent(ctx, id)
	}

	activity := entity.NewStageActivity(id, entity.ActionStageChanged, from, to, now)
	activity.ActorID = &actor.UserID
	p.appendActivity(ctx, activity)

	lead.Stage = to
	lead.PreviousStage = nil
	lead.LastActivityAt = now
	lead.UpdatedAt = now
	return lead, nil
}

// RecoverStale puts a stale lead back into the stage it held before the sweep.
func (p *LeadPipeline) RecoverStale(ctx context.Context, actor Actor, id string) (*entity.Lead, error) {
	lead, err := p.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if lead.Stage != entity.StageStale || lead.PreviousStage == nil {
		return nil, &DomainError{Code: CodeInvalidStage, Message: entity.ErrNotStale.Error()}
	}

	target := *lead.PreviousStage
	now := p.Clock.now()
	ok, err := p.Leads.UpdateStage(ctx, id, entity.StageStale, target, nil, now)
	if err != nil {
		return nil, technical(CodeDatabase, "failed to recover lead", err)
	}
	if !ok {
		return nil, p.conflictWithCurrent(ctx, id)
	}

	activity := entity.NewStageActivity(id, entity.ActionRecovered, entity.StageStale, target, now)
	activity.ActorID = &actor.UserID
	p.appendActivity(ctx, activity)

	lead.Stage = target
	lead.PreviousStage = nil
	lead.LastActivityAt = now
	lead.UpdatedAt = now
	return lead, nil
}

func (p *LeadPipeline) AssignAgent(ctx context.Context, actor Actor, id, agentID string) (*entity.Lead, error) {
	if !actor.IsAdmin() {
		return nil, &DomainError{Code: CodeForbidden, Message: "only admins can assign agents"}
	}
	lead, err := p.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !isValidID(agentID) {
		return nil, &DomainError{Code: CodeAgentUnavailable, Message: "agent not found"}
	}
	agent, err := p.Users.FindByID(ctx, agentID)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, &DomainError{Code: CodeAgentUnavailable, Message: "agent not found"}
	}
	if err != nil {
		return nil, technical(CodeDatabase, "failed to load agent", err)
	}
	if !agent.CanTakeLeads() {
		return nil, &DomainError{Code: CodeAgentUnavailable, Message: "agent is not active and verified"}
	}

	now := p.Clock.now()
	if err := p.Leads.AssignAgent(ctx, id, agentID, now); err != nil {
		return nil, p.mapRepoError(err, "failed to assign agent")
	}

	activity := entity.NewActivity(id, entity.ActionAgentAssigned, fmt.Sprintf("assigned to %s", agent.Name), now)
	activity.ActorID = &actor.UserID
	p.appendActivity(ctx, activity)

	notify(ctx, p.Notifier, Notification{
		Kind: NotifyAgentAssigned,
		To:   agent.Email,
		Name: agent.Name,
		Data: map[string]string{"leadId": lead.ID, "leadName": lead.Name, "destination": lead.Destination},
	})

	lead.AgentID = &agentID
	lead.LastActivityAt = now
	lead.UpdatedAt = now
	return lead, nil
}

func (p *LeadPipeline) UpdateDetails(ctx context.Context, actor Actor, id string, details entity.LeadDetails) (*entity.Lead, error) {
	if errs := ValidateLeadDetails(details); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	lead, err := p.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	details.ApplyTo(lead)
	now := p.Clock.now()
	if err := p.Leads.UpdateDetails(ctx, lead, now); err != nil {
		return nil, p.mapRepoError(err, "failed to update lead")
	}

	activity := entity.NewActivity(id, entity.ActionUpdated, "lead details updated", now)
	activity.ActorID = &actor.UserID
	p.appendActivity(ctx, activity)

	lead.LastActivityAt = now
	lead.UpdatedAt = now
	return lead, nil
}

func (p *LeadPipeline) AddNote(ctx context.Context, actor Actor, id, note string) (*entity.LeadActivity, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, validationFailed([]ValidationError{{"note", "is required"}})
	}
	if _, err := p.load(ctx, actor, id); err != nil {
		return nil, err
	}

	now := p.Clock.now()
	if err := p.Leads.Touch(ctx, id, now); err != nil {
		return nil, p.mapRepoError(err, "failed to touch lead")
	}

	activity := entity.NewActivity(id, entity.ActionNoteAdded, note, now)
	activity.ActorID = &actor.UserID
	if err := p.Activities.Append(ctx, activity); err != nil {
		return nil, technical(CodeDatabase, "failed to save note", err)
	}
	return activity, nil
}

func (p *LeadPipeline) List(ctx context.Context, actor Actor, filter entity.LeadFilter) ([]*entity.Lead, error) {
	switch actor.Role {
	case entity.RoleAdmin:
		if filter.AgentID != "" && !isValidID(filter.AgentID) {
			return nil, validationFailed([]ValidationError{{"agentId", "must be a valid id"}})
		}
	case entity.RoleAgent:
		filter.AgentID = actor.UserID
	default:
		return nil, &DomainError{Code: CodeForbidden, Message: "not allowed"}
	}
	leads, err := p.Leads.List(ctx, filter)
	if err != nil {
		return nil, technical(CodeDatabase, "failed to list leads", err)
	}
	return leads, nil
}

// ListForCustomer backs the customer dashboard.
func (p *LeadPipeline) ListForCustomer(ctx context.Context, actor Actor) ([]*entity.Lead, error) {
	user, err := p.Users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, p.mapRepoError(err, "failed to load user")
	}
	leads, err := p.Leads.List(ctx, entity.LeadFilter{Email: user.Email})
	if err != nil {
		return nil, technical(CodeDatabase, "failed to list leads", err)
	}
	return leads, nil
}

func (p *LeadPipeline) Get(ctx context.Context, actor Actor, id string) (*LeadView, error) {
	lead, err := p.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	activities, err := p.Activities.ListByLead(ctx, id)
	if err != nil {
		return nil, technical(CodeDatabase, "failed to load activity", err)
	}
	return &LeadView{Lead: lead, Activities: activities}, nil
}

// Board groups the visible leads into one column per stage.
func (p *LeadPipeline) Board(ctx context.Context, actor Actor) ([]BoardColumn, error) {
	leads, err := p.List(ctx, actor, entity.LeadFilter{})
	if err != nil {
		return nil, err
	}
	byStage := make(map[entity.Stage][]*entity.Lead, len(entity.Stages))
	for _, l := range leads {
		byStage[l.Stage] = append(byStage[l.Stage], l)
	}
	columns := make([]BoardColumn, 0, len(entity.Stages))
	for _, st := range entity.Stages {
		col := byStage[st]
		if col == nil {
			col = []*entity.Lead{}
		}
		columns = append(columns, BoardColumn{Stage: st, Leads: col})
	}
	return columns, nil
}

func (p *LeadPipeline) load(ctx context.Context, actor Actor, id string) (*entity.Lead, error) {
	if !isValidID(id) {
		return nil, &DomainError{Code: CodeNotFound, Message: "lead not found"}
	}
	lead, err := p.Leads.FindByID(ctx, id)
	if err != nil {
		return nil, p.mapRepoError(err, "failed to load lead")
	}
	switch actor.Role {
	case entity.RoleAdmin:
		return lead, nil
	case entity.RoleAgent:
		if lead.AgentID != nil && *lead.AgentID == actor.UserID {
			return lead, nil
		}
	}
	return nil, &DomainError{Code: CodeForbidden, Message: "lead is not assigned to you"}
}

func (p *LeadPipeline) conflictWithCurrent(ctx context.Context, id string) error {
	current, err := p.Leads.FindByID(ctx, id)
	if err != nil {
		return p.mapRepoError(err, "failed to reload lead")
	}
	return stageConflict(current)
}

func (p *LeadPipeline) appendActivity(ctx context.Context, a *entity.LeadActivity) {
	if err := p.Activities.Append(ctx, a); err != nil {
		log.Printf("⚠️ activity %s for lead %s not recorded: %v", a.Action, a.LeadID, err)
	}
}

func (p *LeadPipeline) mapRepoError(err error, msg string) error {
	if errors.Is(err, entity.ErrLeadNotFound) {
		return &DomainError{Code: CodeNotFound, Message: "lead not found"}
	}
	if errors.Is(err, entity.ErrUserNotFound) {
		return &DomainError{Code: CodeNotFound, Message: "user not found"}
	}
	return technical(CodeDatabase, msg, err)
}

func stageConflict(current *entity.Lead) error {
	return &DomainError{
		Code:    CodeStageConflict,
		Message: fmt.Sprintf("lead is now %s", current.Stage),
		Details: map[string]any{"lead": current},
	}
}
