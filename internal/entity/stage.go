package entity

import "fmt"

type Stage string

const (
	StageNew          Stage = "new"
	StageContacted    Stage = "contacted"
	StageQualified    Stage = "qualified"
	StageProposalSent Stage = "proposal_sent"
	StageNegotiation  Stage = "negotiation"
	StageWon          Stage = "won"
	StageLost         Stage = "lost"
	StageStale        Stage = "stale"
)

// Stages lists every stage in board column order.
var Stages = []Stage{
	StageNew,
	StageContacted,
	StageQualified,
	StageProposalSent,
	StageNegotiation,
	StageWon,
	StageLost,
	StageStale,
}

// pipelineOrder ranks the active stages; a manual move must go forward.
var pipelineOrder = map[Stage]int{
	StageNew:          0,
	StageContacted:    1,
	StageQualified:    2,
	StageProposalSent: 3,
	StageNegotiation:  4,
}

func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
	}
	return st, nil
}

func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageContacted, StageQualified, StageProposalSent,
		StageNegotiation, StageWon, StageLost, StageStale:
		return true
	}
	return false
}

// Active reports whether the stage is still being worked and can go stale.
func (s Stage) Active() bool {
	_, ok := pipelineOrder[s]
	return ok
}

func (s Stage) Terminal() bool {
	return s == StageWon || s == StageLost
}

// CanTransition validates a manual (admin or agent) stage move.
// Moves into stale are reserved for the sweep and moves out of stale go
// through recovery, so both are rejected here.
func CanTransition(from, to Stage) error {
	if !from.Valid() || !to.Valid() {
		return ErrInvalidStage
	}
	if from == to {
		return fmt.Errorf("%w: lead is already %s", ErrInvalidTransition, to)
	}
	if to == StageStale {
		return fmt.Errorf("%w: stale is set by the inactivity sweep", ErrInvalidTransition)
	}
	if from == StageStale {
		return fmt.Errorf("%w: recover the lead before moving it", ErrInvalidTransition)
	}
	if from.Terminal() {
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, from)
	}
	if to.Terminal() {
		return nil
	}
	if pipelineOrder[to] < pipelineOrder[from] {
		return fmt.Errorf("%w: %s cannot move back to %s", ErrInvalidTransition, from, to)
	}
	return nil
}
