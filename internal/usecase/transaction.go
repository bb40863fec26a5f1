package usecase

import (
	"context"
	"fmt"
	"log"
)

// Saga runs steps in order and, when one fails, runs the compensations of the
// steps that already succeeded in reverse order.
type Saga struct {
	steps []sagaStep
}

type sagaStep struct {
	name       string
	run        func(context.Context) error
	compensate func(context.Context) error
}

func NewSaga() *Saga {
	return &Saga{}
}

// AddStep registers a step; compensate may be nil.
func (s *Saga) AddStep(name string, run, compensate func(context.Context) error) {
	s.steps = append(s.steps, sagaStep{name: name, run: run, compensate: compensate})
}

func (s *Saga) Execute(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.run(ctx); err != nil {
			s.rollback(ctx, i)
			return fmt.Errorf("step '%s' failed: %w (rolled back %d steps)", step.name, err, i)
		}
	}
	return nil
}

func (s *Saga) rollback(ctx context.Context, failedAt int) {
	for i := failedAt - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx); err != nil {
			log.Printf("⚠️ compensation for '%s' failed: %v", step.name, err)
		}
	}
}
