package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type countingSweeper struct {
	runs atomic.Int32
	err  error
}

func (s *countingSweeper) Run(context.Context) (*usecase.SweepResult, error) {
	s.runs.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &usecase.SweepResult{Staled: 1, LeadIDs: []string{"lead-1"}}, nil
}

func TestStaleSweepWorkerRunsUntilCancelled(t *testing.T) {
	s := &countingSweeper{}
	var reported atomic.Int32
	w := NewStaleSweepWorker(s, 10*time.Millisecond)
	w.OnSweep = func(r *usecase.SweepResult) { reported.Add(int32(r.Staled)) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	assert.GreaterOrEqual(t, reported.Load(), int32(3))
}

func TestStaleSweepWorkerSurvivesErrors(t *testing.T) {
	s := &countingSweeper{err: errors.New("db down")}
	w := NewStaleSweepWorker(s, 5*time.Millisecond)
	w.OnSweep = func(*usecase.SweepResult) { t.Error("OnSweep called on failure") }

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	w.Start(ctx)

	assert.GreaterOrEqual(t, s.runs.Load(), int32(2))
}
