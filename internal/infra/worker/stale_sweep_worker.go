package worker

import (
	"context"
	"log"
	"time"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type sweeper interface {
	Run(ctx context.Context) (*usecase.SweepResult, error)
}

// StaleSweepWorker runs the stale sweep on a fixed interval. It is an
// in-process alternative to the cron endpoint.
type StaleSweepWorker struct {
	sweeper      sweeper
	tickInterval time.Duration

	// OnSweep, when set, receives every successful result.
	OnSweep func(*usecase.SweepResult)
}

func NewStaleSweepWorker(s sweeper, interval time.Duration) *StaleSweepWorker {
	return &StaleSweepWorker{
		sweeper:      s,
		tickInterval: interval,
	}
}

func (w *StaleSweepWorker) Start(ctx context.Context) {
	log.Printf("🕒 Stale sweep worker started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Stale sweep worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *StaleSweepWorker) sweep(ctx context.Context) {
	result, err := w.sweeper.Run(ctx)
	if err != nil {
		log.Printf("❌ Stale sweep failed: %v", err)
		return
	}
	if result.ActivityFailures > 0 {
		log.Printf("⚠️ Stale sweep: %d activity record(s) missing", result.ActivityFailures)
	}
	if w.OnSweep != nil {
		w.OnSweep(result)
	}
}
