package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/http/middleware"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type StaleSweeper interface {
	Run(ctx context.Context) (*usecase.SweepResult, error)
}

// CronHandler exposes the stale sweep to an external scheduler.
type CronHandler struct {
	Sweeper StaleSweeper
	Secret  string
}

func NewCronHandler(s StaleSweeper, secret string) *CronHandler {
	return &CronHandler{Sweeper: s, Secret: secret}
}

func (h *CronHandler) StaleSweep(w http.ResponseWriter, r *http.Request) {
	if h.Secret == "" {
		writeErrorResponse(w, http.StatusServiceUnavailable, "CRON_DISABLED", "cron secret not configured")
		return
	}
	token, ok := middleware.BearerToken(r)
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) != 1 {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid cron secret")
		return
	}

	result, err := h.Sweeper.Run(r.Context())
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	middleware.RecordLeadsStaled(result.Staled)
	writeJSON(w, http.StatusOK, result)
}
