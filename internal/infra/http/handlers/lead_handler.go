package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/http/middleware"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type LeadSubmitter interface {
	Execute(ctx context.Context, input usecase.SubmitLeadInput) (*usecase.SubmitLeadOutput, error)
}

type LeadPipeline interface {
	ChangeStage(ctx context.Context, actor usecase.Actor, id string, to entity.Stage, expectedFrom *entity.Stage) (*entity.Lead, error)
	RecoverStale(ctx context.Context, actor usecase.Actor, id string) (*entity.Lead, error)
	AssignAgent(ctx context.Context, actor usecase.Actor, id, agentID string) (*entity.Lead, error)
	UpdateDetails(ctx context.Context, actor usecase.Actor, id string, details entity.LeadDetails) (*entity.Lead, error)
	AddNote(ctx context.Context, actor usecase.Actor, id, note string) (*entity.LeadActivity, error)
	List(ctx context.Context, actor usecase.Actor, filter entity.LeadFilter) ([]*entity.Lead, error)
	ListForCustomer(ctx context.Context, actor usecase.Actor) ([]*entity.Lead, error)
	Get(ctx context.Context, actor usecase.Actor, id string) (*usecase.LeadView, error)
	Board(ctx context.Context, actor usecase.Actor) ([]usecase.BoardColumn, error)
}

type LeadHandler struct {
	Submitter LeadSubmitter
	Pipeline  LeadPipeline
}

func NewLeadHandler(submitter LeadSubmitter, pipeline LeadPipeline) *LeadHandler {
	return &LeadHandler{Submitter: submitter, Pipeline: pipeline}
}

type SubmitLeadResponse struct {
	ID        string `json:"id"`
	Remaining int    `json:"remaining"`
}

// Submit handles the public enquiry form (POST /api/leads).
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input usecase.SubmitLeadInput
	if !decodeJSON(w, r, &input) {
		middleware.RecordLeadSubmission("invalid")
		return
	}
	input.IPAddress = getClientIP(r)

	out, err := h.Submitter.Execute(r.Context(), input)
	if err != nil {
		result := submissionResult(err)
		if result == "rate_limited" {
			middleware.RecordRateLimitRejection()
		}
		middleware.RecordLeadSubmission(result)
		writeUsecaseError(w, r, err)
		return
	}

	middleware.RecordLeadSubmission("created")
	writeJSON(w, http.StatusCreated, SubmitLeadResponse{ID: out.ID, Remaining: out.Remaining})
}

func submissionResult(err error) string {
	var de *usecase.DomainError
	if !errors.As(err, &de) {
		return "error"
	}
	switch de.Code {
	case usecase.CodeRateLimited:
		return "rate_limited"
	case usecase.CodeValidation:
		return "invalid"
	}
	return "rejected"
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := entity.LeadFilter{AgentID: q.Get("agentId")}
	if s := q.Get("stage"); s != "" {
		stage, err := entity.ParseStage(s)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, err.Error())
			return
		}
		filter.Stage = stage
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}

	leads, err := h.Pipeline.List(r.Context(), actor, filter)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func (h *LeadHandler) Board(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	columns, err := h.Pipeline.Board(r.Context(), actor)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"columns": columns})
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	view, err := h.Pipeline.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type ChangeStageRequest struct {
	Stage     string  `json:"stage"`
	FromStage *string `json:"fromStage,omitempty"`
}

// ChangeStage backs the kanban drag. On failure the body carries the stored
// lead under details.lead so the board can revert.
func (h *LeadHandler) ChangeStage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req ChangeStageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	to, err := entity.ParseStage(req.Stage)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, err.Error())
		return
	}
	var from *entity.Stage
	if req.FromStage != nil {
		st, err := entity.ParseStage(*req.FromStage)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, err.Error())
			return
		}
		from = &st
	}

	lead, err := h.Pipeline.ChangeStage(r.Context(), actor, chi.URLParam(r, "id"), to, from)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	middleware.RecordStageTransition(string(lead.Stage))
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Recover(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	lead, err := h.Pipeline.RecoverStale(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	middleware.RecordStageTransition(string(lead.Stage))
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req struct {
		AgentID string `json:"agentId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	lead, err := h.Pipeline.AssignAgent(r.Context(), actor, chi.URLParam(r, "id"), req.AgentID)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var details entity.LeadDetails
	if !decodeJSON(w, r, &details) {
		return
	}
	lead, err := h.Pipeline.UpdateDetails(r.Context(), actor, chi.URLParam(r, "id"), details)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	activity, err := h.Pipeline.AddNote(r.Context(), actor, chi.URLParam(r, "id"), req.Note)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

// MyLeads backs the customer dashboard.
func (h *LeadHandler) MyLeads(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	leads, err := h.Pipeline.ListForCustomer(r.Context(), actor)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}
