package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type MemberManager interface {
	CreateMember(ctx context.Context, actor usecase.Actor, input usecase.CreateMemberInput) (*usecase.CreateMemberOutput, error)
	ListMembers(ctx context.Context, actor usecase.Actor, filter entity.UserFilter) ([]*entity.User, error)
	VerifyAgent(ctx context.Context, actor usecase.Actor, id string, approved bool, notes string) (*entity.User, error)
	Deactivate(ctx context.Context, actor usecase.Actor, id string) (*entity.User, error)
	GetOnboarding(ctx context.Context, token string) (*entity.User, error)
	CompleteOnboarding(ctx context.Context, token string, input usecase.CompleteOnboardingInput) (*entity.User, error)
}

type MemberHandler struct {
	Members MemberManager
}

func NewMemberHandler(members MemberManager) *MemberHandler {
	return &MemberHandler{Members: members}
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var input usecase.CreateMemberInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out, err := h.Members.CreateMember(r.Context(), actor, input)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := entity.UserFilter{
		Role:   entity.Role(q.Get("role")),
		Status: entity.UserStatus(q.Get("status")),
	}
	if filter.Role != "" && !filter.Role.Valid() {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "unknown role")
		return
	}
	users, err := h.Members.ListMembers(r.Context(), actor, filter)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": users})
}

func (h *MemberHandler) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req struct {
		Approved bool   `json:"approved"`
		Notes    string `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.Members.VerifyAgent(r.Context(), actor, chi.URLParam(r, "id"), req.Approved, req.Notes)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *MemberHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	user, err := h.Members.Deactivate(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type OnboardingResponse struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
}

func (h *MemberHandler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	user, err := h.Members.GetOnboarding(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OnboardingResponse{Name: user.Name, Email: user.Email, Role: user.Role})
}

func (h *MemberHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var input usecase.CompleteOnboardingInput
	if !decodeJSON(w, r, &input) {
		return
	}
	user, err := h.Members.CompleteOnboarding(r.Context(), chi.URLParam(r, "token"), input)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "submitted",
		"verification": user.Verification,
	})
}
