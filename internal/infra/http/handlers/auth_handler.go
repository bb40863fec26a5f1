package handlers

import (
	"context"
	"net/http"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*usecase.LoginOutput, error)
	ChangePassword(ctx context.Context, userID, current, next string) (*usecase.LoginOutput, error)
}

type AuthHandler struct {
	Auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ChangePassword returns a fresh session without the must-change flag.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.Auth.ChangePassword(r.Context(), actor.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
