package handlers

import (
	"context"
	"net/http"
)

type Subscriber interface {
	Subscribe(ctx context.Context, email, source string) (bool, error)
}

type NewsletterHandler struct {
	Newsletter Subscriber
}

func NewNewsletterHandler(s Subscriber) *NewsletterHandler {
	return &NewsletterHandler{Newsletter: s}
}

// Subscribe answers 201 for a new address and 200 when it already exists.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		Source string `json:"source"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.Newsletter.Subscribe(r.Context(), req.Email, req.Source)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_subscribed"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
}
