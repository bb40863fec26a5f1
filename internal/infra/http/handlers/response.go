package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/http/middleware"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

var domainStatus = map[string]int{
	usecase.CodeValidation:       http.StatusBadRequest,
	usecase.CodeRateLimited:      http.StatusTooManyRequests,
	usecase.CodeNotFound:         http.StatusNotFound,
	usecase.CodeInvalidStage:     http.StatusUnprocessableEntity,
	usecase.CodeStageConflict:    http.StatusConflict,
	usecase.CodeNotReadyToWin:    http.StatusUnprocessableEntity,
	usecase.CodeForbidden:        http.StatusForbidden,
	usecase.CodeInvalidLogin:     http.StatusUnauthorized,
	usecase.CodeAccountInactive:  http.StatusForbidden,
	usecase.CodeEmailExists:      http.StatusConflict,
	usecase.CodeAgentUnavailable: http.StatusUnprocessableEntity,
	usecase.CodeOnboardingGone:   http.StatusGone,
	usecase.CodeInvalidOTP:       http.StatusBadRequest,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ encode response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUsecaseError is the single place errors become HTTP statuses.
func writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status, ok := domainStatus[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, ErrorResponse{Error: de.Code, Message: de.Message, Details: de.Details})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		log.Printf("❌ %s %s: %v", r.Method, r.URL.Path, err)
		if te.Code == usecase.CodeProvider {
			writeErrorResponse(w, http.StatusBadGateway, te.Code, te.Message)
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, te.Code, te.Message)
		return
	}

	switch {
	case errors.Is(err, entity.ErrLeadNotFound), errors.Is(err, entity.ErrUserNotFound):
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, err.Error())
	case errors.Is(err, entity.ErrStageConflict):
		writeErrorResponse(w, http.StatusConflict, usecase.CodeStageConflict, err.Error())
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		writeErrorResponse(w, http.StatusConflict, usecase.CodeEmailExists, err.Error())
	default:
		log.Printf("❌ %s %s: %v", r.Method, r.URL.Path, err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return false
	}
	return true
}

func actorFrom(w http.ResponseWriter, r *http.Request) (usecase.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}
	return actor, ok
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// socket address without its port.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
