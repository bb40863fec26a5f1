package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/auth"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// AccountChecker rejects sessions whose account was deactivated after login.
type AccountChecker interface {
	CheckActive(ctx context.Context, userID string) error
}

type actorKey struct{}

// PasswordChangePath is the only authenticated route a session carrying the
// must-change-password flag may call.
const PasswordChangePath = "/api/auth/password"

func WithActor(ctx context.Context, a usecase.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (usecase.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(usecase.Actor)
	return a, ok
}

// Authenticate validates the bearer session and stores the actor in the
// request context. accounts may be nil.
func Authenticate(tokens TokenParser, accounts AccountChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				deny(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				deny(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired session")
				return
			}
			if accounts != nil {
				if err := accounts.CheckActive(r.Context(), claims.Subject); err != nil {
					if usecase.IsDomainError(err) {
						deny(w, http.StatusUnauthorized, usecase.CodeAccountInactive, err.Error())
						return
					}
					log.Printf("❌ account check for %s failed: %v", claims.Subject, err)
					deny(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not verify session")
					return
				}
			}
			if claims.MustChangePassword && r.URL.Path != PasswordChangePath {
				deny(w, http.StatusForbidden, "PASSWORD_CHANGE_REQUIRED", "change your password to continue")
				return
			}

			actor := usecase.Actor{UserID: claims.Subject, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny(w, http.StatusForbidden, usecase.CodeForbidden, "insufficient role")
		})
	}
}

// BearerToken returns the credential of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func deny(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}
