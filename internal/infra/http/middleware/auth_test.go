package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/auth"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

func issue(t *testing.T, j *auth.JWTIssuer, role entity.Role, mcp bool) string {
	t.Helper()
	token, _, err := j.Issue(&entity.User{ID: "user-1", Role: role, MustChangePassword: mcp})
	require.NoError(t, err)
	return token
}

func serve(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestAuthenticate(t *testing.T) {
	issuer := auth.NewJWTIssuer("test-secret", time.Hour)
	var seenRole entity.Role
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFrom(r.Context())
		require.True(t, ok)
		seenRole = actor.Role
		w.WriteHeader(http.StatusNoContent)
	})
	h := Authenticate(issuer, nil)(next)

	t.Run("missing token", func(t *testing.T) {
		rec := serve(h, http.MethodGet, "/api/admin/leads", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := auth.NewJWTIssuer("another-secret", time.Hour)
		rec := serve(h, http.MethodGet, "/api/admin/leads", issue(t, other, entity.RoleAdmin, false))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		rec := serve(h, http.MethodGet, "/api/admin/leads", issue(t, issuer, entity.RoleAgent, false))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, entity.RoleAgent, seenRole)
	})

	t.Run("must change password locks other routes", func(t *testing.T) {
		token := issue(t, issuer, entity.RoleAgent, true)

		rec := serve(h, http.MethodGet, "/api/admin/leads", token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "PASSWORD_CHANGE_REQUIRED", errorCode(t, rec))

		rec = serve(h, http.MethodPost, PasswordChangePath, token)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

type stubAccounts struct {
	err   error
	calls []string
}

func (s *stubAccounts) CheckActive(ctx context.Context, userID string) error {
	s.calls = append(s.calls, userID)
	return s.err
}

func TestAuthenticateAccountStatus(t *testing.T) {
	issuer := auth.NewJWTIssuer("test-secret", time.Hour)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	token := issue(t, issuer, entity.RoleAgent, false)

	t.Run("active account", func(t *testing.T) {
		accounts := &stubAccounts{}
		rec := serve(Authenticate(issuer, accounts)(ok), http.MethodGet, "/api/admin/leads", token)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []string{"user-1"}, accounts.calls)
	})

	t.Run("deactivated after login", func(t *testing.T) {
		accounts := &stubAccounts{err: &usecase.DomainError{Code: usecase.CodeAccountInactive, Message: "account is deactivated"}}
		rec := serve(Authenticate(issuer, accounts)(ok), http.MethodGet, "/api/admin/leads", token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, usecase.CodeAccountInactive, errorCode(t, rec))
	})

	t.Run("lookup failure", func(t *testing.T) {
		accounts := &stubAccounts{err: errors.New("connection refused")}
		rec := serve(Authenticate(issuer, accounts)(ok), http.MethodGet, "/api/admin/leads", token)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("invalid token skips the lookup", func(t *testing.T) {
		accounts := &stubAccounts{}
		rec := serve(Authenticate(issuer, accounts)(ok), http.MethodGet, "/api/admin/leads", "garbage")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, accounts.calls)
	})
}

func TestRequireRole(t *testing.T) {
	issuer := auth.NewJWTIssuer("test-secret", time.Hour)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := Authenticate(issuer, nil)(RequireRole(entity.RoleAdmin)(ok))

	rec := serve(h, http.MethodGet, "/api/admin/members", issue(t, issuer, entity.RoleAdmin, false))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/api/admin/members", issue(t, issuer, entity.RoleAgent, false))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	rec = serve(RequireRole(entity.RoleAdmin)(ok), http.MethodGet, "/api/admin/members", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
