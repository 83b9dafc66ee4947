package api

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t, "", "")

	_, err := ts.services.Auth.CreateUser(context.Background(), "maria@example.com", "SenhaSegura123", "operator")
	require.NoError(t, err)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "Maria@Example.com",
		"password": "SenhaSegura123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var session SessionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "maria@example.com", session.UserEmail)
	assert.Equal(t, "operator", session.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t, "", "")

	_, err := ts.services.Auth.CreateUser(context.Background(), "maria@example.com", "SenhaSegura123", "operator")
	require.NoError(t, err)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "maria@example.com",
		"password": "senha-errada",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_InvalidEmailRejected(t *testing.T) {
	ts := setupTestServer(t, "", "")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "not-an-email",
		"password": "SenhaSegura123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t, "", "")

	// The per-address bucket allows a burst of five attempts.
	last := 0
	for range 6 {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "maria@example.com",
			"password": "SenhaSegura123",
		})
		last = resp.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t, "", "")
	auth := ts.loginTestUser(t)

	resp := ts.api.Post("/api/v1/auth/logout", auth)
	assert.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	// The token no longer opens protected routes.
	resp = ts.api.Get("/api/v1/members", auth)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	ts := setupTestServer(t, "", "")

	resp := ts.api.Get("/api/v1/members")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/members", "Authorization: Token abc")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/members", "Authorization: Bearer bogus")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestErrorBody_CarriesDomainCode(t *testing.T) {
	ts := setupTestServer(t, "", "")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ghost@example.com",
		"password": "SenhaSegura123",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	var apiErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	assert.NotEmpty(t, apiErr.Message)
}
