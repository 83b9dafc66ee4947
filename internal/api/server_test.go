package api

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/labdeskapp/labdesk-server/internal/config"
	"github.com/labdeskapp/labdesk-server/internal/service"
	"github.com/labdeskapp/labdesk-server/internal/store"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *store.Store
}

// setupTestServer creates a fully wired server over a temporary store.
// rosterCSV and inventoryCSV, when non-empty, are written to disk and wired
// in as the CSV exports.
func setupTestServer(t *testing.T, rosterCSV, inventoryCSV string) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	st, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	rosterPath := ""
	if rosterCSV != "" {
		rosterPath = filepath.Join(tmpDir, "roster.csv")
		require.NoError(t, os.WriteFile(rosterPath, []byte(rosterCSV), 0o644))
	}
	inventoryPath := ""
	if inventoryCSV != "" {
		inventoryPath = filepath.Join(tmpDir, "inventory.csv")
		require.NoError(t, os.WriteFile(inventoryPath, []byte(inventoryCSV), 0o644))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	memberSvc := service.NewMemberService(st, logger, rosterPath)
	services := &Services{
		Auth:   service.NewAuthService(st, logger, time.Hour, 10*time.Second),
		Member: memberSvc,
		Team:   service.NewTeamService(st, logger, memberSvc),
		Asset:  service.NewAssetService(st, logger, inventoryPath),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			Name:         "LabDesk Test",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	s := NewServer(st, services, cfg, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		store:  st,
	}
}

// loginTestUser creates an operator account and logs it in, returning the
// Authorization header value.
func (ts *testServer) loginTestUser(t *testing.T) string {
	t.Helper()

	_, err := ts.services.Auth.CreateUser(context.Background(), "admin@example.com", "SenhaSegura123", "admin")
	require.NoError(t, err)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "SenhaSegura123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "login failed: %s", resp.Body.String())

	var session SessionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)

	return "Authorization: Bearer " + session.Token
}
