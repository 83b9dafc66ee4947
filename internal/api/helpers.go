package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/labdeskapp/labdesk-server/internal/domain"
)

// authenticateRequest validates the Authorization header and returns the
// session it names.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.Session, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	session, err := s.services.Auth.VerifySession(ctx, parts[1])
	if err != nil {
		return nil, err
	}

	return session, nil
}

// clientAddress picks the client address for login rate limiting from proxy
// headers. Direct connections without proxy headers all share one bucket,
// which is fine for a server that normally sits behind the dashboard's
// reverse proxy.
func clientAddress(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		// The first entry in the chain is the originating client.
		if i := strings.IndexByte(forwardedFor, ','); i >= 0 {
			return strings.TrimSpace(forwardedFor[:i])
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP != "" {
		return realIP
	}
	return "direct"
}
