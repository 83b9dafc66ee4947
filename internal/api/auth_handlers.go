package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Operator login",
		Description: "Authenticates a dashboard operator and returns a session token",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the presented session token",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogout)
}

// === DTOs ===

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"Operator email"`
	Password string `json:"password" validate:"required,max=1024" doc:"Operator password"`
}

// LoginInput wraps the login request with proxy headers for Huma.
type LoginInput struct {
	Body          LoginRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// SessionResponse carries the session handed out on login.
type SessionResponse struct {
	Token     string    `json:"token" doc:"Opaque bearer token"`
	UserEmail string    `json:"user_email" doc:"Authenticated operator email"`
	Role      string    `json:"role" doc:"Operator role"`
	ExpiresAt time.Time `json:"expires_at" doc:"Session expiration time"`
}

// LoginOutput wraps the session response for Huma.
type LoginOutput struct {
	Body SessionResponse
}

// LogoutInput carries the token to revoke.
type LogoutInput struct {
	Authorization string `header:"Authorization"`
}

// === Handlers ===

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	addr := clientAddress(input.XForwardedFor, input.XRealIP)
	if !s.loginLimiter.Allow(addr) {
		s.logger.Warn("login rate limit exceeded", "address", addr)
		return nil, huma.Error429TooManyRequests("Too many login attempts. Please try again later.")
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	session, err := s.services.Auth.Authenticate(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{Body: SessionResponse{
		Token:     session.Token,
		UserEmail: session.UserEmail,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt,
	}}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*struct{}, error) {
	session, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.Logout(ctx, session.Token); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}
