package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/labdeskapp/labdesk-server/internal/domain"
	"github.com/labdeskapp/labdesk-server/internal/errors"
	"github.com/labdeskapp/labdesk-server/internal/id"
	"github.com/labdeskapp/labdesk-server/internal/normalize"
	"github.com/labdeskapp/labdesk-server/internal/store"
)

// AuthService authenticates dashboard operators and manages their sessions.
type AuthService struct {
	store           *store.Store
	logger          *slog.Logger
	sessionDuration time.Duration
	loginTimeout    time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(store *store.Store, logger *slog.Logger, sessionDuration, loginTimeout time.Duration) *AuthService {
	return &AuthService{
		store:           store,
		logger:          logger,
		sessionDuration: sessionDuration,
		loginTimeout:    loginTimeout,
	}
}

// Authenticate checks credentials and returns a fresh session. The store
// lookup and bcrypt compare run under a deadline so a stalled store cannot
// hang the login handler.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loginTimeout)
	defer cancel()

	type outcome struct {
		user *domain.User
		err  error
	}
	ch := make(chan outcome, 1)

	go func() {
		user, err := s.store.Users.GetByIndex(ctx, "email", email)
		if err != nil {
			ch <- outcome{err: err}
			return
		}
		err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
		ch <- outcome{user: user, err: err}
	}()

	var user *domain.User
	select {
	case <-ctx.Done():
		return nil, errors.Unauthorized("login timed out").WithCause(ctx.Err())
	case out := <-ch:
		if out.err != nil {
			// Same answer for unknown user and wrong password.
			return nil, errors.InvalidCredentials("invalid email or password")
		}
		user = out.user
	}

	if !user.IsActive() {
		return nil, errors.Unauthorized("account is disabled")
	}

	token, err := id.SessionToken()
	if err != nil {
		return nil, errors.Internal("could not create session").WithCause(err)
	}

	now := time.Now()
	session := &domain.Session{
		Token:     token,
		UserEmail: user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}
	if err := s.store.Sessions.Put(ctx, token, session); err != nil {
		return nil, err
	}

	s.logger.Info("operator logged in", "email", user.Email, "role", user.Role)
	return session, nil
}

// VerifySession resolves a bearer token to its session. Expired sessions are
// deleted on sight.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.Unauthorized("missing session token")
	}

	session, err := s.store.Sessions.Get(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("invalid session token")
	}

	if session.IsExpired() {
		if err := s.store.Sessions.Delete(ctx, token); err != nil {
			s.logger.Warn("expired session cleanup failed", "error", err)
		}
		return nil, errors.SessionExpired("session expired, log in again")
	}

	return session, nil
}

// Logout discards a session. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.store.Sessions.Delete(ctx, token)
}

// CreateUser registers a dashboard operator with a bcrypt-hashed password.
// The account is keyed by normalized email.
func (s *AuthService) CreateUser(ctx context.Context, email, password, role string) (*domain.User, error) {
	email = strings.ToLower(normalize.Basic(email))
	if email == "" {
		return nil, errors.Validation("email must not be empty")
	}
	if len(password) < 8 {
		return nil, errors.Validation("password must be at least 8 characters")
	}
	if role == "" {
		role = "operator"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("could not hash password").WithCause(err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.Users.Put(ctx, normalize.ASCIILower(email), user); err != nil {
		return nil, err
	}
	return user, nil
}
