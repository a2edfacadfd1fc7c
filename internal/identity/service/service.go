// Package service implements resource-owner authentication: login issues
// browser sessions, register creates accounts.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"signet/internal/audit"
	"signet/internal/oauth/models"
	"signet/internal/oauth/policy"
	"signet/internal/registry"
	dErrors "signet/pkg/domain-errors"
	"signet/pkg/platform/sentinel"
)

// UserStore is the slice of the user registry the identity service needs.
type UserStore interface {
	Create(ctx context.Context, user *registry.User) error
	GetByUsername(ctx context.Context, username string) (*registry.User, error)
}

// SessionStore writes browser sessions at login.
type SessionStore interface {
	Set(ctx context.Context, sessionID string, record *models.SessionRecord, ttl time.Duration) error
}

// Recorder receives audit events. Satisfied by audit.Recorder.
type Recorder interface {
	Record(event audit.Event)
}

// Service authenticates resource owners against the user registry.
type Service struct {
	users    UserStore
	sessions SessionStore
	recorder Recorder
	logger   *slog.Logger
}

func New(users UserStore, sessions SessionStore, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{users: users, sessions: sessions, recorder: recorder, logger: logger}
}

// LoginRequest carries the credentials plus request metadata for the audit
// trail.
type LoginRequest struct {
	Username  string
	Password  string
	UserAgent string
	RemoteIP  string
}

// LoginResult is the authenticated user plus the session cookie directive the
// transport layer must apply.
type LoginResult struct {
	User      *registry.User
	SessionID string
	Cookie    models.SetCookie
}

// Login verifies the credentials and mints a session. Unknown usernames, bad
// passwords, and disabled accounts all return the same unauthorized error so
// responses do not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if req.Username == "" || req.Password == "" {
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "user lookup failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Set(ctx, sessionID, &models.SessionRecord{UserID: user.ID}, policy.SessionTTL); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "session creation failed")
	}

	s.recorder.Record(audit.Event{
		Action:    audit.ActionUserLogin,
		UserID:    user.ID,
		SessionID: sessionID,
		Device:    audit.DeviceName(req.UserAgent),
		RemoteIP:  req.RemoteIP,
	})
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)

	return &LoginResult{
		User:      user,
		SessionID: sessionID,
		Cookie: models.SetCookie{
			Name:     policy.SessionCookie,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   int(policy.SessionTTL.Seconds()),
			HTTPOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		},
	}, nil
}

// RegisterRequest carries a new account's fields. The password arrives in
// plaintext and is hashed before it touches any store.
type RegisterRequest struct {
	Username string
	Email    string
	Name     string
	Password string
}

// Register creates an account. Usernames are unique; a taken name returns a
// conflict error.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*registry.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "username, email, and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "password hashing failed")
	}

	user := &registry.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	err = s.users.Create(ctx, user)
	if errors.Is(err, sentinel.ErrAlreadyUsed) {
		return nil, dErrors.New(dErrors.CodeConflict, "username already taken")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "user creation failed")
	}

	s.recorder.Record(audit.Event{Action: audit.ActionUserRegistered, UserID: user.ID})
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)

	return user, nil
}
