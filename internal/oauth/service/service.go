// Package service implements the authorization flow coordinators: authorize,
// token exchange, and logout. Each coordinator validates sequentially and
// short-circuits on the first failure; all failures are terminal.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"signet/internal/audit"
	"signet/internal/oauth/metrics"
	"signet/internal/oauth/models"
	"signet/internal/registry"
)

// CodeStore is the single-use authorization code space.
type CodeStore interface {
	Store(ctx context.Context, code string, grant *models.GrantContext, ttl time.Duration) error
	Consume(ctx context.Context, code string) (*models.GrantContext, error)
}

// SessionStore resolves and removes browser sessions.
type SessionStore interface {
	Validate(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// ClientRegistry is the read-only slice of the client registry the flow
// needs. The coordinators never mutate client records.
type ClientRegistry interface {
	GetByClientID(ctx context.Context, clientID string) (*registry.Client, error)
}

// UserRegistry resolves the grant's user for ID token claims.
type UserRegistry interface {
	GetByID(ctx context.Context, id string) (*registry.User, error)
}

// TokenIssuer signs the three token kinds. Satisfied by jwttoken.Issuer.
type TokenIssuer interface {
	IDToken(subject, audience, nonce, email, name string, ttl time.Duration) (string, error)
	AccessToken(subject, audience, scope string, ttl time.Duration) (string, error)
	RefreshToken(subject string, ttl time.Duration) (string, error)
}

// Recorder receives audit events. Satisfied by audit.Recorder.
type Recorder interface {
	Record(event audit.Event)
}

// Service coordinates the authorization code flow.
type Service struct {
	codes    CodeStore
	sessions SessionStore
	clients  ClientRegistry
	users    UserRegistry
	issuer   TokenIssuer
	loginURL string
	recorder Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New constructs the flow service. loginURL is where unauthenticated
// authorization requests are redirected.
func New(
	codes CodeStore,
	sessions SessionStore,
	clients ClientRegistry,
	users UserRegistry,
	issuer TokenIssuer,
	loginURL string,
	recorder Recorder,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		codes:    codes,
		sessions: sessions,
		clients:  clients,
		users:    users,
		issuer:   issuer,
		loginURL: loginURL,
		recorder: recorder,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer("signet/oauth"),
	}
}
