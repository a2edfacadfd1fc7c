package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"signet/internal/audit"
	"signet/internal/oauth/models"
	"signet/internal/oauth/policy"
	dErrors "signet/pkg/domain-errors"
	"signet/pkg/platform/sentinel"
)

// Authorize runs the authorization coordinator. The result is always a
// redirect: to the login page when no valid session exists, or back to the
// client's redirect_uri with a fresh single-use code.
//
// sessionID is the raw session cookie value, empty when the cookie is absent.
func (s *Service) Authorize(ctx context.Context, req models.AuthorizationRequest, sessionID string) (*models.AuthorizeResult, error) {
	ctx, span := s.tracer.Start(ctx, "oauth.authorize")
	defer span.End()
	span.SetAttributes(attribute.String("client_id", req.ClientID))
	start := time.Now()
	defer func() { s.metrics.ObserveFlowLatency("authorize", time.Since(start)) }()

	if req.ResponseType != "code" {
		s.metrics.IncrementAuthorize("invalid_request")
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "unsupported response_type")
	}

	// Registry failures, including an unknown client_id, are server errors:
	// the registry is an external dependency the flow cannot distinguish
	// outages from misses on.
	client, err := s.clients.GetByClientID(ctx, req.ClientID)
	if err != nil {
		s.metrics.IncrementAuthorize("server_error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "client registry lookup failed")
	}
	if !client.AllowsRedirect(req.RedirectURI) {
		s.metrics.IncrementAuthorize("invalid_request")
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "redirect_uri is not registered for this client")
	}

	userID, err := s.resolveSession(ctx, sessionID)
	if err != nil {
		s.metrics.IncrementAuthorize("server_error")
		return nil, err
	}
	if userID == "" {
		s.metrics.IncrementAuthorize("login_redirect")
		return &models.AuthorizeResult{RedirectURL: s.loginRedirect(req)}, nil
	}

	code := uuid.NewString()
	grant := &models.GrantContext{
		UserID:      userID,
		ClientID:    req.ClientID,
		RedirectURI: req.RedirectURI,
		Scope:       req.Scope,
		Nonce:       req.Nonce,
		ExpiresIn:   int64(policy.CodeTTL.Seconds()),
	}
	if err := s.codes.Store(ctx, code, grant, policy.CodeTTL); err != nil {
		s.metrics.IncrementAuthorize("server_error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "code store write failed")
	}

	s.recorder.Record(audit.Event{
		Action:   audit.ActionCodeIssued,
		UserID:   userID,
		ClientID: req.ClientID,
	})
	s.metrics.IncrementAuthorize("authenticated")
	s.logger.InfoContext(ctx, "authorization code issued",
		"user_id", userID,
		"client_id", req.ClientID,
	)

	return &models.AuthorizeResult{
		RedirectURL:   clientRedirect(req, code),
		Authenticated: true,
		Code:          code,
	}, nil
}

// resolveSession maps the session cookie to a user ID. An absent, unknown, or
// expired session is not an error; it selects the unauthenticated branch.
func (s *Service) resolveSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", nil
	}
	userID, err := s.sessions.Validate(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "session store lookup failed")
	}
	return userID, nil
}

// loginRedirect builds the login URL with a return_to parameter replaying the
// original authorization request after login establishes a session.
func (s *Service) loginRedirect(req models.AuthorizationRequest) string {
	returnTo := "/authorize?" + req.Query().Encode()
	u, err := url.Parse(s.loginURL)
	if err != nil {
		// Config validated at startup; fall back to naive concatenation.
		return s.loginURL + "?return_to=" + url.QueryEscape(returnTo)
	}
	q := u.Query()
	q.Set("return_to", returnTo)
	u.RawQuery = q.Encode()
	return u.String()
}

// clientRedirect appends code and optional state to the registered
// redirect_uri, preserving any query parameters it already carries.
func clientRedirect(req models.AuthorizationRequest, code string) string {
	u, err := url.Parse(req.RedirectURI)
	if err != nil {
		// Unreachable: Validate already parsed it.
		return req.RedirectURI
	}
	q := u.Query()
	q.Set("code", code)
	if req.State != "" {
		q.Set("state", req.State)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
