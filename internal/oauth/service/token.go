package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"signet/internal/audit"
	"signet/internal/oauth/models"
	"signet/internal/oauth/policy"
	dErrors "signet/pkg/domain-errors"
	"signet/pkg/platform/sentinel"
)

// Exchange runs the token exchange coordinator: consume the code, check its
// bindings, authenticate the client, and mint the token bundle. Validation is
// sequential and short-circuits on the first failure.
//
// The code is consumed before client authentication, so a failed exchange
// burns the code. That is deliberate: a code that reached a hostile party is
// dead after one attempt, right or wrong.
func (s *Service) Exchange(ctx context.Context, req models.TokenRequest) (*models.TokenResult, error) {
	ctx, span := s.tracer.Start(ctx, "oauth.token")
	defer span.End()
	span.SetAttributes(attribute.String("client_id", req.ClientID))
	start := time.Now()
	defer func() { s.metrics.ObserveFlowLatency("token", time.Since(start)) }()

	if req.GrantType != "authorization_code" {
		s.metrics.IncrementToken("unsupported_grant_type")
		return nil, dErrors.New(dErrors.CodeUnsupportedGrant, "only authorization_code is supported")
	}

	grant, err := s.codes.Consume(ctx, req.Code)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.IncrementToken("invalid_grant")
		return nil, dErrors.New(dErrors.CodeInvalidGrant, "code invalid or expired")
	}
	if err != nil {
		s.metrics.IncrementToken("server_error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "code store consume failed")
	}

	if grant.RedirectURI != req.RedirectURI {
		s.metrics.IncrementToken("invalid_grant")
		return nil, dErrors.New(dErrors.CodeInvalidGrant, "redirect_uri does not match authorization request")
	}
	if grant.ClientID != req.ClientID {
		s.metrics.IncrementToken("invalid_grant")
		return nil, dErrors.New(dErrors.CodeInvalidGrant, "code was not issued to this client")
	}

	client, err := s.clients.GetByClientID(ctx, req.ClientID)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.IncrementToken("invalid_client")
		return nil, dErrors.New(dErrors.CodeInvalidClient, "unknown client")
	}
	if err != nil {
		s.metrics.IncrementToken("server_error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "client registry lookup failed")
	}
	if subtle.ConstantTimeCompare([]byte(client.ClientSecret), []byte(req.ClientSecret)) != 1 {
		s.metrics.IncrementToken("unauthorized")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "client authentication failed")
	}

	user, err := s.users.GetByID(ctx, grant.UserID)
	if err != nil {
		s.metrics.IncrementToken("server_error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "user registry lookup failed")
	}

	idToken, err := s.issuer.IDToken(user.ID, req.ClientID, grant.Nonce, user.Email, user.Name, policy.IDTokenTTL)
	if err != nil {
		s.metrics.IncrementToken("server_error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "id token signing failed")
	}
	accessToken, err := s.issuer.AccessToken(user.ID, req.ClientID, grant.Scope, policy.AccessTokenTTL)
	if err != nil {
		s.metrics.IncrementToken("server_error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "access token signing failed")
	}
	refreshToken, err := s.issuer.RefreshToken(user.ID, policy.RefreshTokenTTL)
	if err != nil {
		s.metrics.IncrementToken("server_error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "refresh token signing failed")
	}

	s.recorder.Record(audit.Event{
		Action:   audit.ActionTokenExchanged,
		UserID:   user.ID,
		ClientID: req.ClientID,
	})
	s.metrics.IncrementToken("issued")
	s.logger.InfoContext(ctx, "tokens issued",
		"user_id", user.ID,
		"client_id", req.ClientID,
	)

	return &models.TokenResult{
		Response: models.TokenResponse{
			AccessToken: accessToken,
			IDToken:     idToken,
			TokenType:   "Bearer",
			ExpiresIn:   int64(policy.AccessTokenTTL.Seconds()),
		},
		Cookies: []models.SetCookie{{
			Name:     policy.RefreshCookie,
			Value:    refreshToken,
			Path:     policy.RefreshCookiePath,
			MaxAge:   int(policy.RefreshTokenTTL.Seconds()),
			HTTPOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		}},
	}, nil
}
