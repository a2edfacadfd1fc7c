package service

import (
	"context"
	"net/http"
	"time"

	"signet/internal/audit"
	"signet/internal/oauth/models"
	"signet/internal/oauth/policy"
)

// Logout tears down the browser session. Deletion is best-effort: an absent
// or already-deleted session still clears the cookies, and a store failure is
// logged rather than surfaced since there is nothing the client can do.
func (s *Service) Logout(ctx context.Context, sessionID string) []models.SetCookie {
	ctx, span := s.tracer.Start(ctx, "oauth.logout")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveFlowLatency("logout", time.Since(start)) }()

	if sessionID != "" {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.WarnContext(ctx, "session delete failed", "error", err)
		} else {
			s.recorder.Record(audit.Event{Action: audit.ActionUserLogout, SessionID: sessionID})
		}
	}
	s.metrics.IncrementLogout()

	// Expire both cookies regardless of store state.
	return []models.SetCookie{
		{
			Name:     policy.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		},
		{
			Name:     policy.RefreshCookie,
			Value:    "",
			Path:     policy.RefreshCookiePath,
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}
