// Package handler wires the authorization flow endpoints: GET /authorize,
// POST /token, and POST /logout.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"signet/internal/oauth/models"
	"signet/internal/oauth/policy"
	dErrors "signet/pkg/domain-errors"
	"signet/pkg/platform/httputil"
)

// Service defines the interface for authorization flow operations.
type Service interface {
	Authorize(ctx context.Context, req models.AuthorizationRequest, sessionID string) (*models.AuthorizeResult, error)
	Exchange(ctx context.Context, req models.TokenRequest) (*models.TokenResult, error)
	Logout(ctx context.Context, sessionID string) []models.SetCookie
}

// Handler wires flow endpoints to the flow service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a flow handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts flow endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/authorize", h.HandleAuthorize)
	r.Post("/token", h.HandleToken)
	r.Post("/logout", h.HandleLogout)
}

// HandleAuthorize handles GET /authorize requests. The response is always a
// temporary redirect on success: to the login page or back to the client.
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := models.ParseAuthorizationRequest(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Authorize(ctx, req, sessionCookie(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "authorize failed",
			"client_id", req.ClientID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	http.Redirect(w, r, result.RedirectURL, http.StatusTemporaryRedirect)
}

// HandleToken handles POST /token requests (form-encoded).
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidRequest, "malformed form body"))
		return
	}
	req, err := models.ParseTokenRequest(r.PostForm)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Exchange(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "token exchange failed",
			"client_id", req.ClientID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	for _, c := range result.Cookies {
		http.SetCookie(w, c.HTTPCookie())
	}
	httputil.WriteJSON(w, http.StatusOK, result.Response)
}

// HandleLogout handles POST /logout requests. Always succeeds: the session
// delete is best-effort and the cookies are cleared either way.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	cookies := h.service.Logout(r.Context(), sessionCookie(r))
	for _, c := range cookies {
		http.SetCookie(w, c.HTTPCookie())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func sessionCookie(r *http.Request) string {
	c, err := r.Cookie(policy.SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
