// Package handler wires the identity endpoints: POST /login and
// POST /register.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"signet/internal/identity/service"
	"signet/internal/registry"
	dErrors "signet/pkg/domain-errors"
	"signet/pkg/platform/httputil"
)

// Service defines the interface for identity operations.
type Service interface {
	Login(ctx context.Context, req service.LoginRequest) (*service.LoginResult, error)
	Register(ctx context.Context, req service.RegisterRequest) (*registry.User, error)
}

// Handler wires identity endpoints to the identity service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an identity handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts identity endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.HandleLogin)
	r.Post("/register", h.HandleRegister)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
}

// HandleLogin handles POST /login requests. On success the session cookie is
// set and the authenticated user is returned.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeStrict(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Login(ctx, service.LoginRequest{
		Username:  req.Username,
		Password:  req.Password,
		UserAgent: r.UserAgent(),
		RemoteIP:  r.RemoteAddr,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "login failed", "username", req.Username, "error", err)
		httputil.WriteError(w, err)
		return
	}

	http.SetCookie(w, result.Cookie.HTTPCookie())
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(result.User))
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// HandleRegister handles POST /register requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeStrict(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	user, err := h.service.Register(ctx, service.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed", "username", req.Username, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func toUserResponse(u *registry.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, Name: u.Name}
}

func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidRequest, "malformed request body")
	}
	return nil
}
