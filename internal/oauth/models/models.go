// Package models defines the wire and storage shapes of the authorization
// code flow. Requests are strict schemas: required fields are checked before
// any business logic runs.
package models

import (
	"net/http"
	"net/url"

	dErrors "signet/pkg/domain-errors"
)

// AuthorizationRequest is the parsed /authorize query string. Transient;
// never persisted.
type AuthorizationRequest struct {
	ResponseType string `json:"response_type"`
	ClientID     string `json:"client_id"`
	RedirectURI  string `json:"redirect_uri"`
	Scope        string `json:"scope,omitempty"`
	State        string `json:"state,omitempty"`
	Nonce        string `json:"nonce,omitempty"`
}

// ParseAuthorizationRequest builds a strict AuthorizationRequest from a query
// string, rejecting missing required fields.
func ParseAuthorizationRequest(q url.Values) (AuthorizationRequest, error) {
	req := AuthorizationRequest{
		ResponseType: q.Get("response_type"),
		ClientID:     q.Get("client_id"),
		RedirectURI:  q.Get("redirect_uri"),
		Scope:        q.Get("scope"),
		State:        q.Get("state"),
		Nonce:        q.Get("nonce"),
	}
	return req, req.Validate()
}

func (r AuthorizationRequest) Validate() error {
	if r.ResponseType == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "response_type is required")
	}
	if r.ClientID == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "client_id is required")
	}
	if r.RedirectURI == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "redirect_uri is required")
	}
	if u, err := url.Parse(r.RedirectURI); err != nil || !u.IsAbs() {
		return dErrors.New(dErrors.CodeInvalidRequest, "redirect_uri must be an absolute URL")
	}
	return nil
}

// Query re-encodes the request as /authorize query parameters so the login
// page can replay it via return_to after establishing a session.
func (r AuthorizationRequest) Query() url.Values {
	q := url.Values{}
	q.Set("response_type", r.ResponseType)
	q.Set("client_id", r.ClientID)
	q.Set("redirect_uri", r.RedirectURI)
	if r.Scope != "" {
		q.Set("scope", r.Scope)
	}
	if r.State != "" {
		q.Set("state", r.State)
	}
	if r.Nonce != "" {
		q.Set("nonce", r.Nonce)
	}
	return q
}

// TokenRequest is the parsed form body of POST /token.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ParseTokenRequest builds a strict TokenRequest from form values.
func ParseTokenRequest(form url.Values) (TokenRequest, error) {
	req := TokenRequest{
		GrantType:    form.Get("grant_type"),
		Code:         form.Get("code"),
		RedirectURI:  form.Get("redirect_uri"),
		ClientID:     form.Get("client_id"),
		ClientSecret: form.Get("client_secret"),
	}
	return req, req.Validate()
}

func (r TokenRequest) Validate() error {
	if r.GrantType == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "grant_type is required")
	}
	if r.Code == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "code is required")
	}
	if r.RedirectURI == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "redirect_uri is required")
	}
	if r.ClientID == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "client_id is required")
	}
	if r.ClientSecret == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "client_secret is required")
	}
	return nil
}

// GrantContext is the value stored in the Code Store, keyed by the
// authorization code. Retrievable at most once.
type GrantContext struct {
	UserID      string `json:"user_id"`
	ClientID    string `json:"client_id"`
	RedirectURI string `json:"redirect_uri"`
	Scope       string `json:"scope,omitempty"`
	Nonce       string `json:"nonce,omitempty"`

	// ExpiresIn is informational; the store TTL enforces actual expiry.
	ExpiresIn int64 `json:"expires_in"`
}

// SessionRecord is the value stored in the Session Store, keyed by session ID.
type SessionRecord struct {
	UserID string `json:"user_id"`
}

// TokenResponse is the JSON body of a successful exchange. The refresh token
// is deliberately absent: it travels only as an HTTP-only cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// SetCookie is an explicit cookie directive emitted by a coordinator. Keeping
// cookies out of response construction lets unit tests assert on attributes
// without a full HTTP response.
type SetCookie struct {
	Name     string
	Value    string
	Path     string
	MaxAge   int
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
}

// HTTPCookie converts the directive into a net/http cookie.
func (c SetCookie) HTTPCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		MaxAge:   c.MaxAge,
		HttpOnly: c.HTTPOnly,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

// AuthorizeResult is the outcome of the Authorization Coordinator: always a
// redirect, either to the login UI or back to the client with a fresh code.
type AuthorizeResult struct {
	RedirectURL   string
	Authenticated bool

	// Code is set only on the authenticated branch; carried for logging and
	// metrics, never rendered anywhere except the redirect URL.
	Code string
}

// TokenResult is the outcome of the Token Exchange Coordinator: a JSON body
// plus cookie directives.
type TokenResult struct {
	Response TokenResponse
	Cookies  []SetCookie
}
