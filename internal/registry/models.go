// Package registry holds the client and user registries: the durable records
// the authorization flow resolves clients and resource owners against.
package registry

import (
	"time"

	dErrors "signet/pkg/domain-errors"
)

// Client is a registered OAuth 2.0 relying party.
//
// Invariants:
//   - ClientID is non-empty and unique across the registry
//   - RedirectURIs is non-empty; authorization requests must match one exactly
type Client struct {
	ID                     string    `json:"id"`
	TenantID               string    `json:"tenant_id"`
	Name                   string    `json:"name"`
	ClientID               string    `json:"client_id"`
	ClientSecret           string    `json:"-"`
	URI                    string    `json:"uri,omitempty"`
	RedirectURIs           []string  `json:"redirect_uris"`
	PostLogoutRedirectURIs []string  `json:"post_logout_redirect_uris,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Validate checks the construction invariants.
func (c *Client) Validate() error {
	if c.ClientID == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "client_id cannot be empty")
	}
	if len(c.RedirectURIs) == 0 {
		return dErrors.New(dErrors.CodeInvalidRequest, "redirect_uris cannot be empty")
	}
	return nil
}

// AllowsRedirect reports whether uri exactly matches a registered redirect
// URI. No prefix or wildcard matching.
func (c *Client) AllowsRedirect(uri string) bool {
	for _, registered := range c.RedirectURIs {
		if registered == uri {
			return true
		}
	}
	return false
}

// User is a resource owner able to authenticate against the provider.
type User struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the construction invariants.
func (u *User) Validate() error {
	if u.Username == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "username cannot be empty")
	}
	if u.Email == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "email cannot be empty")
	}
	return nil
}
