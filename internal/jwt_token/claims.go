// Package jwttoken issues and verifies the three signed claim sets of the
// provider: ID tokens, access tokens, and refresh tokens. All tokens are
// RS256; issuance and verification share the claim types below.
package jwttoken

import "github.com/golang-jwt/jwt/v5"

// IDTokenClaims asserts an authenticated identity to a specific client.
type IDTokenClaims struct {
	Nonce string `json:"nonce,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// AccessTokenClaims authorizes API access. Scope is carried opaquely; this
// provider does not interpret it.
type AccessTokenClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// RefreshTokenClaims carries only subject and lifetime. Refresh tokens are
// not audience-scoped to a client, so iss/aud stay unset.
type RefreshTokenClaims struct {
	jwt.RegisteredClaims
}
