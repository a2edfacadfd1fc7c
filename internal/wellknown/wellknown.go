// Package wellknown serves the OIDC discovery document and the JWK set used
// by relying parties to validate token signatures.
package wellknown

import (
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"

	"signet/pkg/platform/httputil"
)

// DiscoveryDocument is the OIDC provider metadata served at
// /.well-known/openid-configuration.
type DiscoveryDocument struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	UserinfoEndpoint                  string   `json:"userinfo_endpoint,omitempty"`
	JWKSURI                           string   `json:"jwks_uri"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	SubjectTypesSupported             []string `json:"subject_types_supported"`
	IDTokenSigningAlgValuesSupported  []string `json:"id_token_signing_alg_values_supported"`
	ScopesSupported                   []string `json:"scopes_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	ClaimsSupported                   []string `json:"claims_supported"`
}

// NewDiscoveryDocument builds the provider metadata for the given issuer.
func NewDiscoveryDocument(issuer string) DiscoveryDocument {
	return DiscoveryDocument{
		Issuer:                            issuer,
		AuthorizationEndpoint:             issuer + "/authorize",
		TokenEndpoint:                     issuer + "/token",
		JWKSURI:                           issuer + "/.well-known/jwks.json",
		ResponseTypesSupported:            []string{"code"},
		SubjectTypesSupported:             []string{"public"},
		IDTokenSigningAlgValuesSupported:  []string{"RS256"},
		ScopesSupported:                   []string{"openid", "profile", "email"},
		TokenEndpointAuthMethodsSupported: []string{"client_secret_post"},
		ClaimsSupported:                   []string{"sub", "iss", "aud", "exp", "iat", "email", "name"},
	}
}

// JWK is a single RSA signing key in JWK form.
type JWK struct {
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSet is the document served at /.well-known/jwks.json.
type JWKSet struct {
	Keys []JWK `json:"keys"`
}

// NewJWKSet renders the verification key as a JWK set. Modulus and exponent
// are big-endian base64url without padding.
func NewJWKSet(key *rsa.PublicKey) JWKSet {
	return JWKSet{Keys: []JWK{{
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}}}
}

// Handler serves the two well-known documents. Both are computed once at
// construction; they never change at runtime.
type Handler struct {
	discovery DiscoveryDocument
	jwks      JWKSet
}

func New(issuer string, key *rsa.PublicKey) *Handler {
	return &Handler{
		discovery: NewDiscoveryDocument(issuer),
		jwks:      NewJWKSet(key),
	}
}

// Register mounts the well-known endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/.well-known/openid-configuration", h.HandleDiscovery)
	r.Get("/.well-known/jwks.json", h.HandleJWKS)
}

func (h *Handler) HandleDiscovery(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.discovery)
}

func (h *Handler) HandleJWKS(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.jwks)
}
