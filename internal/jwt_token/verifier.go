package jwttoken

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"

	dErrors "signet/pkg/domain-errors"
)

// Verifier validates signature, issuer, audience, and expiry of tokens
// produced by Issuer. Audience checking is per token type: refresh tokens
// carry no audience and are checked for signature and expiry only.
type Verifier struct {
	key      *rsa.PublicKey
	issuer   string
	audience string
}

func NewVerifier(key *rsa.PublicKey, issuer, audience string) *Verifier {
	return &Verifier{key: key, issuer: issuer, audience: audience}
}

// VerifierFromPEM parses a PEM-encoded RSA public key.
func VerifierFromPEM(pemBytes []byte, issuer, audience string) (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse RSA public key: %w", err)
	}
	return NewVerifier(key, issuer, audience), nil
}

// VerifierFromPEMFile reads and parses the verification key at path.
func VerifierFromPEMFile(path, issuer, audience string) (*Verifier, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read verification key: %w", err)
	}
	return VerifierFromPEM(pemBytes, issuer, audience)
}

// PublicKeyFromPEMFile reads the raw verification key, for callers that need
// the key itself rather than a Verifier (e.g. JWKS rendering).
func PublicKeyFromPEMFile(path string) (*rsa.PublicKey, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read verification key: %w", err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse RSA public key: %w", err)
	}
	return key, nil
}

func (v *Verifier) VerifyIDToken(token string) (*IDTokenClaims, error) {
	claims := &IDTokenClaims{}
	if err := v.parse(token, claims,
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	); err != nil {
		return nil, err
	}
	return claims, nil
}

func (v *Verifier) VerifyAccessToken(token string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	if err := v.parse(token, claims,
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	); err != nil {
		return nil, err
	}
	return claims, nil
}

func (v *Verifier) VerifyRefreshToken(token string) (*RefreshTokenClaims, error) {
	claims := &RefreshTokenClaims{}
	if err := v.parse(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (v *Verifier) parse(token string, claims jwt.Claims, opts ...jwt.ParserOption) error {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return translateJWTError(err)
	}
	if !parsed.Valid {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return nil
}

// translateJWTError converts library failures into the closed domain error
// set, keeping distinct messages for the failure classes callers care about.
func translateJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "token has expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token signature")
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token issuer")
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token audience")
	default:
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
}
