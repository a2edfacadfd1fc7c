package jwttoken

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs claim sets with an RSA private key. Signing is pure CPU work
// and safe for concurrent use.
type Issuer struct {
	issuer string
	key    *rsa.PrivateKey
}

func NewIssuer(issuer string, key *rsa.PrivateKey) *Issuer {
	return &Issuer{issuer: issuer, key: key}
}

// IssuerFromPEM parses a PEM-encoded RSA private key.
func IssuerFromPEM(pemBytes []byte, issuer string) (*Issuer, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse RSA private key: %w", err)
	}
	return NewIssuer(issuer, key), nil
}

// IssuerFromPEMFile reads and parses the signing key at path.
func IssuerFromPEMFile(path, issuer string) (*Issuer, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}
	return IssuerFromPEM(pemBytes, issuer)
}

// IDToken signs an identity assertion for the given client. nonce, email,
// and name are optional and omitted from the payload when empty.
func (i *Issuer) IDToken(subject, audience, nonce, email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := IDTokenClaims{
		Nonce: nonce,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return i.sign(claims)
}

// AccessToken signs an API authorization for the given client. Scope is an
// opaque passthrough.
func (i *Issuer) AccessToken(subject, audience, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessTokenClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return i.sign(claims)
}

// RefreshToken signs a renewal capability bound only to the subject.
func (i *Issuer) RefreshToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := RefreshTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return i.sign(claims)
}

func (i *Issuer) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.key)
}
