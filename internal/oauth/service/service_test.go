package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"signet/internal/audit"
	"signet/internal/jwt_token"
	"signet/internal/oauth/models"
	"signet/internal/oauth/policy"
	"signet/internal/oauth/store/code"
	"signet/internal/oauth/store/session"
	"signet/internal/registry"
)

const (
	testIssuerURL = "https://idp.example"
	testLoginURL  = "https://idp.example/login"
)

type recorderStub struct {
	events []audit.Event
}

func (r *recorderStub) Record(event audit.Event) {
	r.events = append(r.events, event)
}

type fixture struct {
	service  *Service
	codes    *code.MemoryStore
	sessions *session.MemoryStore
	clients  *registry.MemoryClientStore
	users    *registry.MemoryUserStore
	recorder *recorderStub
	key      *rsa.PrivateKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &fixture{
		codes:    code.NewMemory(),
		sessions: session.NewMemory(),
		clients:  registry.NewMemoryClientStore(),
		users:    registry.NewMemoryUserStore(),
		recorder: &recorderStub{},
		key:      key,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = New(
		f.codes,
		f.sessions,
		f.clients,
		f.users,
		jwttoken.NewIssuer(testIssuerURL, key),
		testLoginURL,
		f.recorder,
		nil,
		logger,
	)
	return f
}

func (f *fixture) verifier(audience string) *jwttoken.Verifier {
	return jwttoken.NewVerifier(&f.key.PublicKey, testIssuerURL, audience)
}

func (f *fixture) seedClient(t *testing.T) *registry.Client {
	t.Helper()
	client := &registry.Client{
		ID:           "client-row-1",
		Name:         "Example App",
		ClientID:     "abc",
		ClientSecret: "s3cret",
		RedirectURIs: []string{"https://app.example/cb", "https://app.example/alt"},
	}
	require.NoError(t, f.clients.Create(context.Background(), client))
	return client
}

func (f *fixture) seedUser(t *testing.T) *registry.User {
	t.Helper()
	user := &registry.User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Name:     "Alice Example",
		IsActive: true,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) seedSession(t *testing.T, sessionID, userID string) {
	t.Helper()
	err := f.sessions.Set(context.Background(), sessionID, &models.SessionRecord{UserID: userID}, policy.SessionTTL)
	require.NoError(t, err)
}

func (f *fixture) storeGrant(t *testing.T, codeValue string, grant *models.GrantContext) {
	t.Helper()
	require.NoError(t, f.codes.Store(context.Background(), codeValue, grant, policy.CodeTTL))
}

func authRequest() models.AuthorizationRequest {
	return models.AuthorizationRequest{
		ResponseType: "code",
		ClientID:     "abc",
		RedirectURI:  "https://app.example/cb",
		Scope:        "openid profile",
		State:        "xyz",
		Nonce:        "n-123",
	}
}

func tokenRequest(codeValue string) models.TokenRequest {
	return models.TokenRequest{
		GrantType:    "authorization_code",
		Code:         codeValue,
		RedirectURI:  "https://app.example/cb",
		ClientID:     "abc",
		ClientSecret: "s3cret",
	}
}

func testGrant() *models.GrantContext {
	return &models.GrantContext{
		UserID:      "u1",
		ClientID:    "abc",
		RedirectURI: "https://app.example/cb",
		Scope:       "openid profile",
		Nonce:       "n-123",
		ExpiresIn:   int64(policy.CodeTTL / time.Second),
	}
}
