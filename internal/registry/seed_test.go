package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const clientSeedYAML = `
clients:
  - name: Example App
    client_id: example-app
    client_secret: hunter2
    uri: https://app.example
    redirect_uris:
      - https://app.example/cb
    post_logout_redirect_uris:
      - https://app.example/goodbye
  - name: Second App
    client_id: second-app
    client_secret: swordfish
    redirect_uris:
      - https://second.example/cb
`

const userSeedYAML = `
users:
  - username: alice
    email: alice@example.com
    name: Alice Example
    password: correct-horse
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeedClients(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryClientStore()

	seeded, err := SeedClients(ctx, writeSeedFile(t, clientSeedYAML), store)
	require.NoError(t, err)
	assert.Equal(t, 2, seeded)

	client, err := store.GetByClientID(ctx, "example-app")
	require.NoError(t, err)
	assert.Equal(t, "Example App", client.Name)
	assert.Equal(t, "hunter2", client.ClientSecret)
	assert.Equal(t, []string{"https://app.example/cb"}, client.RedirectURIs)
	assert.Equal(t, []string{"https://app.example/goodbye"}, client.PostLogoutRedirectURIs)
	assert.NotEmpty(t, client.ID)
}

func TestSeedClients_ReseedSkipsExisting(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryClientStore()
	path := writeSeedFile(t, clientSeedYAML)

	_, err := SeedClients(ctx, path, store)
	require.NoError(t, err)

	seeded, err := SeedClients(ctx, path, store)
	require.NoError(t, err)
	assert.Zero(t, seeded, "reseeding must not duplicate clients")
}

func TestSeedUsers_HashesPasswords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	seeded, err := SeedUsers(ctx, writeSeedFile(t, userSeedYAML), store)
	require.NoError(t, err)
	assert.Equal(t, 1, seeded)

	user, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct-horse", user.PasswordHash, "password must not be stored in plaintext")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
}

func TestSeedClients_MissingFile(t *testing.T) {
	_, err := SeedClients(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), NewMemoryClientStore())
	assert.Error(t, err)
}
