package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"signet/pkg/platform/sentinel"
)

type clientSeedFile struct {
	Clients []clientSeed `yaml:"clients"`
}

type clientSeed struct {
	Name                   string   `yaml:"name"`
	ClientID               string   `yaml:"client_id"`
	ClientSecret           string   `yaml:"client_secret"`
	URI                    string   `yaml:"uri"`
	RedirectURIs           []string `yaml:"redirect_uris"`
	PostLogoutRedirectURIs []string `yaml:"post_logout_redirect_uris"`
}

type userSeedFile struct {
	Users []userSeed `yaml:"users"`
}

type userSeed struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

// SeedClients loads client registrations from a YAML file into the store.
// Entries whose client_id is already registered are skipped, so reseeding on
// restart is safe.
func SeedClients(ctx context.Context, path string, store ClientStore) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read client seed file: %w", err)
	}
	var file clientSeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("parse client seed file: %w", err)
	}

	now := time.Now()
	seeded := 0
	for _, seed := range file.Clients {
		client := &Client{
			ID:                     uuid.NewString(),
			Name:                   seed.Name,
			ClientID:               seed.ClientID,
			ClientSecret:           seed.ClientSecret,
			URI:                    seed.URI,
			RedirectURIs:           seed.RedirectURIs,
			PostLogoutRedirectURIs: seed.PostLogoutRedirectURIs,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		err := store.Create(ctx, client)
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			continue
		}
		if err != nil {
			return seeded, fmt.Errorf("seed client %q: %w", seed.ClientID, err)
		}
		seeded++
	}
	return seeded, nil
}

// SeedUsers loads users from a YAML file into the store. Seed passwords are
// plaintext in the file and hashed with bcrypt on the way in; existing
// usernames are skipped.
func SeedUsers(ctx context.Context, path string, store UserStore) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read user seed file: %w", err)
	}
	var file userSeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("parse user seed file: %w", err)
	}

	now := time.Now()
	seeded := 0
	for _, seed := range file.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return seeded, fmt.Errorf("hash seed password for %q: %w", seed.Username, err)
		}
		user := &User{
			ID:           uuid.NewString(),
			Username:     seed.Username,
			Email:        seed.Email,
			Name:         seed.Name,
			PasswordHash: string(hash),
			IsActive:     true,
			CreatedAt:    now,
		}
		err = store.Create(ctx, user)
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			continue
		}
		if err != nil {
			return seeded, fmt.Errorf("seed user %q: %w", seed.Username, err)
		}
		seeded++
	}
	return seeded, nil
}
