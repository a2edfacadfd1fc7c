package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"signet/pkg/platform/sentinel"
)

// PostgresClientStore persists client registrations in PostgreSQL.
type PostgresClientStore struct {
	pool *pgxpool.Pool
}

func NewPostgresClientStore(pool *pgxpool.Pool) *PostgresClientStore {
	return &PostgresClientStore{pool: pool}
}

// Create inserts the client. Uniqueness of client_id is enforced by the
// database, not application locking: ON CONFLICT DO NOTHING plus the affected
// row count decides the winner under concurrency.
func (s *PostgresClientStore) Create(ctx context.Context, client *Client) error {
	if err := client.Validate(); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO clients (id, tenant_id, name, client_id, client_secret, uri,
			redirect_uris, post_logout_redirect_uris, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (client_id) DO NOTHING
	`, client.ID, client.TenantID, client.Name, client.ClientID, client.ClientSecret,
		client.URI, client.RedirectURIs, client.PostLogoutRedirectURIs,
		client.CreatedAt, client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client_id %q: %w", client.ClientID, sentinel.ErrAlreadyUsed)
	}
	return nil
}

func (s *PostgresClientStore) GetByClientID(ctx context.Context, clientID string) (*Client, error) {
	var c Client
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, name, client_id, client_secret, uri,
			redirect_uris, post_logout_redirect_uris, created_at, updated_at
		FROM clients
		WHERE client_id = $1
	`, clientID).Scan(&c.ID, &c.TenantID, &c.Name, &c.ClientID, &c.ClientSecret,
		&c.URI, &c.RedirectURIs, &c.PostLogoutRedirectURIs, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("client %q: %w", clientID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// PostgresUserStore persists resource owners in PostgreSQL.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (s *PostgresUserStore) Create(ctx context.Context, user *User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, tenant_id, username, email, name, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (username) DO NOTHING
	`, user.ID, user.TenantID, user.Username, user.Email, user.Name,
		user.PasswordHash, user.IsActive, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("username %q: %w", user.Username, sentinel.ErrAlreadyUsed)
	}
	return nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*User, error) {
	return s.getBy(ctx, "id", id)
}

func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.getBy(ctx, "username", username)
}

func (s *PostgresUserStore) getBy(ctx context.Context, column, value string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, username, email, name, password_hash, is_active, created_at
		FROM users
		WHERE `+column+` = $1
	`, value).Scan(&u.ID, &u.TenantID, &u.Username, &u.Email, &u.Name,
		&u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", value, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
