package registry

import "context"

// ClientStore persists client registrations.
//
// GetByClientID resolves the public client_id, returning an error wrapping
// sentinel.ErrNotFound when no client is registered under it. Create returns
// an error wrapping sentinel.ErrAlreadyUsed when the client_id is taken.
type ClientStore interface {
	Create(ctx context.Context, client *Client) error
	GetByClientID(ctx context.Context, clientID string) (*Client, error)
}

// UserStore persists resource owners. Lookup misses wrap sentinel.ErrNotFound
// and username collisions on Create wrap sentinel.ErrAlreadyUsed.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
