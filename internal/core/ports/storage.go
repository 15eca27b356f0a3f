package ports

import "context"

// Storage is durable key/value storage scoped to one client (a browser
// session on the portal, a state file in the terminal client).
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
