package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key does not exist in KV storage
var ErrKeyNotFound = errors.New("key not found")

// KeyValuePair represents a stored key/value entry
type KeyValuePair struct {
	Key         string    `json:"key" badgerhold:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyValueStorage provides key/value persistence for secrets and settings
type KeyValueStorage interface {
	// Get retrieves a value by key (case-insensitive)
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or updates a key/value pair (case-insensitive)
	Set(ctx context.Context, key string, value string, description string) error

	// Delete removes a key/value pair
	Delete(ctx context.Context, key string) error

	// GetAll returns all key/value pairs as a map
	GetAll(ctx context.Context) (map[string]string, error)
}
