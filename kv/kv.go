package kv

import (
	"context"
	"errors"
	"time"
)

// ErrKeyMiss is returned by Get when the key is absent. Callers treat it
// differently from an outage: a miss is recomputed, an outage is logged
// and degraded to a miss by the cache layer.
var ErrKeyMiss = errors.New("key not found")

// KeyValueStore represents an interface for a key-value storage system
// providing basic operations like Set, Get and Delete
type KeyValueStore interface {
	// Set stores a key-value pair with optional expiration duration.
	// A zero duration means no expiry.
	Set(ctx context.Context, key, value string, exp time.Duration) error
	// Get retrieves the value associated with the given key
	Get(ctx context.Context, key string) (string, error)
	// Del removes the key-value pair; deleting an absent key is not an error
	Del(ctx context.Context, key string) error
}
