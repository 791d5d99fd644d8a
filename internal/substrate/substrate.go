// Package substrate defines the persistent key-value store the domain
// layers build on, plus its SQLite-backed and in-memory implementations.
package substrate

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested key doesn't exist.
var ErrNotFound = errors.New("key not found")

// Substrate is an opaque key-value store over string keys and byte payloads.
// Once written, a key stays readable until deleted. Writes to the same key
// are last-write-wins; the substrate serializes its own writes per key.
type Substrate interface {
	// Get returns the payload stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores payload at key, overwriting any previous value.
	Set(ctx context.Context, key string, payload []byte) error
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
	// ListKeys returns all stored keys in no particular order.
	ListKeys(ctx context.Context) ([]string, error)
}
