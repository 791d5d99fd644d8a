package blob

import "context"

// Repository provides persistence for audio payloads.
type Repository interface {
	// Save stores payload under key, overwriting any previous value.
	Save(ctx context.Context, key Key, payload []byte) error
	// LoadByKey returns the payload stored under the raw key, or
	// substrate.ErrNotFound.
	LoadByKey(ctx context.Context, raw string) ([]byte, error)
	// Delete removes the payload under key. Absent payloads are a no-op.
	Delete(ctx context.Context, key Key) error
	// ListForProject returns the raw keys of every payload belonging to
	// projectID, sorted for determinism. Zero matches yields an empty list.
	ListForProject(ctx context.Context, projectID string) ([]string, error)
}
