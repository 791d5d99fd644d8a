package kv

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"stemvault/internal/domain/blob"
	"stemvault/internal/substrate"
)

// BlobRepository implements blob.Repository over a Substrate.
type BlobRepository struct {
	store substrate.Substrate
}

// NewBlobRepository creates a new BlobRepository.
func NewBlobRepository(store substrate.Substrate) *BlobRepository {
	return &BlobRepository{store: store}
}

// Save stores payload under key, overwriting any previous value.
func (r *BlobRepository) Save(ctx context.Context, key blob.Key, payload []byte) error {
	if err := r.store.Set(ctx, key.String(), payload); err != nil {
		return fmt.Errorf("failed to save blob: %w", err)
	}
	return nil
}

// LoadByKey returns the payload stored under the raw key, or
// substrate.ErrNotFound.
func (r *BlobRepository) LoadByKey(ctx context.Context, raw string) ([]byte, error) {
	return r.store.Get(ctx, raw)
}

// Delete removes the payload under key. Absent payloads are a no-op.
func (r *BlobRepository) Delete(ctx context.Context, key blob.Key) error {
	if err := r.store.Delete(ctx, key.String()); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// ListForProject returns the raw keys of every payload under the project's
// audio prefix, sorted for determinism.
func (r *BlobRepository) ListForProject(ctx context.Context, projectID string) ([]string, error) {
	keys, err := r.store.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	prefix := blob.ProjectPrefix(projectID)
	matched := make([]string, 0)
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	sort.Strings(matched)
	return matched, nil
}
