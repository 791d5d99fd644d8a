package blob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"stemvault/internal/substrate"
)

// Store handles audio payload operations over the keying scheme.
type Store struct {
	repo   Repository
	logger *slog.Logger
}

// NewStore creates a new audio blob store.
func NewStore(repo Repository, logger *slog.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Save stores payload at the clip's deterministic key and returns the key
// string for later reference, e.g. in an archive file table.
func (s *Store) Save(ctx context.Context, key Key, payload []byte) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}
	if err := s.repo.Save(ctx, key, payload); err != nil {
		return "", fmt.Errorf("saving blob: %w", err)
	}
	s.logger.Debug("blob saved", "key", key.String(), "size", len(payload))
	return key.String(), nil
}

// Load returns the payload stored for the clip, or ErrNotFound.
func (s *Store) Load(ctx context.Context, key Key) ([]byte, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return s.LoadByKey(ctx, key.String())
}

// LoadByKey returns the payload stored under a raw key, or ErrNotFound.
// The archive importer uses this form since manifests carry raw keys.
func (s *Store) LoadByKey(ctx context.Context, raw string) ([]byte, error) {
	payload, err := s.repo.LoadByKey(ctx, raw)
	if err != nil {
		if errors.Is(err, substrate.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading blob: %w", err)
	}
	return payload, nil
}

// Delete removes the clip's payload. Deleting an absent payload is a no-op.
func (s *Store) Delete(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

// DeleteAllForProject removes every payload stored under the project's key
// prefix. Zero matches is not an error.
func (s *Store) DeleteAllForProject(ctx context.Context, projectID string) error {
	keys, err := s.repo.ListForProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("listing project blobs: %w", err)
	}
	for _, raw := range keys {
		key, err := ParseKey(raw)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, key); err != nil {
			return fmt.Errorf("deleting blob %s: %w", raw, err)
		}
	}
	s.logger.Info("project audio purged", "project_id", projectID, "blobs", len(keys))
	return nil
}

// ListForProject returns the raw keys of every payload belonging to the
// project, sorted for determinism.
func (s *Store) ListForProject(ctx context.Context, projectID string) ([]string, error) {
	return s.repo.ListForProject(ctx, projectID)
}
