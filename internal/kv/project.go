// Package kv implements the domain repositories over the key-value
// substrate: JSON project records under "project:" keys and raw audio
// payloads under the blob keying scheme.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"stemvault/internal/domain/project"
	"stemvault/internal/substrate"
)

const projectKeyPrefix = "project:"

func projectKey(id string) string {
	return projectKeyPrefix + id
}

// ProjectRepository implements project.Repository over a Substrate.
type ProjectRepository struct {
	store  substrate.Substrate
	logger *slog.Logger
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(store substrate.Substrate, logger *slog.Logger) *ProjectRepository {
	return &ProjectRepository{store: store, logger: logger}
}

// Save writes the full record, overwriting any previous version.
func (r *ProjectRepository) Save(ctx context.Context, proj *project.Project) error {
	data, err := json.Marshal(proj)
	if err != nil {
		return fmt.Errorf("failed to encode project record: %w", err)
	}
	if err := r.store.Set(ctx, projectKey(proj.ID), data); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// Load returns the record stored under id, or substrate.ErrNotFound.
func (r *ProjectRepository) Load(ctx context.Context, id string) (*project.Project, error) {
	data, err := r.store.Get(ctx, projectKey(id))
	if err != nil {
		return nil, err
	}

	var proj project.Project
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("failed to decode project record %s: %w", id, err)
	}
	return &proj, nil
}

// Delete removes the record. Absent records are a no-op.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, projectKey(id)); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// List loads every project record and projects it to a summary, sorted by
// UpdatedAt descending with ID as a deterministic tiebreak. Records that
// fail to decode are skipped and logged rather than failing the listing,
// keeping the rest of the library available.
func (r *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	keys, err := r.store.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	summaries := make([]project.ProjectSummary, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, projectKeyPrefix) {
			continue
		}
		id := strings.TrimPrefix(key, projectKeyPrefix)
		proj, err := r.Load(ctx, id)
		if err != nil {
			r.logger.Warn("skipping unreadable project record", "key", key, "error", err)
			continue
		}
		summaries = append(summaries, proj.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].UpdatedAt != summaries[j].UpdatedAt {
			return summaries[i].UpdatedAt > summaries[j].UpdatedAt
		}
		return summaries[i].ID < summaries[j].ID
	})

	return summaries, nil
}
