package archive

import (
	"context"
	"fmt"
	"log/slog"

	"stemvault/internal/domain/blob"
	"stemvault/internal/domain/project"
)

// ProjectLoader resolves project records for export.
type ProjectLoader interface {
	Load(ctx context.Context, id string) (*project.Project, error)
}

// BlobStore defines the audio blob operations the archive service needs.
type BlobStore interface {
	ListForProject(ctx context.Context, projectID string) ([]string, error)
	LoadByKey(ctx context.Context, raw string) ([]byte, error)
	Save(ctx context.Context, key blob.Key, payload []byte) (string, error)
}

// Service packages projects with their audio for export and restores them
// on import.
type Service struct {
	projects ProjectLoader
	// repo bypasses the project service on import so restored records keep
	// their original timestamps instead of getting a refreshed UpdatedAt.
	repo   project.Repository
	blobs  BlobStore
	logger *slog.Logger
}

// NewService creates a new archive service.
func NewService(projects ProjectLoader, repo project.Repository, blobs BlobStore, logger *slog.Logger) *Service {
	return &Service{projects: projects, repo: repo, blobs: blobs, logger: logger}
}

// Export reads all of the project's blobs and encodes them with a project
// snapshot into one archive buffer. The whole archive is materialized in
// memory; there is no streaming variant.
func (s *Service) Export(ctx context.Context, projectID string) ([]byte, error) {
	proj, err := s.projects.Load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	keys, err := s.blobs.ListForProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project blobs: %w", err)
	}

	files := make([]File, 0, len(keys))
	for _, raw := range keys {
		payload, err := s.blobs.LoadByKey(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("loading blob %s: %w", raw, err)
		}
		files = append(files, File{Key: raw, Payload: payload})
	}

	data, err := Encode(proj, files)
	if err != nil {
		return nil, err
	}

	s.logger.Info("project exported", "project_id", projectID, "blobs", len(files), "bytes", len(data))
	return data, nil
}

// Import decodes an archive and restores its blobs and project record.
// Decoding happens fully before any write: a malformed archive leaves the
// store untouched. Blob keys are validated against the keying scheme before
// restoring.
func (s *Service) Import(ctx context.Context, data []byte) (*project.Project, error) {
	proj, files, err := Decode(data)
	if err != nil {
		return nil, err
	}

	// Validate every key up front so key-scheme violations also surface
	// before the first write.
	keys := make([]blob.Key, len(files))
	for i, f := range files {
		key, err := blob.ParseKey(f.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		keys[i] = key
	}

	for i, f := range files {
		if _, err := s.blobs.Save(ctx, keys[i], f.Payload); err != nil {
			return nil, fmt.Errorf("restoring blob %s: %w", f.Key, err)
		}
	}

	// Write the record through the repository directly so the imported
	// timestamps survive instead of being refreshed by a service save.
	if err := s.repo.Save(ctx, proj); err != nil {
		return nil, fmt.Errorf("restoring project: %w", err)
	}

	s.logger.Info("project imported", "project_id", proj.ID, "blobs", len(files))
	return proj, nil
}
