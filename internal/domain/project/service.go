package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stemvault/internal/substrate"

	"github.com/google/uuid"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID                 string
	Name               string
	GenerationDefaults json.RawMessage
}

// Create creates a new project with fresh timestamps.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	now := time.Now().UnixMilli()
	proj := &Project{
		ID:                 id,
		Name:               req.Name,
		CreatedAt:          now,
		UpdatedAt:          now,
		Tracks:             []json.RawMessage{},
		GenerationDefaults: req.GenerationDefaults,
	}

	if err := s.repo.Save(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "project_id", proj.ID, "name", proj.Name)
	return proj, nil
}

// Save overwrites the stored record with proj, refreshing UpdatedAt.
// Every save is a full-record overwrite, never a partial patch.
func (s *Service) Save(ctx context.Context, proj *Project) (*Project, error) {
	if proj == nil || strings.TrimSpace(proj.ID) == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now().UnixMilli()
	if proj.CreatedAt == 0 {
		proj.CreatedAt = now
	}
	// UpdatedAt never moves behind CreatedAt, even under clock adjustment.
	if now < proj.CreatedAt {
		now = proj.CreatedAt
	}
	proj.UpdatedAt = now

	if err := s.repo.Save(ctx, proj); err != nil {
		return nil, fmt.Errorf("saving project: %w", err)
	}
	return proj, nil
}

// Load fetches a project by ID.
func (s *Service) Load(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Load(ctx, id)
	if err != nil {
		if errors.Is(err, substrate.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return proj, nil
}

// Delete removes a project record. Deleting an absent project is a no-op.
// Audio blobs are not purged here; callers purge them separately.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", "project_id", id)
	return nil
}

// List returns project summaries, most recently updated first.
func (s *Service) List(ctx context.Context) ([]ProjectSummary, error) {
	return s.repo.List(ctx)
}
