package project

import "context"

// Repository provides persistence for project records.
type Repository interface {
	// Save writes the full record, overwriting any previous version.
	Save(ctx context.Context, proj *Project) error
	// Load returns the record last saved under id, or substrate.ErrNotFound.
	Load(ctx context.Context, id string) (*Project, error)
	// Delete removes the record. Absent records are a no-op.
	Delete(ctx context.Context, id string) error
	// List returns summaries of all stored projects, most recently
	// updated first.
	List(ctx context.Context) ([]ProjectSummary, error)
}
