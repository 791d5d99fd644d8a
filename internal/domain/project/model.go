package project

import "encoding/json"

// Project is a multi-track audio-editing project. Tracks and generation
// defaults are opaque editor state: the store round-trips them byte-for-byte
// and never interprets them beyond counting tracks for summaries.
type Project struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	CreatedAt          int64             `json:"createdAt"`
	UpdatedAt          int64             `json:"updatedAt"`
	Tracks             []json.RawMessage `json:"tracks"`
	GenerationDefaults json.RawMessage   `json:"generationDefaults,omitempty"`
}

// ProjectSummary is a lightweight projection for listing. It is derived from
// the stored project at listing time and never persisted on its own.
type ProjectSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
	TrackCount int    `json:"trackCount"`
}

// Summary projects the full record down to its listing view.
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:         p.ID,
		Name:       p.Name,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		TrackCount: len(p.Tracks),
	}
}
