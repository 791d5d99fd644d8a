// Package mcp exposes the stemvault services as MCP tools over stdio or
// streamable HTTP transports.
package mcp

import (
	"context"
	"log/slog"

	"stemvault/internal/domain/blob"
	"stemvault/internal/domain/project"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Save(ctx context.Context, proj *project.Project) (*project.Project, error)
	Load(ctx context.Context, id string) (*project.Project, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]project.ProjectSummary, error)
}

// BlobService defines audio blob operations needed by MCP.
type BlobService interface {
	Save(ctx context.Context, key blob.Key, payload []byte) (string, error)
	DeleteAllForProject(ctx context.Context, projectID string) error
}

// MixService defines stem isolation operations needed by MCP.
type MixService interface {
	IsolateClip(ctx context.Context, projectID, clipID, previousClipID string) (string, error)
}

// ArchiveService defines archive operations needed by MCP.
type ArchiveService interface {
	Export(ctx context.Context, projectID string) ([]byte, error)
	Import(ctx context.Context, data []byte) (*project.Project, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Blobs    BlobService
	Mixes    MixService
	Archives ArchiveService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

const serverInstructions = `stemvault stores multi-track audio-editing projects and their audio in a
local database. Projects are saved as full-record overwrites; audio payloads
are WAV blobs keyed by project, clip, and variant (cumulative or isolated).
Use export_project/import_project to move a project and all of its audio as
one archive file, and isolate_track to derive a single layer's stem from two
cumulative mixes.`

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "stemvault",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
