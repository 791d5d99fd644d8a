package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"stemvault/internal/domain/blob"
	"stemvault/internal/domain/project"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// handlers binds the domain services to the tool surface. Methods are plain
// typed handlers so tests can call them without a running server.
type handlers struct {
	services Services
}

func registerTools(server *sdkmcp.Server, services Services) {
	h := &handlers{services: services}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new audio project with fresh timestamps",
	}, h.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get the full record of a project by ID",
	}, h.getProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_project",
		Description: "Overwrite a project record in full, refreshing its updated timestamp",
	}, h.saveProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project record, optionally purging its audio blobs",
	}, h.deleteProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List project summaries, most recently updated first",
	}, h.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "store_mix",
		Description: "Store a WAV file as a clip's cumulative mix",
	}, h.storeMix)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "isolate_track",
		Description: "Derive and store a clip's isolated stem from its cumulative mix and the previous layer's",
	}, h.isolateTrack)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_project",
		Description: "Package a project and all of its audio into one archive file",
	}, h.exportProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_project",
		Description: "Restore a project and its audio from an archive file",
	}, h.importProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "purge_project_audio",
		Description: "Delete every audio blob stored for a project",
	}, h.purgeProjectAudio)
}

type createProjectParams struct {
	Name               string         `json:"name" jsonschema:"project display name"`
	ID                 string         `json:"id,omitempty" jsonschema:"optional project ID, generated when omitted"`
	GenerationDefaults map[string]any `json:"generation_defaults,omitempty" jsonschema:"opaque generation defaults stored with the project"`
}

func (h *handlers) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, args createProjectParams) (*sdkmcp.CallToolResult, *project.Project, error) {
	var defaults json.RawMessage
	if args.GenerationDefaults != nil {
		data, err := json.Marshal(args.GenerationDefaults)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding generation defaults: %w", err)
		}
		defaults = data
	}
	proj, err := h.services.Projects.Create(ctx, project.CreateRequest{
		ID:                 args.ID,
		Name:               args.Name,
		GenerationDefaults: defaults,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, proj, nil
}

type getProjectParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

func (h *handlers) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, args getProjectParams) (*sdkmcp.CallToolResult, *project.Project, error) {
	proj, err := h.services.Projects.Load(ctx, args.ID)
	if err != nil {
		return nil, nil, err
	}
	return nil, proj, nil
}

type saveProjectParams struct {
	Project project.Project `json:"project" jsonschema:"full project record to store"`
}

func (h *handlers) saveProject(ctx context.Context, _ *sdkmcp.CallToolRequest, args saveProjectParams) (*sdkmcp.CallToolResult, *project.Project, error) {
	proj, err := h.services.Projects.Save(ctx, &args.Project)
	if err != nil {
		return nil, nil, err
	}
	return nil, proj, nil
}

type deleteProjectParams struct {
	ID         string `json:"id" jsonschema:"project ID"`
	PurgeAudio bool   `json:"purge_audio,omitempty" jsonschema:"also delete the project's audio blobs"`
}

type statusResult struct {
	Status string `json:"status"`
}

func (h *handlers) deleteProject(ctx context.Context, _ *sdkmcp.CallToolRequest, args deleteProjectParams) (*sdkmcp.CallToolResult, statusResult, error) {
	if err := h.services.Projects.Delete(ctx, args.ID); err != nil {
		return nil, statusResult{}, err
	}
	if args.PurgeAudio {
		if err := h.services.Blobs.DeleteAllForProject(ctx, args.ID); err != nil {
			return nil, statusResult{}, err
		}
	}
	return nil, statusResult{Status: "deleted"}, nil
}

type listProjectsParams struct{}

type listProjectsResult struct {
	Projects []project.ProjectSummary `json:"projects"`
}

func (h *handlers) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listProjectsParams) (*sdkmcp.CallToolResult, listProjectsResult, error) {
	summaries, err := h.services.Projects.List(ctx)
	if err != nil {
		return nil, listProjectsResult{}, err
	}
	return nil, listProjectsResult{Projects: summaries}, nil
}

type storeMixParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	ClipID    string `json:"clip_id" jsonschema:"clip ID"`
	Path      string `json:"path" jsonschema:"path of the WAV file holding the clip's cumulative mix"`
}

type keyResult struct {
	Key string `json:"key"`
}

func (h *handlers) storeMix(ctx context.Context, _ *sdkmcp.CallToolRequest, args storeMixParams) (*sdkmcp.CallToolResult, keyResult, error) {
	payload, err := os.ReadFile(args.Path)
	if err != nil {
		return nil, keyResult{}, fmt.Errorf("reading mix file: %w", err)
	}
	key := blob.Key{ProjectID: args.ProjectID, ClipID: args.ClipID, Variant: blob.VariantCumulative}
	raw, err := h.services.Blobs.Save(ctx, key, payload)
	if err != nil {
		return nil, keyResult{}, err
	}
	return nil, keyResult{Key: raw}, nil
}

type isolateTrackParams struct {
	ProjectID      string `json:"project_id" jsonschema:"project ID"`
	ClipID         string `json:"clip_id" jsonschema:"clip whose stem to derive"`
	PreviousClipID string `json:"previous_clip_id,omitempty" jsonschema:"clip of the previous layer, omitted for the first layer"`
}

func (h *handlers) isolateTrack(ctx context.Context, _ *sdkmcp.CallToolRequest, args isolateTrackParams) (*sdkmcp.CallToolResult, keyResult, error) {
	raw, err := h.services.Mixes.IsolateClip(ctx, args.ProjectID, args.ClipID, args.PreviousClipID)
	if err != nil {
		return nil, keyResult{}, err
	}
	return nil, keyResult{Key: raw}, nil
}

type exportProjectParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Path      string `json:"path" jsonschema:"destination path for the archive file"`
}

type exportProjectResult struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

func (h *handlers) exportProject(ctx context.Context, _ *sdkmcp.CallToolRequest, args exportProjectParams) (*sdkmcp.CallToolResult, exportProjectResult, error) {
	data, err := h.services.Archives.Export(ctx, args.ProjectID)
	if err != nil {
		return nil, exportProjectResult{}, err
	}
	if err := os.WriteFile(args.Path, data, 0o644); err != nil {
		return nil, exportProjectResult{}, fmt.Errorf("writing archive file: %w", err)
	}
	return nil, exportProjectResult{Path: args.Path, Bytes: len(data)}, nil
}

type importProjectParams struct {
	Path string `json:"path" jsonschema:"path of the archive file to import"`
}

func (h *handlers) importProject(ctx context.Context, _ *sdkmcp.CallToolRequest, args importProjectParams) (*sdkmcp.CallToolResult, *project.Project, error) {
	data, err := os.ReadFile(args.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading archive file: %w", err)
	}
	proj, err := h.services.Archives.Import(ctx, data)
	if err != nil {
		return nil, nil, err
	}
	return nil, proj, nil
}

type purgeProjectAudioParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
}

func (h *handlers) purgeProjectAudio(ctx context.Context, _ *sdkmcp.CallToolRequest, args purgeProjectAudioParams) (*sdkmcp.CallToolResult, statusResult, error) {
	if err := h.services.Blobs.DeleteAllForProject(ctx, args.ProjectID); err != nil {
		return nil, statusResult{}, err
	}
	return nil, statusResult{Status: "purged"}, nil
}
