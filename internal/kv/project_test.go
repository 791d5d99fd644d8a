package kv

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"stemvault/internal/domain/project"
	"stemvault/internal/substrate"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProject(id string, updatedAt int64) *project.Project {
	return &project.Project{
		ID:        id,
		Name:      "Project " + id,
		CreatedAt: 1000,
		UpdatedAt: updatedAt,
		Tracks: []json.RawMessage{
			json.RawMessage(`{"clipId":"c1","volume":0.8}`),
		},
	}
}

func TestProjectRepository_SaveLoadRoundTrip(t *testing.T) {
	repo := NewProjectRepository(substrate.NewMemory(), testLogger())
	ctx := context.Background()

	proj := testProject("p1", 2000)
	proj.GenerationDefaults = json.RawMessage(`{"model":"v2","style":"ambient"}`)

	require.NoError(t, repo.Save(ctx, proj))

	loaded, err := repo.Load(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, proj, loaded)
}

func TestProjectRepository_LoadAbsent(t *testing.T) {
	repo := NewProjectRepository(substrate.NewMemory(), testLogger())

	_, err := repo.Load(context.Background(), "nonexistent")
	require.ErrorIs(t, err, substrate.ErrNotFound)
}

func TestProjectRepository_SaveOverwrites(t *testing.T) {
	repo := NewProjectRepository(substrate.NewMemory(), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testProject("p1", 2000)))

	updated := testProject("p1", 3000)
	updated.Name = "Renamed"
	require.NoError(t, repo.Save(ctx, updated))

	loaded, err := repo.Load(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", loaded.Name)
	require.Equal(t, int64(3000), loaded.UpdatedAt)
}

func TestProjectRepository_DeleteIsIdempotent(t *testing.T) {
	repo := NewProjectRepository(substrate.NewMemory(), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testProject("p1", 2000)))
	require.NoError(t, repo.Delete(ctx, "p1"))
	require.NoError(t, repo.Delete(ctx, "p1"))
	require.NoError(t, repo.Delete(ctx, "never-existed"))

	_, err := repo.Load(ctx, "p1")
	require.ErrorIs(t, err, substrate.ErrNotFound)
}

func TestProjectRepository_ListSortsByUpdatedAtDescending(t *testing.T) {
	repo := NewProjectRepository(substrate.NewMemory(), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testProject("old", 1000)))
	require.NoError(t, repo.Save(ctx, testProject("newest", 5000)))
	require.NoError(t, repo.Save(ctx, testProject("middle", 3000)))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	require.Equal(t, "newest", summaries[0].ID)
	require.Equal(t, "middle", summaries[1].ID)
	require.Equal(t, "old", summaries[2].ID)
}

func TestProjectRepository_ListTiesBreakByID(t *testing.T) {
	repo := NewProjectRepository(substrate.NewMemory(), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testProject("b", 2000)))
	require.NoError(t, repo.Save(ctx, testProject("a", 2000)))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, "a", summaries[0].ID)
	require.Equal(t, "b", summaries[1].ID)
}

func TestProjectRepository_ListCountsTracks(t *testing.T) {
	repo := NewProjectRepository(substrate.NewMemory(), testLogger())
	ctx := context.Background()

	proj := testProject("p1", 2000)
	proj.Tracks = []json.RawMessage{
		json.RawMessage(`{"clipId":"c1"}`),
		json.RawMessage(`{"clipId":"c2"}`),
		json.RawMessage(`{"clipId":"c3"}`),
	}
	require.NoError(t, repo.Save(ctx, proj))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, 3, summaries[0].TrackCount)

	loaded, err := repo.Load(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, loaded.Tracks, summaries[0].TrackCount)
}

// A record that fails to decode must not take down the whole listing; the
// rest of the library stays available.
func TestProjectRepository_ListSkipsCorruptRecords(t *testing.T) {
	store := substrate.NewMemory()
	repo := NewProjectRepository(store, testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testProject("good", 2000)))
	require.NoError(t, store.Set(ctx, "project:corrupt", []byte("{not json")))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "good", summaries[0].ID)

	// Load of the corrupt record surfaces the decode error.
	_, err = repo.Load(ctx, "corrupt")
	require.Error(t, err)
	require.NotErrorIs(t, err, substrate.ErrNotFound)
}

func TestProjectRepository_ListIgnoresForeignKeys(t *testing.T) {
	store := substrate.NewMemory()
	repo := NewProjectRepository(store, testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testProject("p1", 2000)))
	require.NoError(t, store.Set(ctx, "audio:p1:c1:cumulative", []byte("RIFFdata")))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
}
