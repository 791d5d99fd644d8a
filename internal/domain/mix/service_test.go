package mix

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"stemvault/internal/domain/blob"

	"github.com/stretchr/testify/require"
)

// fakeBlobStore is an in-memory BlobStore for isolator tests.
type fakeBlobStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{data: make(map[string][]byte)}
}

func (s *fakeBlobStore) Load(_ context.Context, key blob.Key) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.data[key.String()]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return payload, nil
}

func (s *fakeBlobStore) Save(_ context.Context, key blob.Key, payload []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key.String()] = payload
	return key.String(), nil
}

func newTestIsolator() (*Isolator, *fakeBlobStore) {
	blobs := newFakeBlobStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewIsolator(blobs, logger), blobs
}

func storeCumulative(t *testing.T, blobs *fakeBlobStore, projectID, clipID string, buf *Buffer) {
	t.Helper()
	data, err := EncodeWAV(buf)
	require.NoError(t, err)
	key := blob.Key{ProjectID: projectID, ClipID: clipID, Variant: blob.VariantCumulative}
	_, err = blobs.Save(context.Background(), key, data)
	require.NoError(t, err)
}

func loadIsolated(t *testing.T, blobs *fakeBlobStore, projectID, clipID string) *Buffer {
	t.Helper()
	key := blob.Key{ProjectID: projectID, ClipID: clipID, Variant: blob.VariantIsolated}
	data, err := blobs.Load(context.Background(), key)
	require.NoError(t, err)
	buf, err := DecodeWAV(data)
	require.NoError(t, err)
	return buf
}

func TestIsolator_FirstLayerIsIdentity(t *testing.T) {
	svc, blobs := newTestIsolator()
	ctx := context.Background()

	mix := &Buffer{SampleRate: 44100, Channels: [][]float64{{0.25, -0.25, 0.5}}}
	storeCumulative(t, blobs, "p1", "c1", mix)

	raw, err := svc.IsolateClip(ctx, "p1", "c1", "")
	require.NoError(t, err)
	require.Equal(t, "audio:p1:c1:isolated", raw)

	isolated := loadIsolated(t, blobs, "p1", "c1")
	require.Equal(t, mix.NumChannels(), isolated.NumChannels())
	require.Equal(t, mix.Len(), isolated.Len())
	for i := range mix.Channels[0] {
		require.InDelta(t, mix.Channels[0][i], isolated.Channels[0][i], 1e-3)
	}
}

func TestIsolator_SubtractsPreviousLayer(t *testing.T) {
	svc, blobs := newTestIsolator()
	ctx := context.Background()

	storeCumulative(t, blobs, "p1", "c1", &Buffer{
		SampleRate: 44100,
		Channels:   [][]float64{{0.25, 0.25, 0.25}},
	})
	storeCumulative(t, blobs, "p1", "c2", &Buffer{
		SampleRate: 44100,
		Channels:   [][]float64{{0.75, 0.5, 0.25}},
	})

	_, err := svc.IsolateClip(ctx, "p1", "c2", "c1")
	require.NoError(t, err)

	isolated := loadIsolated(t, blobs, "p1", "c2")
	require.InDelta(t, 0.5, isolated.Channels[0][0], 1e-3)
	require.InDelta(t, 0.25, isolated.Channels[0][1], 1e-3)
	require.InDelta(t, 0.0, isolated.Channels[0][2], 1e-3)
}

func TestIsolator_RecomputeOverwrites(t *testing.T) {
	svc, blobs := newTestIsolator()
	ctx := context.Background()

	storeCumulative(t, blobs, "p1", "c1", &Buffer{
		SampleRate: 44100,
		Channels:   [][]float64{{0.5, 0.5}},
	})
	_, err := svc.IsolateClip(ctx, "p1", "c1", "")
	require.NoError(t, err)

	// Regeneration replaced the cumulative mix; re-running isolation fully
	// recomputes the stem.
	storeCumulative(t, blobs, "p1", "c1", &Buffer{
		SampleRate: 44100,
		Channels:   [][]float64{{-0.5, -0.5}},
	})
	_, err = svc.IsolateClip(ctx, "p1", "c1", "")
	require.NoError(t, err)

	isolated := loadIsolated(t, blobs, "p1", "c1")
	require.InDelta(t, -0.5, isolated.Channels[0][0], 1e-3)
}

func TestIsolator_MissingCumulativeMix(t *testing.T) {
	svc, _ := newTestIsolator()

	_, err := svc.IsolateClip(context.Background(), "p1", "absent", "")
	require.ErrorIs(t, err, ErrMixNotFound)
}

func TestIsolator_AbsentPreviousFallsBackToIdentity(t *testing.T) {
	svc, blobs := newTestIsolator()
	ctx := context.Background()

	mix := &Buffer{SampleRate: 44100, Channels: [][]float64{{0.5, 0.25}}}
	storeCumulative(t, blobs, "p1", "c2", mix)

	_, err := svc.IsolateClip(ctx, "p1", "c2", "c1")
	require.NoError(t, err)

	isolated := loadIsolated(t, blobs, "p1", "c2")
	require.InDelta(t, 0.5, isolated.Channels[0][0], 1e-3)
	require.InDelta(t, 0.25, isolated.Channels[0][1], 1e-3)
}

func TestIsolator_RejectsNonAudioPayload(t *testing.T) {
	svc, blobs := newTestIsolator()
	ctx := context.Background()

	key := blob.Key{ProjectID: "p1", ClipID: "c1", Variant: blob.VariantCumulative}
	_, err := blobs.Save(ctx, key, []byte("not audio"))
	require.NoError(t, err)

	_, err = svc.IsolateClip(ctx, "p1", "c1", "")
	require.ErrorIs(t, err, ErrInvalidAudio)
}
