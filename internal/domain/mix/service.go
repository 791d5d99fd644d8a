package mix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"stemvault/internal/domain/blob"
)

// BlobStore defines the audio blob operations the isolator needs.
type BlobStore interface {
	Load(ctx context.Context, key blob.Key) ([]byte, error)
	Save(ctx context.Context, key blob.Key, payload []byte) (string, error)
}

// Isolator computes and stores isolated stems from cumulative mixes.
type Isolator struct {
	blobs  BlobStore
	logger *slog.Logger
}

// NewIsolator creates a new isolator service.
func NewIsolator(blobs BlobStore, logger *slog.Logger) *Isolator {
	return &Isolator{blobs: blobs, logger: logger}
}

// IsolateClip derives the isolated stem for a clip from its cumulative mix
// and the previous layer's cumulative mix, stores it under the clip's
// isolated key, and returns that key. The isolated blob is always fully
// recomputed. With no previous layer (previousClipID empty, or its
// cumulative mix absent) the stem is the cumulative mix itself.
func (s *Isolator) IsolateClip(ctx context.Context, projectID, clipID, previousClipID string) (string, error) {
	currentKey := blob.Key{ProjectID: projectID, ClipID: clipID, Variant: blob.VariantCumulative}
	currentData, err := s.blobs.Load(ctx, currentKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return "", ErrMixNotFound
		}
		return "", fmt.Errorf("loading cumulative mix: %w", err)
	}
	current, err := DecodeWAV(currentData)
	if err != nil {
		return "", err
	}

	var previous *Buffer
	if previousClipID != "" {
		previousKey := blob.Key{ProjectID: projectID, ClipID: previousClipID, Variant: blob.VariantCumulative}
		previousData, err := s.blobs.Load(ctx, previousKey)
		switch {
		case errors.Is(err, blob.ErrNotFound):
			s.logger.Warn("previous cumulative mix absent, isolating against silence",
				"project_id", projectID, "clip_id", clipID, "previous_clip_id", previousClipID)
		case err != nil:
			return "", fmt.Errorf("loading previous cumulative mix: %w", err)
		default:
			previous, err = DecodeWAV(previousData)
			if err != nil {
				return "", err
			}
		}
	}

	isolated := Isolate(current, previous)
	payload, err := EncodeWAV(isolated)
	if err != nil {
		return "", err
	}

	isolatedKey := blob.Key{ProjectID: projectID, ClipID: clipID, Variant: blob.VariantIsolated}
	raw, err := s.blobs.Save(ctx, isolatedKey, payload)
	if err != nil {
		return "", fmt.Errorf("saving isolated stem: %w", err)
	}

	s.logger.Info("stem isolated", "project_id", projectID, "clip_id", clipID, "key", raw)
	return raw, nil
}
