// Package archive encodes a project and its audio payloads into one
// self-contained binary buffer, and decodes such buffers back.
//
// Byte layout:
//
//	offset 0   : 4 bytes  magic token "SVLT"
//	offset 4   : 4 bytes  little-endian uint32 manifest length L
//	offset 8   : L bytes  UTF-8 JSON manifest
//	offset 8+L : payload region, blob bytes concatenated in file-table order
package archive

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"stemvault/internal/domain/project"
)

// ManifestVersion is the only manifest version this codec recognizes.
// Unrecognized versions are a hard decode failure, not a fallback.
const ManifestVersion = 1

var magic = [4]byte{'S', 'V', 'L', 'T'}

const headerSize = len(magic) + 4

// FileEntry locates one blob within the payload region.
type FileEntry struct {
	Key    string `json:"key"`
	Offset int64  `json:"offset"`
	Size   int64  `json:"size"`
}

// Manifest is the structured metadata section of an archive. File entries
// are sorted by offset, offsets are contiguous starting at 0, and the sizes
// sum to the length of the payload region.
type Manifest struct {
	Version int              `json:"version"`
	Project *project.Project `json:"project"`
	Files   []FileEntry      `json:"files"`
}

// File pairs a blob key with its payload.
type File struct {
	Key     string
	Payload []byte
}

// Encode packs a project snapshot and its blobs into a single buffer. Input
// order is preserved in both the file table and the payload region; entries
// are never reordered or deduplicated.
func Encode(proj *project.Project, files []File) ([]byte, error) {
	// A nil track slice would serialize as null, which the decoder rejects;
	// snapshot it as an empty sequence instead.
	if proj != nil && proj.Tracks == nil {
		clone := *proj
		clone.Tracks = []json.RawMessage{}
		proj = &clone
	}

	entries := make([]FileEntry, 0, len(files))
	var offset int64
	for _, f := range files {
		entries = append(entries, FileEntry{
			Key:    f.Key,
			Offset: offset,
			Size:   int64(len(f.Payload)),
		})
		offset += int64(len(f.Payload))
	}

	manifest, err := json.Marshal(Manifest{
		Version: ManifestVersion,
		Project: proj,
		Files:   entries,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if len(manifest) > math.MaxUint32 {
		return nil, fmt.Errorf("manifest too large: %d bytes", len(manifest))
	}

	out := make([]byte, 0, headerSize+len(manifest)+int(offset))
	out = append(out, magic[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(manifest)))
	out = append(out, manifest...)
	for _, f := range files {
		out = append(out, f.Payload...)
	}
	return out, nil
}

// Decode unpacks an archive buffer into its project snapshot and blobs. It
// is a pure transform: no store writes happen here, and every structural
// violation fails with a typed error instead of reading out of bounds.
func Decode(data []byte) (*project.Project, []File, error) {
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic[:]) {
		return nil, nil, fmt.Errorf("%w: bad magic token", ErrInvalidFormat)
	}
	if len(data) < headerSize {
		return nil, nil, fmt.Errorf("%w: missing manifest length", ErrTruncatedArchive)
	}

	manifestLen := int64(binary.LittleEndian.Uint32(data[len(magic):headerSize]))
	if manifestLen > int64(len(data)-headerSize) {
		return nil, nil, fmt.Errorf("%w: manifest length %d exceeds buffer", ErrTruncatedArchive, manifestLen)
	}
	manifestBytes := data[headerSize : int64(headerSize)+manifestLen]
	payload := data[int64(headerSize)+manifestLen:]

	manifest, err := decodeManifest(manifestBytes)
	if err != nil {
		return nil, nil, err
	}

	files := make([]File, 0, len(manifest.Files))
	for _, entry := range manifest.Files {
		if entry.Offset < 0 || entry.Size < 0 || entry.Offset+entry.Size > int64(len(payload)) {
			return nil, nil, fmt.Errorf("%w: entry %q [%d, %d) outside payload region of %d bytes",
				ErrTruncatedArchive, entry.Key, entry.Offset, entry.Offset+entry.Size, len(payload))
		}
		blob := make([]byte, entry.Size)
		copy(blob, payload[entry.Offset:entry.Offset+entry.Size])
		files = append(files, File{Key: entry.Key, Payload: blob})
	}

	return manifest.Project, files, nil
}

// decodeManifest separates text-level failures (ErrInvalidFormat) from
// shape-level ones (ErrInvalidManifest) by probing the raw JSON first.
func decodeManifest(data []byte) (*Manifest, error) {
	var probe struct {
		Version *int            `json:"version"`
		Project json.RawMessage `json:"project"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: malformed manifest: %v", ErrInvalidFormat, err)
	}

	if probe.Version == nil {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidManifest)
	}
	if *probe.Version != ManifestVersion {
		return nil, fmt.Errorf("%w: unrecognized version %d", ErrInvalidManifest, *probe.Version)
	}
	if len(probe.Project) == 0 || string(probe.Project) == "null" {
		return nil, fmt.Errorf("%w: missing project", ErrInvalidManifest)
	}

	var projectProbe struct {
		ID     string          `json:"id"`
		Tracks json.RawMessage `json:"tracks"`
	}
	if err := json.Unmarshal(probe.Project, &projectProbe); err != nil {
		return nil, fmt.Errorf("%w: malformed project: %v", ErrInvalidManifest, err)
	}
	if projectProbe.ID == "" {
		return nil, fmt.Errorf("%w: missing project id", ErrInvalidManifest)
	}
	if !isJSONArray(projectProbe.Tracks) {
		return nil, fmt.Errorf("%w: project tracks is not a sequence", ErrInvalidManifest)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return &manifest, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
