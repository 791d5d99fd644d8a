package archive

import "errors"

var (
	// ErrInvalidFormat indicates the buffer is not a stemvault archive:
	// bad magic token or unparsable manifest text.
	ErrInvalidFormat = errors.New("invalid archive format")
	// ErrInvalidManifest indicates a parseable but semantically invalid
	// manifest: unrecognized version, missing project identity, or a
	// malformed track sequence.
	ErrInvalidManifest = errors.New("invalid archive manifest")
	// ErrTruncatedArchive indicates the manifest or a file-table entry
	// references bytes beyond the end of the buffer.
	ErrTruncatedArchive = errors.New("truncated archive")
)
