// Package blob defines the deterministic keying scheme for audio payloads
// and the store that reads and writes them through the substrate.
package blob

import (
	"fmt"
	"strings"
)

// Variant distinguishes the two stored forms of a clip's audio.
type Variant string

const (
	// VariantCumulative is the combined audio of all layers up to and
	// including the clip's layer.
	VariantCumulative Variant = "cumulative"
	// VariantIsolated is the audio attributable to the clip's layer alone.
	VariantIsolated Variant = "isolated"
)

// Valid reports whether v is a recognized variant.
func (v Variant) Valid() bool {
	return v == VariantCumulative || v == VariantIsolated
}

const (
	keyPrefix    = "audio"
	keyDelimiter = ":"
)

// Key addresses one audio payload. Two distinct keys never collide, and all
// three fields are recoverable from the string form by splitting on the
// delimiter, which lets the archive importer pattern-match manifest keys.
type Key struct {
	ProjectID string
	ClipID    string
	Variant   Variant
}

// Validate checks that the key maps to a well-formed, unambiguous string.
func (k Key) Validate() error {
	if k.ProjectID == "" || strings.Contains(k.ProjectID, keyDelimiter) {
		return fmt.Errorf("%w: bad project id %q", ErrInvalidKey, k.ProjectID)
	}
	if k.ClipID == "" || strings.Contains(k.ClipID, keyDelimiter) {
		return fmt.Errorf("%w: bad clip id %q", ErrInvalidKey, k.ClipID)
	}
	if !k.Variant.Valid() {
		return fmt.Errorf("%w: bad variant %q", ErrInvalidKey, k.Variant)
	}
	return nil
}

// String returns the substrate key: audio:<projectID>:<clipID>:<variant>.
func (k Key) String() string {
	return strings.Join([]string{keyPrefix, k.ProjectID, k.ClipID, string(k.Variant)}, keyDelimiter)
}

// ParseKey recovers a Key from its string form.
func ParseKey(raw string) (Key, error) {
	parts := strings.Split(raw, keyDelimiter)
	if len(parts) != 4 || parts[0] != keyPrefix {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
	}
	key := Key{ProjectID: parts[1], ClipID: parts[2], Variant: Variant(parts[3])}
	if err := key.Validate(); err != nil {
		return Key{}, err
	}
	return key, nil
}

// ProjectPrefix returns the key prefix shared by every audio payload of the
// given project, used for bulk enumeration and deletion.
func ProjectPrefix(projectID string) string {
	return keyPrefix + keyDelimiter + projectID + keyDelimiter
}

// IsProjectKey reports whether raw addresses audio belonging to projectID.
func IsProjectKey(raw, projectID string) bool {
	return strings.HasPrefix(raw, ProjectPrefix(projectID))
}
