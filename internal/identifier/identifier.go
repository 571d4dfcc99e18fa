// Package identifier decides what counts as a valid entity key and mints new ones.
package identifier

import "github.com/google/uuid"

// IsValid reports whether id is a syntactically valid UUID of any version or variant.
// Only the canonical 36-character hyphenated form is accepted.
func IsValid(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// AllValid reports whether every id passes IsValid. An empty slice is valid.
func AllValid(ids []string) bool {
	for _, id := range ids {
		if !IsValid(id) {
			return false
		}
	}
	return true
}

// New returns a fresh random (version 4) UUID in canonical form.
func New() string {
	return uuid.New().String()
}
