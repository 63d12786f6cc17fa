package domain

import "strings"

// Tag represents a shared label for categorizing movements.
// Tags are global across the coaching team; there is no ownership model.
// Name is stored as entered; uniqueness is enforced case-insensitively.
type Tag struct {
	Record
	Name string `json:"name"`
}

// NormalizeTagName returns the canonical comparison form of a tag name.
// Used for case-insensitive uniqueness checks, never for display.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
