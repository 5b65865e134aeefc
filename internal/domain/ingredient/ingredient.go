// Package ingredient holds the canonical ingredient catalog model and the
// fuzzy matching rules used to resolve free-text names against it.
package ingredient

import "strings"

// Ingredient is a canonical catalog entry. Names are stored as first
// submitted and compared case-insensitively.
type Ingredient struct {
	ID   int64
	Name string
}

// Normalize lowercases and trims a raw ingredient name.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidateName rejects names that are blank after trimming.
func ValidateName(raw string) error {
	if Normalize(raw) == "" {
		return ErrBlankName
	}
	return nil
}
