package errors

import (
	"strings"
	"unicode"
)

// ValidateComponentID validates a component identifier from a topology file.
// IDs are used as map keys, cache-key material and DOT node names, so the rules
// are conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No quotes or path separators
//   - Maximum length of 256 characters
func ValidateComponentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTopology, "component id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidTopology, "component id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidTopology, "component id %q contains whitespace or control characters", id)
		}
	}

	if strings.ContainsAny(id, "\"'/\\") {
		return New(ErrCodeInvalidTopology, "component id %q contains invalid characters", id)
	}

	return nil
}

// ValidatePath validates an output or input file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "path too long (max 500 characters)")
	}

	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	return nil
}
