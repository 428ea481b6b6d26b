package errors

import (
	"strings"
	"unicode"
)

// ValidateFeatureID validates an identifier used as a feature key.
// Feature keys end up inside generated documents and enable statements, so
// they must be non-blank and free of whitespace and control characters.
func ValidateFeatureID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidFeatureDefinition, "feature id cannot be blank")
	}
	for _, r := range id {
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidFeatureDefinition, "feature id %q must not contain whitespace", id)
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFeatureDefinition, "feature id %q contains control characters", id)
		}
	}
	if strings.ContainsAny(id, `'"`) {
		return New(ErrCodeInvalidFeatureDefinition, "feature id %q must not contain quotes", id)
	}
	return nil
}

// ValidatePath validates a document path before it is read or written.
//
// Validation rules:
//   - Path cannot be blank
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
