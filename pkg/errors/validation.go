package errors

import (
	"strings"
	"unicode"
)

// maxTitleLength bounds scene titles, which become auto-save file names.
const maxTitleLength = 128

// ValidateTitle validates a scene title before it is used as a file name.
// Auto-save derives "<project>/AutoSave/<title>.json" from the title, so the
// title must be a plain base name.
//
// The validation rules are intentionally conservative:
//   - No empty titles
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - No hidden names (leading dot)
//   - Maximum length of 128 characters
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidTitle, "title cannot be empty")
	}

	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidTitle, "title too long (max %d characters)", maxTitleLength)
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTitle, "title contains invalid control characters")
		}
	}

	if strings.ContainsAny(title, "/\\") {
		return New(ErrCodeInvalidTitle, "title cannot contain path separators")
	}

	if strings.Contains(title, "..") {
		return New(ErrCodeInvalidTitle, "title cannot contain path traversal sequences (..)")
	}

	if strings.HasPrefix(title, ".") {
		return New(ErrCodeInvalidTitle, "title cannot start with a dot")
	}

	return nil
}

// ValidatePath validates a document path given on the command line or in a
// store key.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
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

// ValidateKey validates a store key. Keys name documents inside a store and
// must be relative, single-segment names.
func ValidateKey(key string) error {
	if err := ValidatePath(key); err != nil {
		return err
	}
	if strings.ContainsAny(key, "/\\") {
		return New(ErrCodeInvalidPath, "key cannot contain path separators")
	}
	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidPath, "key cannot contain path traversal sequences (..)")
	}
	return nil
}
