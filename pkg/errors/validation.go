package errors

import (
	"strings"
	"unicode"
)

// ValidateProviderID validates a provider identifier.
// Provider IDs end up in cache keys, update targeting, and node tags, so
// they must be short, printable, and path-safe.
func ValidateProviderID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidProvider, "provider id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidProvider, "provider id too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidProvider, "provider id contains whitespace or control characters")
		}
	}

	if strings.ContainsAny(id, "/\\:") {
		return New(ErrCodeInvalidProvider, "provider id contains path separator characters")
	}

	return nil
}

// ValidateFolderRoot validates a folder provider's root path.
// It rejects values that could only come from a corrupted or hostile
// configuration file.
func ValidateFolderRoot(path string) error {
	if path == "" {
		return New(ErrCodeInvalidConfig, "folder root cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return New(ErrCodeInvalidConfig, "folder root contains a null byte")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "folder root contains control characters")
		}
	}

	return nil
}
