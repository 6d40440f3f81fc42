package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateRootID validates a configured tree root id.
//
// Person ids in the node table are decimal strings; anything else could never
// match a loaded person, so a non-numeric root is rejected up front as a
// configuration error instead of surfacing later as an unknown root.
func ValidateRootID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidConfig, "root id cannot be empty")
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return New(ErrCodeInvalidConfig, "root id must be numeric: %q", id)
		}
	}
	return nil
}

// slugRegex matches cluster slugs as they appear in the cluster index.
var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateSlug validates a cluster slug passed on the command line.
// The reserved slug "master" is accepted and selects the master tree.
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidInput, "slug cannot be empty")
	}
	if len(slug) > 128 {
		return New(ErrCodeInvalidInput, "slug too long (max 128 characters)")
	}
	if !slugRegex.MatchString(slug) {
		return New(ErrCodeInvalidInput, "invalid slug: %q", slug)
	}
	return nil
}

// ValidatePath validates an input or output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidConfig, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidConfig, "path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidConfig, "path contains invalid characters")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "path contains invalid characters")
		}
	}

	return nil
}
