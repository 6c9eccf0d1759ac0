package errors

import (
	"strings"
	"unicode"
)

// MaxGridSide bounds either side of a grid. A larger grid yields a document
// with millions of primitives and is almost certainly a wrong pixel width.
const MaxGridSide = 4096

// maxPathLen matches PATH_MAX on Linux.
const maxPathLen = 4096

// ValidateDimensions requires 0 < w, h <= MaxGridSide. what names the
// measured thing in the message.
func ValidateDimensions(what string, w, h int) error {
	switch {
	case w <= 0 || h <= 0:
		return New(ErrCodeInvalidInput, "%s must be positive (got %dx%d)", what, w, h)
	case w > MaxGridSide || h > MaxGridSide:
		return New(ErrCodeInvalidInput, "%s too large (got %dx%d, max %d)", what, w, h, MaxGridSide)
	}
	return nil
}

// ValidatePath rejects input and output paths that are empty, longer than
// PATH_MAX, contain control characters, or carry surrounding whitespace
// (usually a shell quoting slip).
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLen:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLen)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "path %q contains control characters", path)
	case strings.TrimSpace(path) != path:
		return New(ErrCodeInvalidPath, "path %q has leading or trailing whitespace", path)
	}
	return nil
}
