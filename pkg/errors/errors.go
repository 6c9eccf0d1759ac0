// Package errors defines the coded errors returned across blockify.
//
// Every failure that reaches a user carries a Code. The CLI prints the
// message, the HTTP server picks a status from the code, and tests match on
// codes rather than on message text:
//
//	err := errors.New(errors.ErrCodeInvalidInput, "grid is empty (%dx%d)", w, h)
//	if errors.Is(err, errors.ErrCodeInvalidInput) { ... }
//
// Codes starting with INVALID_ and the *_FAILED codes of the rasterizer and
// splitter are caused by the input. INTERNAL_ codes are bugs and must never
// be retried.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// The source could not be turned into pixels or cut into title and
	// subtitle.
	ErrCodeRasterize Code = "RASTERIZE_FAILED"
	ErrCodeSplit     Code = "SPLIT_FAILED"

	ErrCodeInternal  Code = "INTERNAL_ERROR"
	ErrCodeInvariant Code = "INTERNAL_INVARIANT_VIOLATION"
	// ErrCodeUnsupported marks a request this build cannot serve, such as an
	// SVG source with no SVG rasterizer configured.
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// clientCodes are the codes caused by what the caller sent.
var clientCodes = map[Code]bool{
	ErrCodeInvalidInput:  true,
	ErrCodeInvalidFormat: true,
	ErrCodeInvalidMode:   true,
	ErrCodeInvalidConfig: true,
	ErrCodeInvalidPath:   true,
	ErrCodeFileNotFound:  true,
	ErrCodeRasterize:     true,
	ErrCodeSplit:         true,
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Invariant reports a broken internal invariant.
func Invariant(format string, args ...any) *Error {
	return New(ErrCodeInvariant, format, args...)
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message of a coded error without its code, or
// err.Error() for any other error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsClientError reports whether err was caused by bad input rather than by
// blockify itself.
func IsClientError(err error) bool {
	return clientCodes[GetCode(err)]
}
