package datever

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure. Every code is fatal for the invocation.
type ErrorCode string

const (
	// ErrCodeRepositoryOpenFailed indicates the path is not a git repository.
	ErrCodeRepositoryOpenFailed ErrorCode = "REPOSITORY_OPEN_FAILED"
	// ErrCodeDescribeFailed indicates no tag is reachable from HEAD.
	ErrCodeDescribeFailed ErrorCode = "DESCRIBE_FAILED"
	// ErrCodeMalformedVersion indicates the nearest tag is not major.minor.patch.
	ErrCodeMalformedVersion ErrorCode = "MALFORMED_VERSION"
	// ErrCodeReferenceNotFound indicates refs/tags/{major}.{minor}.{patch} is missing.
	ErrCodeReferenceNotFound ErrorCode = "REFERENCE_NOT_FOUND"
	// ErrCodeMissingTaggerIdentity indicates a lightweight tag.
	ErrCodeMissingTaggerIdentity ErrorCode = "MISSING_TAGGER_IDENTITY"
	// ErrCodeDateUnderflow indicates the tag predates the day-count epoch.
	ErrCodeDateUnderflow ErrorCode = "DATE_UNDERFLOW"
	// ErrCodeDateOverflow indicates the day count does not fit the split encoding.
	ErrCodeDateOverflow ErrorCode = "DATE_OVERFLOW"
	// ErrCodeComponentOverflow16 indicates a component does not fit in 16 bits.
	ErrCodeComponentOverflow16 ErrorCode = "COMPONENT_OVERFLOW_16"
	// ErrCodeComponentOverflow8 indicates a component does not fit in 8 bits.
	ErrCodeComponentOverflow8 ErrorCode = "COMPONENT_OVERFLOW_8"
	// ErrCodeInvalidOptions indicates a contradictory set of output modes.
	ErrCodeInvalidOptions ErrorCode = "INVALID_OPTIONS"
)

// Error is a categorized failure carrying an optional cause and debugging context.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface. The code is left out so the CLI can
// print the human-readable message as-is.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code, so callers can write
// errors.Is(err, &Error{Code: ErrCodeDateOverflow}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new Error with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
