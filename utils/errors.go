package utils

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds returned by the dataset readers. Use errors.Is to classify an error;
// the underlying cause (os.ErrNotExist, *csv.ParseError, ...) stays reachable through Unwrap.
var (
	// ErrNotFound is when a required file or directory does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidLayout is when a required path exists but has the wrong type.
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrIO is when a file cannot be opened or read.
	ErrIO = errors.New("i/o failure")
	// ErrMalformed is when a descriptor key or a log row does not have the expected shape.
	ErrMalformed = errors.New("malformed")
	// ErrOutOfRange is when a numeric value cannot be narrowed without losing information.
	ErrOutOfRange = errors.New("out of range")
)

type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.kind, e.msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.kind, e.msg, e.cause)
}

func (e *kindError) Is(target error) bool {
	return target == e.kind //nolint:errorlint
}

func (e *kindError) Unwrap() error {
	return e.cause
}

func newKindError(kind, cause error, format string, args ...interface{}) error {
	return errors.WithStack(&kindError{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause})
}

// NewNotFoundError is used when a required path is missing.
func NewNotFoundError(path string) error {
	return newKindError(ErrNotFound, nil, "required path %q does not exist", path)
}

// NewInvalidLayoutError is used when a required path exists but is not what the layout expects.
func NewInvalidLayoutError(path, reason string) error {
	return newKindError(ErrInvalidLayout, nil, "%q %s", path, reason)
}

// NewIOError wraps a failure to open or read path.
func NewIOError(path string, cause error) error {
	return newKindError(ErrIO, cause, "reading %q", path)
}

// NewMalformedError is used when content cannot be interpreted. cause may be nil.
func NewMalformedError(cause error, format string, args ...interface{}) error {
	return newKindError(ErrMalformed, cause, format, args...)
}

// NewOutOfRangeError is used when a value does not fit its target type.
func NewOutOfRangeError(what string, value interface{}, target string) error {
	return newKindError(ErrOutOfRange, nil, "%s value %v does not fit in %s", what, value, target)
}
