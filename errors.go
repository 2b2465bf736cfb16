package nest

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidPath indicates a path string with an empty segment.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidIndex indicates a segment that does not address a slice element.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrNotContainer indicates a write through a value that cannot hold children.
	ErrNotContainer = errors.New("not a container")

	// ErrTypeMismatch indicates a value that cannot be stored in a typed container.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrCyclicStructure indicates a value graph that references itself.
	ErrCyclicStructure = errors.New("cyclic structure")

	// ErrUnsupportedValue indicates a value with no canonical representation.
	ErrUnsupportedValue = errors.New("unsupported value")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// PathError represents a failed path operation.
// It wraps a sentinel error with the path and the segment that failed.
type PathError struct {
	Err     error  // Underlying sentinel error (ErrInvalidPath, ErrNotContainer, ErrInvalidIndex, ErrTypeMismatch)
	Path    string // Full path as given by the caller
	Segment string // Segment that failed, if any
	Index   int    // Position of Segment within the path, -1 when not applicable
}

func (e *PathError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s at segment %d %q (path %q)", e.Err.Error(), e.Index, e.Segment, e.Path)
	}
	return fmt.Sprintf("%s (path %q)", e.Err.Error(), e.Path)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// Is reports whether the cause matches target, so callers can test for
// ErrCyclicStructure through a marshal failure.
func (e *CodecError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// newPathError creates a PathError for a failed segment.
func newPathError(sentinel error, path string, index int, segment string) error {
	return &PathError{
		Err:     sentinel,
		Path:    path,
		Segment: segment,
		Index:   index,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
