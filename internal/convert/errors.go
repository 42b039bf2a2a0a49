package convert

import (
	"errors"
	"fmt"
)

// GeometryError reports an invalid periodic cell passed to a conversion.
//
// It is fatal for the conversion call that raised it but recoverable by the
// caller, who may skip the offending structure. FrameIndex lets callers
// attribute the failure to a specific structure; -1 means unknown.
type GeometryError struct {
	// Code identifies the error category.
	Code GeometryErrorCode

	// Message is a human-readable description.
	Message string

	// Volume is the offending cell volume.
	Volume float64

	// FrameIndex identifies the structure within a dataset, or -1.
	FrameIndex int
}

// GeometryErrorCode categorizes geometry errors.
type GeometryErrorCode string

const (
	// ErrCodeNonPositiveVolume indicates a cell volume <= 0 or non-finite.
	// A periodic cell must have a positive determinant.
	ErrCodeNonPositiveVolume GeometryErrorCode = "NONPOSITIVE_VOLUME"

	// ErrCodeBadShape indicates a tensor that is not 3x3.
	ErrCodeBadShape GeometryErrorCode = "BAD_TENSOR_SHAPE"
)

// Error implements the error interface.
func (e *GeometryError) Error() string {
	if e.FrameIndex >= 0 {
		return fmt.Sprintf("%s: %s (frame=%d)", e.Code, e.Message, e.FrameIndex)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsGeometryError reports whether err is (or wraps) a GeometryError.
func IsGeometryError(err error) bool {
	var ge *GeometryError
	return errors.As(err, &ge)
}

// WithFrame returns a copy of the error attributed to frame index i.
func (e *GeometryError) WithFrame(i int) *GeometryError {
	dup := *e
	dup.FrameIndex = i
	return &dup
}

func newVolumeError(volume float64) *GeometryError {
	return &GeometryError{
		Code:       ErrCodeNonPositiveVolume,
		Message:    fmt.Sprintf("cell volume must be positive and finite, got %g", volume),
		Volume:     volume,
		FrameIndex: -1,
	}
}

func newShapeError(what string, shape []int) *GeometryError {
	return &GeometryError{
		Code:       ErrCodeBadShape,
		Message:    fmt.Sprintf("%s must have shape [3 3], got %v", what, shape),
		FrameIndex: -1,
	}
}
