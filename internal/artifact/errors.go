package artifact

import (
	"errors"
	"fmt"
)

// FormatError reports a structurally invalid or corrupted artifact file.
//
// Loading stops on the first format error: a model whose manifest cannot be
// trusted must not run, since the whole point of the artifact is numerical
// reproducibility.
type FormatError struct {
	// Code identifies the error category.
	Code FormatErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the artifact file, when known.
	Path string
}

// FormatErrorCode categorizes artifact format errors.
type FormatErrorCode string

const (
	// ErrCodeMissingManifest indicates the manifest row is absent.
	ErrCodeMissingManifest FormatErrorCode = "MISSING_MANIFEST"

	// ErrCodeDigestMismatch indicates the manifest body does not hash to
	// the stored digest.
	ErrCodeDigestMismatch FormatErrorCode = "DIGEST_MISMATCH"

	// ErrCodeBadManifest indicates the manifest body cannot be parsed or
	// names an unsupported format version.
	ErrCodeBadManifest FormatErrorCode = "BAD_MANIFEST"

	// ErrCodeBadWeights indicates a weight row that is inconsistent with
	// its declared shape or dtype.
	ErrCodeBadWeights FormatErrorCode = "BAD_WEIGHTS"
)

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (artifact=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsFormatError reports whether err is (or wraps) a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
