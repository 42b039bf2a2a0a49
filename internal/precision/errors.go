package precision

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid precision configuration.
//
// It is raised at model-construction time and is fatal: there is no default
// dtype to fall back to, because silently choosing a precision would defeat
// the explicit-hyperparameter design. Nothing may run a forward pass after
// seeing this error.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeInvalidModelDtype indicates model_dtype is not one of the two
	// recognized precision levels.
	ErrCodeInvalidModelDtype ConfigErrorCode = "INVALID_MODEL_DTYPE"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
