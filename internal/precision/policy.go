package precision

import (
	"fmt"

	"github.com/ferrite-md/ferrite/internal/quantity"
)

// Policy pairs the data dtype with the model dtype.
//
// DataDtype is always Float64; ModelDtype is the user-declared working
// precision. A Policy is attached once per model at construction and is
// immutable afterward (both fields are unexported; there are no setters).
// The casting pipeline reads it on every forward pass.
type Policy struct {
	dataDtype  quantity.Dtype
	modelDtype quantity.Dtype
}

// NewPolicy validates modelDtype and returns the policy.
//
// Fails fast with a ConfigError if modelDtype is not Float32 or Float64.
// This is the single validation point: by the time a Pipeline exists, the
// dtype is known-good, so no forward pass can fail on precision config.
func NewPolicy(modelDtype quantity.Dtype) (Policy, error) {
	if !modelDtype.Valid() {
		return Policy{}, &ConfigError{
			Code:    ErrCodeInvalidModelDtype,
			Message: fmt.Sprintf("model_dtype must be float32 or float64, got %s", modelDtype),
		}
	}
	return Policy{dataDtype: quantity.Float64, modelDtype: modelDtype}, nil
}

// NewPolicyFromName is NewPolicy for a config-supplied dtype name.
func NewPolicyFromName(name string) (Policy, error) {
	d, err := quantity.DtypeFromName(name)
	if err != nil {
		return Policy{}, &ConfigError{
			Code:    ErrCodeInvalidModelDtype,
			Message: err.Error(),
		}
	}
	return NewPolicy(d)
}

// DataDtype returns the full (data) precision, always Float64.
func (p Policy) DataDtype() quantity.Dtype { return p.dataDtype }

// ModelDtype returns the model's working precision.
func (p Policy) ModelDtype() quantity.Dtype { return p.modelDtype }

// Mixed reports whether the model runs below data precision.
func (p Policy) Mixed() bool { return p.modelDtype != p.dataDtype }
