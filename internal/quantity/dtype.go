package quantity

import "fmt"

// Dtype identifies a floating-point precision level.
//
// Only two levels exist: Float64 (full/data precision) and Float32 (working
// precision). There is deliberately no Float16 and no "auto" value - the
// model precision is an explicit hyperparameter, never inferred.
type Dtype uint8

const (
	// DtypeInvalid is the zero value. It is never a legal precision level;
	// constructors reject it so misconfiguration fails before any compute.
	DtypeInvalid Dtype = iota

	// Float64 is the full (data) precision. Reference labels, geometry, and
	// all loss/metric inputs are Float64.
	Float64

	// Float32 is the working precision a model may use internally.
	Float32
)

// String returns the canonical lower-case name of the dtype.
func (d Dtype) String() string {
	switch d {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(d))
	}
}

// Valid reports whether d is one of the two recognized precision levels.
func (d Dtype) Valid() bool {
	return d == Float64 || d == Float32
}

// DtypeFromName parses a canonical dtype name ("float64" or "float32").
// Unknown names return DtypeInvalid and an error; callers must treat that
// as a configuration failure, not pick a default.
func DtypeFromName(name string) (Dtype, error) {
	switch name {
	case "float64":
		return Float64, nil
	case "float32":
		return Float32, nil
	default:
		return DtypeInvalid, fmt.Errorf("unknown dtype %q: must be \"float64\" or \"float32\"", name)
	}
}

// Round returns v represented at precision d. For Float64 this is the
// identity; for Float32 the value is rounded through IEEE float32.
func (d Dtype) Round(v float64) float64 {
	if d == Float32 {
		return float64(float32(v))
	}
	return v
}
