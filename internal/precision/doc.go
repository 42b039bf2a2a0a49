// Package precision governs the dtype of every tensor crossing the model
// boundary.
//
// The policy is simple and asymmetric:
//
//   - Stored data and geometry are always Float64 (data precision).
//   - The model's internal arithmetic runs at the model dtype, a mandatory
//     construction-time hyperparameter (Float32 or Float64, never inferred).
//   - Inputs are downcast at the model's input boundary, except the
//     embedding-stage fields, which stay Float64 through embedding and are
//     downcast only at the named post-embedding cast point.
//   - Every model output is upcast to Float64 before it reaches any loss or
//     metric computation, unconditionally.
//
// Casting is pure: no unit conversion, no mutation of inputs, no shared
// state. The pipeline may be used concurrently from parallel evaluation
// streams without synchronization.
package precision
