// Package quantity provides the foundational tensor types for ferrite.
//
// This package contains type definitions and precision primitives only. All
// other internal packages import quantity; quantity imports nothing internal.
// This ensures it remains the foundational layer with no circular dependencies.
//
// # Precision model
//
// Every Quantity carries a Dtype tag. Float64 is the data (full) precision:
// reference labels, geometry, and all loss/metric inputs live here. Float32 is
// the working precision a model may choose for its internal arithmetic.
//
// Backing storage is always []float64. A downcast to Float32 is not just a
// re-tag: every element is rounded through IEEE float32, so a Float32-tagged
// quantity holds exactly the values float32 arithmetic would see. An upcast
// re-tags without inventing information, matching real widening semantics.
//
// # Unit contract (not enforced)
//
// All physical quantities entering and leaving ferrite must share one
// consistent unit system, chosen by the user. The derived relationships are:
//
//	force  = energy / length
//	stress = virial / length³ = energy / length³
//
// Nothing in this package, or anywhere else in ferrite, validates units.
// A dataset mixing eV with kcal/mol produces wrong-but-unflagged results.
// This is a permanent, documented limitation: catching it would require a
// unit-typed tensor system, which is out of scope. The Kind tag exists for
// readability and debugging, never for automatic verification.
package quantity
