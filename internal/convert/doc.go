// Package convert implements the stress/virial conversion with its fixed
// sign convention.
//
// The convention is a design invariant, not a runtime parameter:
//
//	stress = (-1/volume) * virial
//	virial = -volume * stress
//
// Both directions are exact algebraic inverses for any finite tensor and
// positive volume. The converter performs no unit conversion and never
// inspects units: the caller must already hold stress in energy/length³ and
// virial in energy terms consistent with the rest of the pipeline.
//
// All functions here are pure and stateless; they are safe to call from any
// number of goroutines without synchronization.
package convert
