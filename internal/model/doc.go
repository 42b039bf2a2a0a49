// Package model defines the model boundary: the seam between the precision
// pipeline and an architecture's internal layers.
//
// The architecture itself is an external collaborator behind the Module
// interface. GraphModel is the top-level wrapper that owns the precision
// policy and enforces the casting protocol around any Module:
//
//	inputs -> ToWorking -> Embed (full precision) -> post-embedding cast
//	       -> Forward (working precision) -> ToFull -> outputs
//
// Callers on the loss/metric side therefore always see Float64, and a
// Module never sees tensors it could mutate in the caller.
//
// PairPotential is a minimal, analytically differentiable pairwise-energy
// module. It exists so the boundary, the export path, and the tests have a
// real model to push through without pulling network architecture in scope.
package model
