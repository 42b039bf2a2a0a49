// Package atomdata defines the atomic-structure data model and the dataset
// transform boundary.
//
// A Frame is one atomic structure with its reference labels. Frames always
// hold full-precision (Float64) quantities: reference data never runs at the
// model's working precision. The precision pipeline, not this package, is
// responsible for any downcasting at the model boundary.
//
// Model input/output tensors travel as a Data map keyed by the well-known
// field names in keys.go, mirroring the frame fields plus the intermediate
// embedding fields produced inside a model.
//
// Transforms are stateless per-frame rewrites applied at load time. The
// stress/virial transforms are thin pass-throughs into the convert package
// for datasets that store one quantity but need the other.
package atomdata
