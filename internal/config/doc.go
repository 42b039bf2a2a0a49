// Package config loads and validates ferrite run configuration.
//
// Configs are YAML files validated against an embedded CUE schema before any
// model or process state is built. Validation is fail-fast: an invalid
// model_dtype or an out-of-range hyperparameter is a construction-time error
// with a CUE-positioned message, never a deferred runtime failure.
package config
