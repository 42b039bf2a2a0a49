// Package artifact reads and writes deployed model artifacts.
//
// An artifact is a single SQLite file composing everything a host needs to
// reproduce the model's numerical behavior, independent of that host's
// prior configuration:
//
//   - the model weights (full precision, opaque to this package's callers)
//   - the precision policy (the model_dtype hyperparameter)
//   - the global-options snapshot captured at export time
//   - the fixed stress/virial sign-convention tag, for self-description
//
// The manifest is stored as canonical JSON (sorted keys, NFC-normalized
// strings, no HTML escaping, no floats) together with its SHA-256 digest,
// so two artifacts with identical content are byte-comparable and a
// corrupted manifest is detected at load time.
//
// Loading applies the embedded snapshot through globalopts before the model
// is returned: by the time a caller can run a forward pass, the process
// options the pass depends on are already in place. Conflicts with options
// the host customized are warned about, never silently overridden, unless
// the caller explicitly suppresses warnings.
//
// Artifacts are written once at export and read-only afterwards; there is
// no in-place update path.
package artifact
