package globalopts

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ferrite-md/ferrite/internal/quantity"
)

// Option names, as stored in snapshots and artifact manifests.
const (
	OptDefaultDtype  = "default_dtype"
	OptDeterministic = "deterministic"
	OptTensorBackend = "tensor_backend"
	OptSeed          = "seed"
)

// Options is the full set of framework-owned global options.
type Options struct {
	// DefaultDtype is the precision for tensors created outside the explicit
	// precision pipeline. Data precision (Float64) by default.
	DefaultDtype quantity.Dtype

	// Deterministic forces deterministic tensor-op algorithms.
	Deterministic bool

	// TensorBackend selects the equivariant tensor-op implementation.
	TensorBackend string

	// Seed is the process RNG seed consumed by training code.
	Seed int64
}

// Defaults returns the framework defaults. "Customized" in conflict
// detection means differing from these values.
func Defaults() Options {
	return Options{
		DefaultDtype:  quantity.Float64,
		Deterministic: false,
		TensorBackend: "reference",
		Seed:          0,
	}
}

// Snapshot is an immutable capture of Options, taken at export time and
// embedded in the deployed artifact.
type Snapshot struct {
	opts Options
}

// Options returns the captured option values.
func (s Snapshot) Options() Options { return s.opts }

// Equal reports whether two snapshots capture identical values.
func (s Snapshot) Equal(other Snapshot) bool { return s.opts == other.opts }

// Map returns the snapshot as name -> value for manifest serialization.
// Values are strings, bools, and int64 only; never floats, so the manifest
// stays representable in canonical JSON.
func (s Snapshot) Map() map[string]any {
	return map[string]any{
		OptDefaultDtype:  s.opts.DefaultDtype.String(),
		OptDeterministic: s.opts.Deterministic,
		OptTensorBackend: s.opts.TensorBackend,
		OptSeed:          s.opts.Seed,
	}
}

// StringMap returns the snapshot as name -> string for row storage.
func (s Snapshot) StringMap() map[string]string {
	return map[string]string{
		OptDefaultDtype:  s.opts.DefaultDtype.String(),
		OptDeterministic: strconv.FormatBool(s.opts.Deterministic),
		OptTensorBackend: s.opts.TensorBackend,
		OptSeed:          strconv.FormatInt(s.opts.Seed, 10),
	}
}

// Names returns the option names in sorted order.
func (s Snapshot) Names() []string {
	m := s.StringMap()
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SnapshotFromStringMap reconstructs a snapshot from row storage.
// Unknown names are rejected: an artifact written by a newer ferrite with
// options this build does not understand must not load silently.
func SnapshotFromStringMap(m map[string]string) (Snapshot, error) {
	opts := Defaults()
	for name, val := range m {
		switch name {
		case OptDefaultDtype:
			d, err := quantity.DtypeFromName(val)
			if err != nil {
				return Snapshot{}, fmt.Errorf("option %s: %w", name, err)
			}
			opts.DefaultDtype = d
		case OptDeterministic:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return Snapshot{}, fmt.Errorf("option %s: %w", name, err)
			}
			opts.Deterministic = b
		case OptTensorBackend:
			opts.TensorBackend = val
		case OptSeed:
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return Snapshot{}, fmt.Errorf("option %s: %w", name, err)
			}
			opts.Seed = n
		default:
			return Snapshot{}, fmt.Errorf("unknown global option %q in snapshot", name)
		}
	}
	return Snapshot{opts: opts}, nil
}
