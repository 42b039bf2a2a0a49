package quantity

import (
	"fmt"
	"math"
	"slices"
)

// Quantity is a dense tensor tagged with a physical Kind and a Dtype.
//
// Storage is always []float64 in row-major order. The Dtype tag governs the
// values the storage may hold: a Float32-tagged quantity contains only values
// exactly representable in IEEE float32 (enforced by AsDtype on downcast).
//
// Quantities are not thread-safe for concurrent mutation, but all casting
// operations return fresh quantities and never alias the input storage, so
// read-only sharing across goroutines is safe.
type Quantity struct {
	kind  Kind
	dtype Dtype
	shape []int
	data  []float64
}

// New creates a zero-filled quantity with the given kind, dtype, and shape.
// Panics if dtype is not a recognized precision level; dtype validity is a
// construction-time concern and callers obtain dtypes from validated config.
func New(kind Kind, dtype Dtype, shape ...int) *Quantity {
	if !dtype.Valid() {
		panic(fmt.Sprintf("quantity.New: invalid dtype %s", dtype))
	}
	n := 1
	for _, dim := range shape {
		if dim < 0 {
			panic(fmt.Sprintf("quantity.New: negative dimension %d", dim))
		}
		n *= dim
	}
	return &Quantity{
		kind:  kind,
		dtype: dtype,
		shape: slices.Clone(shape),
		data:  make([]float64, n),
	}
}

// FromSlice creates a quantity that adopts vals as its backing storage.
// The length of vals must equal the product of shape.
func FromSlice(kind Kind, dtype Dtype, vals []float64, shape ...int) (*Quantity, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("quantity.FromSlice: invalid dtype %s", dtype)
	}
	n := 1
	for _, dim := range shape {
		n *= dim
	}
	if len(vals) != n {
		return nil, fmt.Errorf("quantity.FromSlice: %d values for shape %v (want %d)", len(vals), shape, n)
	}
	q := &Quantity{kind: kind, dtype: dtype, shape: slices.Clone(shape), data: vals}
	if dtype == Float32 {
		// Keep the storage invariant: Float32-tagged values are float32-exact.
		for i, v := range q.data {
			q.data[i] = float64(float32(v))
		}
	}
	return q, nil
}

// Kind returns the physical dimension tag.
func (q *Quantity) Kind() Kind { return q.kind }

// Dtype returns the precision tag.
func (q *Quantity) Dtype() Dtype { return q.dtype }

// Shape returns the tensor dimensions. The returned slice must not be mutated.
func (q *Quantity) Shape() []int { return q.shape }

// Len returns the total number of elements.
func (q *Quantity) Len() int { return len(q.data) }

// Data returns the backing storage. The returned slice must not be resized;
// mutating elements of a Float32-tagged quantity must preserve float32
// exactness (use Set).
func (q *Quantity) Data() []float64 { return q.data }

// At returns the i-th element in row-major order.
func (q *Quantity) At(i int) float64 { return q.data[i] }

// Set stores v at index i, rounding to the quantity's dtype.
func (q *Quantity) Set(i int, v float64) { q.data[i] = q.dtype.Round(v) }

// Clone returns a deep copy sharing no storage with q.
func (q *Quantity) Clone() *Quantity {
	return &Quantity{
		kind:  q.kind,
		dtype: q.dtype,
		shape: slices.Clone(q.shape),
		data:  slices.Clone(q.data),
	}
}

// AsDtype returns a copy of q at the target precision.
//
// Downcasting to Float32 rounds every element through IEEE float32.
// Upcasting to Float64 re-tags without changing values: information lost by
// an earlier downcast is not recoverable. The identity cast still copies, so
// the result never aliases q.
func (q *Quantity) AsDtype(target Dtype) *Quantity {
	if !target.Valid() {
		panic(fmt.Sprintf("quantity.AsDtype: invalid dtype %s", target))
	}
	out := q.Clone()
	out.dtype = target
	if target == Float32 && q.dtype == Float64 {
		for i, v := range out.data {
			out.data[i] = float64(float32(v))
		}
	}
	return out
}

// AllClose reports whether q and other have identical shape and elementwise
// values within atol. Kind and Dtype tags are not compared.
func (q *Quantity) AllClose(other *Quantity, atol float64) bool {
	if !slices.Equal(q.shape, other.shape) {
		return false
	}
	for i, v := range q.data {
		if math.Abs(v-other.data[i]) > atol {
			return false
		}
	}
	return true
}

// String returns a short diagnostic description, not the element values.
func (q *Quantity) String() string {
	return fmt.Sprintf("Quantity(kind=%s, dtype=%s, shape=%v)", q.kind, q.dtype, q.shape)
}
