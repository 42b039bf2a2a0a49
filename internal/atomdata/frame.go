package atomdata

import (
	"fmt"

	"github.com/ferrite-md/ferrite/internal/convert"
	"github.com/ferrite-md/ferrite/internal/quantity"
)

// Data is a map of named tensors crossing the model boundary.
//
// Using a plain map of quantities rather than a wrapper object keeps the
// boundary transparent: the precision pipeline can iterate every tensor that
// will enter or leave the model without special cases.
type Data map[string]*quantity.Quantity

// Clone returns a shallow map copy with deep-copied quantities.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}

// Frame is one atomic structure with optional reference labels.
//
// All quantities are Float64; see the package doc. AtomicNumbers is kept as
// a plain int slice because it is categorical, never cast, and never enters
// floating-point arithmetic.
type Frame struct {
	Positions     *quantity.Quantity // [n_atoms, 3], Length
	Cell          *quantity.Quantity // [3, 3], Length; nil if non-periodic
	AtomicNumbers []int

	// Reference labels; any may be nil when the dataset lacks them.
	Energy *quantity.Quantity // [1], Energy
	Forces *quantity.Quantity // [n_atoms, 3], Force
	Stress *quantity.Quantity // [3, 3], Stress
	Virial *quantity.Quantity // [3, 3], Virial
}

// NumAtoms returns the number of atoms in the frame.
func (f *Frame) NumAtoms() int {
	if f.Positions == nil {
		return 0
	}
	return f.Positions.Shape()[0]
}

// Volume returns the periodic cell volume.
func (f *Frame) Volume() (float64, error) {
	if f.Cell == nil {
		return 0, fmt.Errorf("frame has no periodic cell")
	}
	return convert.CellVolume(f.Cell)
}

// Inputs returns the model-input Data for the frame: geometry only, labels
// excluded. Quantities are copied so the model can never mutate the frame.
func (f *Frame) Inputs() Data {
	in := Data{KeyPositions: f.Positions.Clone()}
	if f.Cell != nil {
		in[KeyCell] = f.Cell.Clone()
	}
	return in
}

// Labels returns the reference labels present on the frame as Data.
func (f *Frame) Labels() Data {
	out := Data{}
	if f.Energy != nil {
		out[KeyEnergy] = f.Energy.Clone()
	}
	if f.Forces != nil {
		out[KeyForces] = f.Forces.Clone()
	}
	if f.Stress != nil {
		out[KeyStress] = f.Stress.Clone()
	}
	if f.Virial != nil {
		out[KeyVirial] = f.Virial.Clone()
	}
	return out
}
