package model

import (
	"fmt"
	"math"

	"github.com/ferrite-md/ferrite/internal/atomdata"
	"github.com/ferrite-md/ferrite/internal/quantity"
)

// Weight names for PairPotential parameters.
const (
	WeightPairAmplitude = "pair.amplitude"
	WeightPairDecay     = "pair.decay"
	WeightPairCutoff    = "pair.cutoff"
)

// PairPotential is a smooth repulsive pair interaction:
//
//	E = A * sum_{i<j} g(r_ij),  g(r) = exp(-r/rho) * fc(r)
//
// with the polynomial cutoff fc(r) = (1 - (r/rc)²)² for r < rc and 0 beyond.
// Energy, forces, and the virial are analytic, which makes it a useful
// reference model: every output the precision pipeline and the stress
// converter handle is produced by real arithmetic.
//
// The embedding stage computes the per-atom descriptor e_i = sum_j g(r_ij);
// the forward stage reads the (possibly downcast) descriptor for the energy
// and recomputes pair derivatives for forces and virial.
type PairPotential struct {
	amplitude float64 // A, energy units
	decay     float64 // rho, length units
	cutoff    float64 // rc, length units
}

// NewPairPotential validates the parameters.
func NewPairPotential(amplitude, decay, cutoff float64) (*PairPotential, error) {
	if decay <= 0 {
		return nil, fmt.Errorf("pair decay length must be positive, got %g", decay)
	}
	if cutoff <= 0 {
		return nil, fmt.Errorf("pair cutoff must be positive, got %g", cutoff)
	}
	return &PairPotential{amplitude: amplitude, decay: decay, cutoff: cutoff}, nil
}

// PairPotentialFromWeights reconstructs the module from exported weights.
func PairPotentialFromWeights(weights map[string]*quantity.Quantity) (*PairPotential, error) {
	get := func(name string) (float64, error) {
		q, ok := weights[name]
		if !ok {
			return 0, fmt.Errorf("missing weight %q", name)
		}
		if q.Len() != 1 {
			return 0, fmt.Errorf("weight %q: want scalar, got shape %v", name, q.Shape())
		}
		return q.At(0), nil
	}
	a, err := get(WeightPairAmplitude)
	if err != nil {
		return nil, err
	}
	rho, err := get(WeightPairDecay)
	if err != nil {
		return nil, err
	}
	rc, err := get(WeightPairCutoff)
	if err != nil {
		return nil, err
	}
	return NewPairPotential(a, rho, rc)
}

// Name implements Module.
func (p *PairPotential) Name() string { return "pair_exp" }

// Weights implements Module. Parameters are exported at full precision;
// the working copy a mixed-precision pass sees is derived, never stored.
func (p *PairPotential) Weights() map[string]*quantity.Quantity {
	scalar := func(kind quantity.Kind, v float64) *quantity.Quantity {
		q := quantity.New(kind, quantity.Float64, 1)
		q.Set(0, v)
		return q
	}
	return map[string]*quantity.Quantity{
		WeightPairAmplitude: scalar(quantity.Energy, p.amplitude),
		WeightPairDecay:     scalar(quantity.Length, p.decay),
		WeightPairCutoff:    scalar(quantity.Length, p.cutoff),
	}
}

// Embed implements Module: per-atom descriptor at full precision.
func (p *PairPotential) Embed(data atomdata.Data) (atomdata.Data, error) {
	geo, err := p.geometry(data)
	if err != nil {
		return nil, err
	}
	n := geo.n
	embed := quantity.New(quantity.Dimensionless, quantity.Float64, n, 1)
	for i := 0; i < n; i++ {
		var e float64
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			_, r := geo.displacement(i, j)
			if r < p.cutoff {
				e += p.g(r)
			}
		}
		embed.Set(i, e)
	}
	return atomdata.Data{atomdata.KeyNodeEmbedding: embed}, nil
}

// Forward implements Module.
func (p *PairPotential) Forward(data atomdata.Data) (atomdata.Data, error) {
	geo, err := p.geometry(data)
	if err != nil {
		return nil, err
	}
	embed, ok := data[atomdata.KeyNodeEmbedding]
	if !ok {
		return nil, fmt.Errorf("forward requires %s", atomdata.KeyNodeEmbedding)
	}
	n := geo.n
	if embed.Len() != n {
		return nil, fmt.Errorf("embedding has %d entries for %d atoms", embed.Len(), n)
	}
	dtype := data[atomdata.KeyPositions].Dtype()

	// E = (A/2) * sum_i e_i; the half undoes the double count in e_i.
	energy := quantity.New(quantity.Energy, dtype, 1)
	var e float64
	for i := 0; i < n; i++ {
		e += embed.At(i)
	}
	energy.Set(0, 0.5*p.amplitude*e)

	forces := quantity.New(quantity.Force, dtype, n, 3)
	virial := quantity.New(quantity.Virial, dtype, 3, 3)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			d, r := geo.displacement(i, j)
			if r >= p.cutoff {
				continue
			}
			// Force on i from j along +d; gp < 0 for this repulsive form.
			gp := p.amplitude * p.gprime(r)
			for a := 0; a < 3; a++ {
				f := -gp * d[a] / r
				forces.Set(i*3+a, forces.At(i*3+a)+f)
				if i < j {
					// Pair virial: W += d (x) F_ij, summed once per pair.
					for b := 0; b < 3; b++ {
						idx := a*3 + b
						virial.Set(idx, virial.At(idx)+d[a]*(-gp*d[b]/r))
					}
				}
			}
		}
	}

	out := atomdata.Data{
		atomdata.KeyEnergy: energy,
		atomdata.KeyForces: forces,
	}
	if geo.periodic {
		out[atomdata.KeyVirial] = virial
	}
	return out, nil
}

func (p *PairPotential) g(r float64) float64 {
	return math.Exp(-r/p.decay) * p.fc(r)
}

func (p *PairPotential) gprime(r float64) float64 {
	ex := math.Exp(-r / p.decay)
	return ex * (p.fcPrime(r) - p.fc(r)/p.decay)
}

func (p *PairPotential) fc(r float64) float64 {
	x := r / p.cutoff
	t := 1 - x*x
	return t * t
}

func (p *PairPotential) fcPrime(r float64) float64 {
	x := r / p.cutoff
	return -4 * r / (p.cutoff * p.cutoff) * (1 - x*x)
}

// geometry caches positions and the minimum-image machinery for one pass.
type geometry struct {
	n        int
	pos      *quantity.Quantity
	periodic bool
	cell     [9]float64
	cellInv  [9]float64
}

func (p *PairPotential) geometry(data atomdata.Data) (*geometry, error) {
	pos, ok := data[atomdata.KeyPositions]
	if !ok {
		return nil, fmt.Errorf("missing %s", atomdata.KeyPositions)
	}
	shape := pos.Shape()
	if len(shape) != 2 || shape[1] != 3 {
		return nil, fmt.Errorf("positions must have shape [n 3], got %v", shape)
	}
	geo := &geometry{n: shape[0], pos: pos}
	if cell, ok := data[atomdata.KeyCell]; ok {
		copy(geo.cell[:], cell.Data())
		inv, err := invert3(geo.cell)
		if err != nil {
			return nil, fmt.Errorf("cell: %w", err)
		}
		geo.cellInv = inv
		geo.periodic = true
	}
	return geo, nil
}

// displacement returns the minimum-image vector from atom j to atom i and
// its length. Assumes the cutoff is below half the shortest cell extent, as
// usual for minimum-image convention.
func (g *geometry) displacement(i, j int) ([3]float64, float64) {
	var d [3]float64
	for a := 0; a < 3; a++ {
		d[a] = g.pos.At(i*3+a) - g.pos.At(j*3+a)
	}
	if g.periodic {
		// Wrap in fractional coordinates (cell rows are lattice vectors).
		var s [3]float64
		for a := 0; a < 3; a++ {
			s[a] = d[0]*g.cellInv[a] + d[1]*g.cellInv[3+a] + d[2]*g.cellInv[6+a]
			s[a] -= math.Round(s[a])
		}
		for a := 0; a < 3; a++ {
			d[a] = s[0]*g.cell[a] + s[1]*g.cell[3+a] + s[2]*g.cell[6+a]
		}
	}
	r := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
	return d, r
}

// invert3 inverts a row-major 3x3 matrix.
func invert3(m [9]float64) ([9]float64, error) {
	det := m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
	if det == 0 {
		return [9]float64{}, fmt.Errorf("singular cell matrix")
	}
	inv := [9]float64{
		m[4]*m[8] - m[5]*m[7], m[2]*m[7] - m[1]*m[8], m[1]*m[5] - m[2]*m[4],
		m[5]*m[6] - m[3]*m[8], m[0]*m[8] - m[2]*m[6], m[2]*m[3] - m[0]*m[5],
		m[3]*m[7] - m[4]*m[6], m[1]*m[6] - m[0]*m[7], m[0]*m[4] - m[1]*m[3],
	}
	for i := range inv {
		inv[i] /= det
	}
	return inv, nil
}
