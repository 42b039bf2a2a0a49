package convert

import (
	"math"
	"slices"

	"github.com/ferrite-md/ferrite/internal/quantity"
)

// SignConventionTag names the fixed sign convention. It is embedded in every
// deployed artifact manifest so an artifact is self-describing about which
// convention its stress outputs follow.
const SignConventionTag = "stress=-virial/volume"

var tensorShape = []int{3, 3}

// StressFromVirial returns (-1/volume) * virial.
//
// virial must be a 3x3 quantity; volume must be positive and finite.
// The result keeps the input dtype and is tagged quantity.Stress.
func StressFromVirial(virial *quantity.Quantity, volume float64) (*quantity.Quantity, error) {
	if err := checkVolume(volume); err != nil {
		return nil, err
	}
	if !slices.Equal(virial.Shape(), tensorShape) {
		return nil, newShapeError("virial", virial.Shape())
	}
	out := quantity.New(quantity.Stress, virial.Dtype(), 3, 3)
	inv := -1.0 / volume
	for i := 0; i < 9; i++ {
		out.Set(i, inv*virial.At(i))
	}
	return out, nil
}

// VirialFromStress returns -volume * stress, the exact inverse of
// StressFromVirial at the same volume.
func VirialFromStress(stress *quantity.Quantity, volume float64) (*quantity.Quantity, error) {
	if err := checkVolume(volume); err != nil {
		return nil, err
	}
	if !slices.Equal(stress.Shape(), tensorShape) {
		return nil, newShapeError("stress", stress.Shape())
	}
	out := quantity.New(quantity.Virial, stress.Dtype(), 3, 3)
	for i := 0; i < 9; i++ {
		out.Set(i, -volume*stress.At(i))
	}
	return out, nil
}

// CellVolume returns the volume of a periodic cell given as a 3x3 quantity
// with the three cell vectors as rows. The value is the determinant; a
// left-handed cell yields a negative volume, which the conversions reject.
func CellVolume(cell *quantity.Quantity) (float64, error) {
	if !slices.Equal(cell.Shape(), tensorShape) {
		return 0, newShapeError("cell", cell.Shape())
	}
	d := cell.Data()
	// det of row-major 3x3
	return d[0]*(d[4]*d[8]-d[5]*d[7]) -
		d[1]*(d[3]*d[8]-d[5]*d[6]) +
		d[2]*(d[3]*d[7]-d[4]*d[6]), nil
}

func checkVolume(volume float64) error {
	if !(volume > 0) || math.IsInf(volume, 1) || math.IsNaN(volume) {
		return newVolumeError(volume)
	}
	return nil
}
