package model

import (
	"fmt"
	"log/slog"

	"github.com/ferrite-md/ferrite/internal/atomdata"
)

// RescaleThreshold is the smallest accepted global scale. A scale this low
// almost always means the dataset statistics it was derived from had no
// variation, and multiplying outputs by it would flush them toward zero.
const RescaleThreshold = 1e-6

// Rescale multiplies selected model outputs by a global scale.
//
// It runs after ToFull, so scaling always happens in data precision; a
// working-precision model cannot lose output range to a float32 multiply.
type Rescale struct {
	scale float64
	keys  []string
}

// NewRescale validates the scale and key set.
//
// A scale below RescaleThreshold is rejected. An empty key set is accepted
// but warned about, since a rescale stage that touches nothing is almost
// certainly a configuration mistake.
func NewRescale(scale float64, keys []string, logger *slog.Logger) (*Rescale, error) {
	if scale < RescaleThreshold {
		return nil, fmt.Errorf("global output scale %g below threshold %g: dataset statistics may lack variation; disable rescaling instead", scale, RescaleThreshold)
	}
	if len(keys) == 0 {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("rescale stage configured with no output keys; it will have no effect")
	}
	return &Rescale{scale: scale, keys: keys}, nil
}

// Scale returns the global scale factor.
func (r *Rescale) Scale() float64 { return r.scale }

// Keys returns the output keys the stage scales.
func (r *Rescale) Keys() []string { return r.keys }

// Apply returns outputs with the selected keys scaled. Keys absent from the
// output map are skipped; the input map is not mutated.
func (r *Rescale) Apply(out atomdata.Data) atomdata.Data {
	scaled := make(atomdata.Data, len(out))
	for k, q := range out {
		scaled[k] = q.Clone()
	}
	for _, k := range r.keys {
		q, ok := scaled[k]
		if !ok {
			continue
		}
		for i := 0; i < q.Len(); i++ {
			q.Set(i, r.scale*q.At(i))
		}
	}
	return scaled
}
