package atomdata

import (
	"errors"
	"fmt"

	"github.com/ferrite-md/ferrite/internal/convert"
)

// Transform rewrites a frame in place at dataset-load time.
//
// Transforms carry no state; applying one to frame i never depends on any
// other frame. Errors must be attributable to the frame index passed in.
type Transform interface {
	// Name returns the stable name used in configs and logs.
	Name() string

	// Apply rewrites the frame. idx is the frame's dataset index, used only
	// for error attribution.
	Apply(f *Frame, idx int) error
}

// VirialFromStressTransform derives the virial label on frames that carry a
// stress label, using the fixed sign convention. A pass-through into the
// convert package with no additional state.
type VirialFromStressTransform struct{}

// Name implements Transform.
func (VirialFromStressTransform) Name() string { return "virial_from_stress" }

// Apply implements Transform. Frames without a stress label are left
// untouched; frames that already have a virial label are left untouched.
func (VirialFromStressTransform) Apply(f *Frame, idx int) error {
	if f.Stress == nil || f.Virial != nil {
		return nil
	}
	vol, err := f.Volume()
	if err != nil {
		return fmt.Errorf("virial_from_stress frame %d: %w", idx, err)
	}
	virial, err := convert.VirialFromStress(f.Stress, vol)
	if err != nil {
		var ge *convert.GeometryError
		if errors.As(err, &ge) {
			return ge.WithFrame(idx)
		}
		return err
	}
	f.Virial = virial
	return nil
}

// StressFromVirialTransform is the inverse direction: derives the stress
// label on frames that carry a virial label.
type StressFromVirialTransform struct{}

// Name implements Transform.
func (StressFromVirialTransform) Name() string { return "stress_from_virial" }

// Apply implements Transform.
func (StressFromVirialTransform) Apply(f *Frame, idx int) error {
	if f.Virial == nil || f.Stress != nil {
		return nil
	}
	vol, err := f.Volume()
	if err != nil {
		return fmt.Errorf("stress_from_virial frame %d: %w", idx, err)
	}
	stress, err := convert.StressFromVirial(f.Virial, vol)
	if err != nil {
		var ge *convert.GeometryError
		if errors.As(err, &ge) {
			return ge.WithFrame(idx)
		}
		return err
	}
	f.Stress = stress
	return nil
}

// TransformByName resolves a config-supplied transform name.
func TransformByName(name string) (Transform, error) {
	switch name {
	case "virial_from_stress":
		return VirialFromStressTransform{}, nil
	case "stress_from_virial":
		return StressFromVirialTransform{}, nil
	default:
		return nil, fmt.Errorf("unknown transform %q", name)
	}
}

// ApplyTransforms runs each transform over every frame, in order.
func ApplyTransforms(frames []*Frame, transforms ...Transform) error {
	for _, tr := range transforms {
		for i, f := range frames {
			if err := tr.Apply(f, i); err != nil {
				return err
			}
		}
	}
	return nil
}
