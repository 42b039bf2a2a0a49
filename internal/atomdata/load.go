package atomdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ferrite-md/ferrite/internal/quantity"
)

// frameYAML is the on-disk representation of one frame.
//
// Units are whatever the user's unit system says they are; loading performs
// no conversion and no validation beyond shapes (see the quantity package
// doc for the unit contract).
type frameYAML struct {
	Positions     [][]float64 `yaml:"positions"`
	Cell          [][]float64 `yaml:"cell,omitempty"`
	AtomicNumbers []int       `yaml:"atomic_numbers"`
	Energy        *float64    `yaml:"energy,omitempty"`
	Forces        [][]float64 `yaml:"forces,omitempty"`
	Stress        [][]float64 `yaml:"stress,omitempty"`
	Virial        [][]float64 `yaml:"virial,omitempty"`
}

type datasetYAML struct {
	Frames []frameYAML `yaml:"frames"`
}

// LoadFrames reads a YAML dataset file and returns its frames at full
// precision. Errors name the zero-based frame index that caused them so a
// bad structure in a large dataset is attributable.
func LoadFrames(path string) ([]*Frame, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var doc datasetYAML
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if len(doc.Frames) == 0 {
		return nil, fmt.Errorf("dataset %s contains no frames", path)
	}

	frames := make([]*Frame, 0, len(doc.Frames))
	for i, fy := range doc.Frames {
		f, err := frameFromYAML(fy)
		if err != nil {
			return nil, fmt.Errorf("dataset %s frame %d: %w", path, i, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func frameFromYAML(fy frameYAML) (*Frame, error) {
	n := len(fy.Positions)
	if n == 0 {
		return nil, fmt.Errorf("frame has no positions")
	}
	if len(fy.AtomicNumbers) != n {
		return nil, fmt.Errorf("%d atomic numbers for %d atoms", len(fy.AtomicNumbers), n)
	}

	f := &Frame{AtomicNumbers: append([]int(nil), fy.AtomicNumbers...)}

	var err error
	f.Positions, err = rowsToQuantity(quantity.Length, fy.Positions, n, 3, "positions")
	if err != nil {
		return nil, err
	}
	if fy.Cell != nil {
		f.Cell, err = rowsToQuantity(quantity.Length, fy.Cell, 3, 3, "cell")
		if err != nil {
			return nil, err
		}
	}
	if fy.Energy != nil {
		f.Energy, err = quantity.FromSlice(quantity.Energy, quantity.Float64, []float64{*fy.Energy}, 1)
		if err != nil {
			return nil, err
		}
	}
	if fy.Forces != nil {
		f.Forces, err = rowsToQuantity(quantity.Force, fy.Forces, n, 3, "forces")
		if err != nil {
			return nil, err
		}
	}
	if fy.Stress != nil {
		f.Stress, err = rowsToQuantity(quantity.Stress, fy.Stress, 3, 3, "stress")
		if err != nil {
			return nil, err
		}
	}
	if fy.Virial != nil {
		f.Virial, err = rowsToQuantity(quantity.Virial, fy.Virial, 3, 3, "virial")
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

func rowsToQuantity(kind quantity.Kind, rows [][]float64, wantRows, wantCols int, what string) (*quantity.Quantity, error) {
	if len(rows) != wantRows {
		return nil, fmt.Errorf("%s: %d rows, want %d", what, len(rows), wantRows)
	}
	flat := make([]float64, 0, wantRows*wantCols)
	for r, row := range rows {
		if len(row) != wantCols {
			return nil, fmt.Errorf("%s row %d: %d columns, want %d", what, r, len(row), wantCols)
		}
		flat = append(flat, row...)
	}
	return quantity.FromSlice(kind, quantity.Float64, flat, wantRows, wantCols)
}
