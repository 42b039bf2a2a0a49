package atomdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ferrite-md/ferrite/internal/quantity"
)

// SaveFrames writes frames back to a YAML dataset file. The layout matches
// what LoadFrames reads, so converted datasets round-trip.
func SaveFrames(path string, frames []*Frame) error {
	if len(frames) == 0 {
		return fmt.Errorf("refusing to write an empty dataset")
	}

	doc := datasetYAML{Frames: make([]frameYAML, 0, len(frames))}
	for i, f := range frames {
		fy, err := frameToYAML(f)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		doc.Frames = append(doc.Frames, fy)
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

func frameToYAML(f *Frame) (frameYAML, error) {
	n := f.NumAtoms()
	fy := frameYAML{AtomicNumbers: append([]int(nil), f.AtomicNumbers...)}

	var err error
	fy.Positions, err = quantityToRows(f.Positions, n, 3, "positions")
	if err != nil {
		return frameYAML{}, err
	}
	if f.Cell != nil {
		fy.Cell, err = quantityToRows(f.Cell, 3, 3, "cell")
		if err != nil {
			return frameYAML{}, err
		}
	}
	if f.Energy != nil {
		if f.Energy.Len() != 1 {
			return frameYAML{}, fmt.Errorf("energy: want scalar, got shape %v", f.Energy.Shape())
		}
		e := f.Energy.At(0)
		fy.Energy = &e
	}
	if f.Forces != nil {
		fy.Forces, err = quantityToRows(f.Forces, n, 3, "forces")
		if err != nil {
			return frameYAML{}, err
		}
	}
	if f.Stress != nil {
		fy.Stress, err = quantityToRows(f.Stress, 3, 3, "stress")
		if err != nil {
			return frameYAML{}, err
		}
	}
	if f.Virial != nil {
		fy.Virial, err = quantityToRows(f.Virial, 3, 3, "virial")
		if err != nil {
			return frameYAML{}, err
		}
	}
	return fy, nil
}

func quantityToRows(q *quantity.Quantity, wantRows, wantCols int, what string) ([][]float64, error) {
	if q.Len() != wantRows*wantCols {
		return nil, fmt.Errorf("%s: %d values, want %dx%d", what, q.Len(), wantRows, wantCols)
	}
	rows := make([][]float64, wantRows)
	for r := 0; r < wantRows; r++ {
		row := make([]float64, wantCols)
		for c := 0; c < wantCols; c++ {
			row[c] = q.At(r*wantCols + c)
		}
		rows[r] = row
	}
	return rows, nil
}
