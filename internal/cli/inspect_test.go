package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ferrite-md/ferrite/internal/artifact"
)

func TestRenderManifestGolden(t *testing.T) {
	m := &artifact.Manifest{
		FormatVersion: artifact.FormatVersion,
		ID:            "00000000-0000-0000-0000-00000000beef",
		ModelDtype:    "float32",
		ModelName:     "pair_exp",
		Options: map[string]any{
			"default_dtype":  "float64",
			"deterministic":  false,
			"seed":           int64(0),
			"tensor_backend": "reference",
		},
		SignConvention: "stress=-virial/volume",
		Weights: []artifact.WeightInfo{
			{Dtype: "float64", Name: "pair.amplitude", Shape: []int{1}},
			{Dtype: "float64", Name: "pair.cutoff", Shape: []int{1}},
			{Dtype: "float64", Name: "pair.decay", Shape: []int{1}},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "inspect", []byte(renderManifest(m)))
}
