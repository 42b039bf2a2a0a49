package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrite-md/ferrite/internal/atomdata"
	"github.com/ferrite-md/ferrite/internal/precision"
	"github.com/ferrite-md/ferrite/internal/quantity"
)

// probeModule records the dtypes it observes at each stage.
type probeModule struct {
	embedSawPositions quantity.Dtype
	embedReturned     quantity.Dtype
	forwardSawEmbed   quantity.Dtype
	forwardOutDtype   quantity.Dtype
}

func (m *probeModule) Name() string { return "probe" }

func (m *probeModule) Weights() map[string]*quantity.Quantity { return nil }

func (m *probeModule) Embed(data atomdata.Data) (atomdata.Data, error) {
	m.embedSawPositions = data[atomdata.KeyPositions].Dtype()
	embed := quantity.New(quantity.Dimensionless, quantity.Float64, 1, 1)
	embed.Set(0, 1.0/3.0)
	m.embedReturned = embed.Dtype()
	return atomdata.Data{atomdata.KeyNodeEmbedding: embed}, nil
}

func (m *probeModule) Forward(data atomdata.Data) (atomdata.Data, error) {
	embed := data[atomdata.KeyNodeEmbedding]
	m.forwardSawEmbed = embed.Dtype()

	out := quantity.New(quantity.Energy, embed.Dtype(), 1)
	out.Set(0, embed.At(0))
	m.forwardOutDtype = out.Dtype()
	return atomdata.Data{atomdata.KeyEnergy: out}, nil
}

func probeInputs() atomdata.Data {
	pos, _ := quantity.FromSlice(quantity.Length, quantity.Float64, []float64{0, 0, 0}, 1, 3)
	return atomdata.Data{atomdata.KeyPositions: pos}
}

func TestGraphModelMixedPrecisionFlow(t *testing.T) {
	policy, err := precision.NewPolicy(quantity.Float32)
	require.NoError(t, err)
	probe := &probeModule{}
	g := NewGraphModel(probe, policy)

	out, err := g.Forward(probeInputs())
	require.NoError(t, err)

	// Geometry arrives at the embedding stage already downcast.
	assert.Equal(t, quantity.Float32, probe.embedSawPositions)
	// Embedding leaves the embedding stage at full precision...
	assert.Equal(t, quantity.Float64, probe.embedReturned)
	// ...and reaches the next layer at working precision.
	assert.Equal(t, quantity.Float32, probe.forwardSawEmbed)

	// Every output returned to the caller is full precision.
	energy := out[atomdata.KeyEnergy]
	assert.Equal(t, quantity.Float64, energy.Dtype())
	// The value went through the float32 cast point.
	assert.Equal(t, float64(float32(1.0/3.0)), energy.At(0))
}

func TestGraphModelFullPrecisionNoCasts(t *testing.T) {
	policy, err := precision.NewPolicy(quantity.Float64)
	require.NoError(t, err)
	probe := &probeModule{}
	g := NewGraphModel(probe, policy)

	out, err := g.Forward(probeInputs())
	require.NoError(t, err)

	assert.Equal(t, quantity.Float64, probe.embedSawPositions)
	assert.Equal(t, quantity.Float64, probe.forwardSawEmbed)
	assert.Equal(t, 1.0/3.0, out[atomdata.KeyEnergy].At(0), "no rounding anywhere")
}

// badEmbedModule returns its embedding already downcast, violating the
// embedding-stage contract.
type badEmbedModule struct{ probeModule }

func (m *badEmbedModule) Embed(data atomdata.Data) (atomdata.Data, error) {
	embed := quantity.New(quantity.Dimensionless, quantity.Float32, 1, 1)
	return atomdata.Data{atomdata.KeyNodeEmbedding: embed}, nil
}

func TestGraphModelRejectsDowncastEmbedding(t *testing.T) {
	policy, err := precision.NewPolicy(quantity.Float32)
	require.NoError(t, err)
	g := NewGraphModel(&badEmbedModule{}, policy)

	_, err = g.Forward(probeInputs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding field")
}

// strayFieldModule emits a non-embedding key from the embedding stage.
type strayFieldModule struct{ probeModule }

func (m *strayFieldModule) Embed(data atomdata.Data) (atomdata.Data, error) {
	return atomdata.Data{atomdata.KeyForces: quantity.New(quantity.Force, quantity.Float64, 1, 3)}, nil
}

func TestGraphModelRejectsStrayEmbeddingField(t *testing.T) {
	policy, err := precision.NewPolicy(quantity.Float32)
	require.NoError(t, err)
	g := NewGraphModel(&strayFieldModule{}, policy)

	_, err = g.Forward(probeInputs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-embedding field")
}

func TestGraphModelInputNotMutated(t *testing.T) {
	policy, err := precision.NewPolicy(quantity.Float32)
	require.NoError(t, err)
	g := NewGraphModel(&probeModule{}, policy)

	in := probeInputs()
	_, err = g.Forward(in)
	require.NoError(t, err)

	assert.Equal(t, quantity.Float64, in[atomdata.KeyPositions].Dtype())
	assert.NotContains(t, in, atomdata.KeyNodeEmbedding)
}

func TestGraphModelRescaleAppliedInFullPrecision(t *testing.T) {
	policy, err := precision.NewPolicy(quantity.Float32)
	require.NoError(t, err)

	r, err := NewRescale(2.5, []string{atomdata.KeyEnergy}, nil)
	require.NoError(t, err)
	g := NewGraphModel(&probeModule{}, policy).WithRescale(r)

	out, err := g.Forward(probeInputs())
	require.NoError(t, err)

	// float32-rounded model value, then an exact float64 multiply.
	want := 2.5 * float64(float32(1.0/3.0))
	assert.Equal(t, want, out[atomdata.KeyEnergy].At(0))
	assert.Equal(t, quantity.Float64, out[atomdata.KeyEnergy].Dtype())
}
