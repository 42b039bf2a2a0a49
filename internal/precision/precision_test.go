package precision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrite-md/ferrite/internal/atomdata"
	"github.com/ferrite-md/ferrite/internal/quantity"
)

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy(quantity.Float32)
	require.NoError(t, err)
	assert.Equal(t, quantity.Float64, p.DataDtype())
	assert.Equal(t, quantity.Float32, p.ModelDtype())
	assert.True(t, p.Mixed())

	p, err = NewPolicy(quantity.Float64)
	require.NoError(t, err)
	assert.False(t, p.Mixed())
}

func TestNewPolicyRejectsInvalidDtype(t *testing.T) {
	// Fails at construction, before any forward pass can happen.
	_, err := NewPolicy(quantity.DtypeInvalid)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeInvalidModelDtype, ce.Code)
}

func TestNewPolicyFromName(t *testing.T) {
	p, err := NewPolicyFromName("float32")
	require.NoError(t, err)
	assert.Equal(t, quantity.Float32, p.ModelDtype())

	_, err = NewPolicyFromName("float16")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func inputData() atomdata.Data {
	pos, _ := quantity.FromSlice(quantity.Length, quantity.Float64,
		[]float64{0.1, 0.2, 0.3, 1.0 / 3.0, 0, 0}, 2, 3)
	embed, _ := quantity.FromSlice(quantity.Dimensionless, quantity.Float64,
		[]float64{1.0 / 3.0, 2.0 / 3.0}, 2, 1)
	return atomdata.Data{
		atomdata.KeyPositions:     pos,
		atomdata.KeyNodeEmbedding: embed,
	}
}

func TestToWorkingMixedCastsGeometryNotEmbedding(t *testing.T) {
	policy, err := NewPolicy(quantity.Float32)
	require.NoError(t, err)
	pipe := NewPipeline(policy)

	in := inputData()
	out := pipe.ToWorking(in)

	// Geometry is downcast and rounded.
	pos := out[atomdata.KeyPositions]
	assert.Equal(t, quantity.Float32, pos.Dtype())
	assert.Equal(t, float64(float32(1.0/3.0)), pos.At(3))

	// Embedding field keeps full precision through the embedding stage.
	embed := out[atomdata.KeyNodeEmbedding]
	assert.Equal(t, quantity.Float64, embed.Dtype())
	assert.Equal(t, 1.0/3.0, embed.At(0))

	// Inputs are never mutated.
	assert.Equal(t, quantity.Float64, in[atomdata.KeyPositions].Dtype())
	assert.Equal(t, 1.0/3.0, in[atomdata.KeyPositions].At(3))
}

func TestToWorkingFullPrecisionIsIdentity(t *testing.T) {
	policy, err := NewPolicy(quantity.Float64)
	require.NoError(t, err)
	pipe := NewPipeline(policy)

	in := inputData()
	out := pipe.ToWorking(in)

	for k, q := range out {
		assert.Equal(t, quantity.Float64, q.Dtype(), "field %s", k)
		assert.True(t, q.AllClose(in[k], 0))
		assert.NotSame(t, in[k], q, "identity cast must still copy")
	}
}

func TestCastAfterEmbedding(t *testing.T) {
	policy, err := NewPolicy(quantity.Float32)
	require.NoError(t, err)
	pipe := NewPipeline(policy)

	embed, _ := quantity.FromSlice(quantity.Dimensionless, quantity.Float64,
		[]float64{1.0 / 3.0}, 1)

	// Full precision immediately after embedding...
	assert.Equal(t, quantity.Float64, embed.Dtype())

	// ...working precision immediately before the next layer.
	cast := pipe.CastAfterEmbedding(embed)
	assert.Equal(t, quantity.Float32, cast.Dtype())
	assert.Equal(t, float64(float32(1.0/3.0)), cast.At(0))
}

func TestCastAfterEmbeddingFullPrecisionNoCast(t *testing.T) {
	policy, err := NewPolicy(quantity.Float64)
	require.NoError(t, err)
	pipe := NewPipeline(policy)

	embed, _ := quantity.FromSlice(quantity.Dimensionless, quantity.Float64,
		[]float64{1.0 / 3.0}, 1)
	cast := pipe.CastAfterEmbedding(embed)
	assert.Equal(t, quantity.Float64, cast.Dtype())
	assert.Equal(t, 1.0/3.0, cast.At(0))
}

func TestToFullUpcastsEveryOutput(t *testing.T) {
	for _, modelDtype := range []quantity.Dtype{quantity.Float32, quantity.Float64} {
		policy, err := NewPolicy(modelDtype)
		require.NoError(t, err)
		pipe := NewPipeline(policy)

		energy, _ := quantity.FromSlice(quantity.Energy, modelDtype, []float64{-1.25}, 1)
		forces, _ := quantity.FromSlice(quantity.Force, modelDtype, make([]float64, 6), 2, 3)
		out := pipe.ToFull(atomdata.Data{
			atomdata.KeyEnergy: energy,
			atomdata.KeyForces: forces,
		})

		for k, q := range out {
			assert.Equal(t, quantity.Float64, q.Dtype(),
				"output %s with model_dtype=%s", k, modelDtype)
		}
	}
}
