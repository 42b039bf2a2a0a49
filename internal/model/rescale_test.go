package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrite-md/ferrite/internal/atomdata"
	"github.com/ferrite-md/ferrite/internal/quantity"
	"github.com/ferrite-md/ferrite/internal/testutil"
)

func TestNewRescaleRejectsTinyScale(t *testing.T) {
	_, err := NewRescale(1e-9, []string{atomdata.KeyEnergy}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
}

func TestNewRescaleWarnsOnEmptyKeys(t *testing.T) {
	h := testutil.NewCaptureHandler()
	r, err := NewRescale(2.0, nil, h.Logger())
	require.NoError(t, err)
	require.Len(t, h.Warnings(), 1)

	// No keys: Apply changes nothing.
	e := quantity.New(quantity.Energy, quantity.Float64, 1)
	e.Set(0, 3)
	out := r.Apply(atomdata.Data{atomdata.KeyEnergy: e})
	assert.Equal(t, 3.0, out[atomdata.KeyEnergy].At(0))
}

func TestRescaleAppliesToSelectedKeysOnly(t *testing.T) {
	r, err := NewRescale(0.5, []string{atomdata.KeyEnergy, atomdata.KeyForces}, nil)
	require.NoError(t, err)

	e := quantity.New(quantity.Energy, quantity.Float64, 1)
	e.Set(0, 8)
	f := quantity.New(quantity.Force, quantity.Float64, 1, 3)
	f.Set(0, 2)
	s := quantity.New(quantity.Stress, quantity.Float64, 3, 3)
	s.Set(0, 4)
	in := atomdata.Data{
		atomdata.KeyEnergy: e,
		atomdata.KeyForces: f,
		atomdata.KeyStress: s,
	}

	out := r.Apply(in)
	assert.Equal(t, 4.0, out[atomdata.KeyEnergy].At(0))
	assert.Equal(t, 1.0, out[atomdata.KeyForces].At(0))
	assert.Equal(t, 4.0, out[atomdata.KeyStress].At(0), "unselected key untouched")

	// Input map untouched.
	assert.Equal(t, 8.0, in[atomdata.KeyEnergy].At(0))
}
