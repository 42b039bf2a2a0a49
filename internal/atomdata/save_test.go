package atomdata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveFramesRoundTrip(t *testing.T) {
	frames, err := LoadFrames("testdata/frames.yaml")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, SaveFrames(path, frames))

	reloaded, err := LoadFrames(path)
	require.NoError(t, err)
	require.Len(t, reloaded, len(frames))

	for i := range frames {
		assert.Equal(t, frames[i].AtomicNumbers, reloaded[i].AtomicNumbers, "frame %d", i)
		assert.Equal(t, frames[i].Positions.Data(), reloaded[i].Positions.Data(), "frame %d positions", i)
		if frames[i].Stress != nil {
			require.NotNil(t, reloaded[i].Stress)
			assert.Equal(t, frames[i].Stress.Data(), reloaded[i].Stress.Data(), "frame %d stress", i)
		}
	}
}

func TestSaveFramesRejectsEmpty(t *testing.T) {
	err := SaveFrames(filepath.Join(t.TempDir(), "out.yaml"), nil)
	require.Error(t, err)
}
