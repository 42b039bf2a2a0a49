package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateText(t *testing.T) {
	out, err := execute(t, "validate", "testdata/config.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")
	assert.Contains(t, out, "pair_exp")
	assert.Contains(t, out, "float32")
}

func TestValidateJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", "testdata/config.yaml")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateRejectsBadDtype(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model_dtype: float16
model:
  name: pair_exp
  amplitude: 1.0
  decay: 1.0
  cutoff: 3.0
`), 0o644))

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "INVALID_CONFIG")
}

func TestValidateMissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
