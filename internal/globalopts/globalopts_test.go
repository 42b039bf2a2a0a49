package globalopts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrite-md/ferrite/internal/quantity"
	"github.com/ferrite-md/ferrite/internal/testutil"
)

func TestCaptureReflectsCurrentState(t *testing.T) {
	m := NewManager(nil)
	custom := Options{
		DefaultDtype:  quantity.Float64,
		Deterministic: true,
		TensorBackend: "fused",
		Seed:          42,
	}
	m.Set(custom)

	snap := m.Capture()
	assert.Equal(t, custom, snap.Options())
}

func TestApplyChangesStateAndWarnsOnConflict(t *testing.T) {
	h := testutil.NewCaptureHandler()
	m := NewManager(h.Logger())

	// Host customized the backend away from the framework default.
	hostOpts := Defaults()
	hostOpts.TensorBackend = "hostfused"
	m.Set(hostOpts)

	// Snapshot wants a different backend.
	target := Defaults()
	target.TensorBackend = "reference-strict"
	snap := Snapshot{opts: target}

	m.Apply(snap, true)

	assert.Equal(t, "reference-strict", m.Current().TensorBackend)

	warnings := h.Warnings()
	require.Len(t, warnings, 1, "exactly one warning per conflicting option")
	assert.Equal(t, OptTensorBackend, warnings[0].Attrs["option"])
	assert.Equal(t, "hostfused", warnings[0].Attrs["old"])
	assert.Equal(t, "reference-strict", warnings[0].Attrs["new"])
}

func TestApplyNoWarningWhenCurrentIsDefault(t *testing.T) {
	// Changing an option the process never customized is not a conflict.
	h := testutil.NewCaptureHandler()
	m := NewManager(h.Logger())

	target := Defaults()
	target.Deterministic = true
	m.Apply(Snapshot{opts: target}, true)

	assert.True(t, m.Current().Deterministic)
	assert.Empty(t, h.Warnings())
}

func TestApplySuppressedWarning(t *testing.T) {
	h := testutil.NewCaptureHandler()
	m := NewManager(h.Logger())

	hostOpts := Defaults()
	hostOpts.Seed = 7
	m.Set(hostOpts)

	target := Defaults()
	target.Seed = 99
	m.Apply(Snapshot{opts: target}, false)

	// Value still changes; warning is suppressed.
	assert.Equal(t, int64(99), m.Current().Seed)
	assert.Empty(t, h.Warnings())
}

func TestApplyIdempotent(t *testing.T) {
	h := testutil.NewCaptureHandler()
	m := NewManager(h.Logger())

	hostOpts := Defaults()
	hostOpts.Seed = 7
	m.Set(hostOpts)

	target := Defaults()
	target.Seed = 99
	snap := Snapshot{opts: target}

	m.Apply(snap, true)
	first := m.Current()
	require.Len(t, h.Warnings(), 1)

	// Second apply of the identical snapshot: no state change, no warnings.
	m.Apply(snap, true)
	assert.Equal(t, first, m.Current())
	assert.Len(t, h.Warnings(), 1)
}

func TestSetInvalidatesIdempotence(t *testing.T) {
	h := testutil.NewCaptureHandler()
	m := NewManager(h.Logger())

	target := Defaults()
	target.Seed = 99
	snap := Snapshot{opts: target}
	m.Apply(snap, true)

	// Host mutates state between applies; re-apply must take effect again.
	hostOpts := Defaults()
	hostOpts.Seed = 1
	m.Set(hostOpts)

	m.Apply(snap, true)
	assert.Equal(t, int64(99), m.Current().Seed)
}

func TestSnapshotStringMapRoundTrip(t *testing.T) {
	opts := Options{
		DefaultDtype:  quantity.Float64,
		Deterministic: true,
		TensorBackend: "fused",
		Seed:          -3,
	}
	snap := Snapshot{opts: opts}

	back, err := SnapshotFromStringMap(snap.StringMap())
	require.NoError(t, err)
	assert.True(t, snap.Equal(back))
}

func TestSnapshotFromStringMapRejectsUnknownOption(t *testing.T) {
	_, err := SnapshotFromStringMap(map[string]string{"future_option": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future_option")
}

func TestSnapshotFromStringMapRejectsBadValues(t *testing.T) {
	cases := []map[string]string{
		{OptDefaultDtype: "float16"},
		{OptDeterministic: "maybe"},
		{OptSeed: "not-a-number"},
	}
	for _, m := range cases {
		_, err := SnapshotFromStringMap(m)
		assert.Error(t, err, "%v", m)
	}
}

func TestSnapshotMapHasNoFloats(t *testing.T) {
	// Manifest canonical JSON forbids floats; the snapshot must only ever
	// contain strings, bools, and int64.
	snap := Snapshot{opts: Defaults()}
	for name, v := range snap.Map() {
		switch v.(type) {
		case string, bool, int64:
		default:
			t.Fatalf("option %s has unexpected type %T", name, v)
		}
	}
	assert.Equal(t,
		[]string{OptDefaultDtype, OptDeterministic, OptSeed, OptTensorBackend},
		snap.Names())
}
