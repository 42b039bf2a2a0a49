package globalopts

import (
	"log/slog"
	"sync"
)

// Manager is the single mutation point for process-wide options.
//
// Capture and Apply are a critical section: at most one Apply runs at a
// time (mutex), and an Apply completes - including its conflict warnings -
// before any forward pass depending on the options may begin. Callers get
// that ordering for free because artifact loading calls Apply synchronously
// before returning the model.
type Manager struct {
	mu       sync.Mutex
	logger   *slog.Logger
	defaults Options
	current  Options

	// lastApplied makes Apply idempotent: re-applying the same snapshot is
	// a no-op with no duplicate warnings.
	lastApplied *Snapshot
}

// NewManager creates a manager whose current state is the framework
// defaults. A nil logger means slog.Default() at emit time.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		logger:   logger,
		defaults: Defaults(),
		current:  Defaults(),
	}
}

var (
	defaultManager *Manager
	defaultOnce    sync.Once
)

// Default returns the process-wide manager.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager(nil)
	})
	return defaultManager
}

// Current returns the current option values.
func (m *Manager) Current() Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set installs host-chosen option values. This is the path a host process
// uses before training; values set here count as customizations for
// conflict warnings on a later Apply.
func (m *Manager) Set(opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = opts
	m.lastApplied = nil
}

// Capture reads the current values into an immutable Snapshot.
// Called exactly once per model, at export time.
func (m *Manager) Capture() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{opts: m.current}
}

// Apply sets each option in the snapshot that differs from the current
// value.
//
// With warnOnConflict true (the default surface), an option that the
// process had customized away from the framework default is still changed,
// but a warning naming the option and both values is emitted - exactly one
// per option, never silently. warnOnConflict=false suppresses the warnings
// and is discouraged: silently mutating a host's numerical environment
// produces result divergence that is very hard to diagnose elsewhere in the
// process.
//
// Applying the same snapshot twice is a no-op after the first call.
func (m *Manager) Apply(snap Snapshot, warnOnConflict bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastApplied != nil && m.lastApplied.Equal(snap) {
		return
	}

	cur := m.current.fields()
	def := m.defaults.fields()
	tgt := snap.opts.fields()
	for i, name := range optionNames {
		if cur[i] == tgt[i] {
			continue
		}
		if warnOnConflict && cur[i] != def[i] {
			m.log().Warn("overriding process global option",
				"option", name,
				"old", cur[i],
				"new", tgt[i],
			)
		}
	}

	m.current = snap.opts
	applied := snap
	m.lastApplied = &applied
}

func (m *Manager) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}

// optionNames is index-aligned with Options.fields.
var optionNames = []string{OptDefaultDtype, OptDeterministic, OptTensorBackend, OptSeed}

// fields returns the option values in optionNames order, stringly typed for
// uniform comparison and logging.
func (o Options) fields() []any {
	return []any{o.DefaultDtype.String(), o.Deterministic, o.TensorBackend, o.Seed}
}
