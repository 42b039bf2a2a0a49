// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// CaptureHandler is a slog.Handler that records every log record in memory.
//
// Used by tests asserting on conflict-warning behavior: exact count, level,
// and attributes of emitted warnings.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type CaptureHandler struct {
	mu      sync.Mutex
	records []CapturedRecord
}

// CapturedRecord is one recorded log entry with flattened attributes.
type CapturedRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// NewCaptureHandler creates an empty capture handler.
func NewCaptureHandler() *CaptureHandler {
	return &CaptureHandler{}
}

// Logger returns a slog.Logger writing into the handler.
func (h *CaptureHandler) Logger() *slog.Logger {
	return slog.New(h)
}

// Enabled implements slog.Handler; every level is recorded.
func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, CapturedRecord{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

// WithAttrs implements slog.Handler. Group/attr prefixes are not needed by
// our tests, so the handler is returned unchanged.
func (h *CaptureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

// WithGroup implements slog.Handler.
func (h *CaptureHandler) WithGroup(string) slog.Handler { return h }

// Records returns a copy of everything recorded so far.
func (h *CaptureHandler) Records() []CapturedRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]CapturedRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Warnings returns only the records at slog.LevelWarn.
func (h *CaptureHandler) Warnings() []CapturedRecord {
	var out []CapturedRecord
	for _, r := range h.Records() {
		if r.Level == slog.LevelWarn {
			out = append(out, r)
		}
	}
	return out
}

// Reset discards all recorded entries.
func (h *CaptureHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}
