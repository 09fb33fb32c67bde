package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// entry is a single captured log record.
type entry struct {
	level   slog.Level
	message string
	attrs   map[string]any
}

// logBuffer is shared between a recorder and the handlers derived from
// it via WithAttrs, so asserts on the root recorder see every record.
type logBuffer struct {
	mu      sync.Mutex
	entries []entry
}

// LogRecorder is a slog.Handler that buffers records in memory so tests
// can assert on messages and attributes.
type LogRecorder struct {
	buf  *logBuffer
	base []slog.Attr
	t    *testing.T
}

// NewTestLogger returns a logger whose output is captured by the
// accompanying recorder. Records are also echoed via t.Logf.
func NewTestLogger(t *testing.T) (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{buf: &logBuffer{}, t: t}
	return slog.New(rec), rec
}

func (h *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(h.base))
	for _, a := range h.base {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.buf.mu.Lock()
	h.buf.entries = append(h.buf.entries, entry{level: r.Level, message: r.Message, attrs: attrs})
	h.buf.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (h *LogRecorder) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	base := append(append([]slog.Attr{}, h.base...), attrs...)
	return &LogRecorder{buf: h.buf, base: base, t: h.t}
}

func (h *LogRecorder) WithGroup(string) slog.Handler { return h }

func (h *LogRecorder) snapshot() []entry {
	h.buf.mu.Lock()
	defer h.buf.mu.Unlock()
	out := make([]entry, len(h.buf.entries))
	copy(out, h.buf.entries)
	return out
}

// AssertLogContains fails the test when no record at the given level
// contains message as a substring.
func AssertLogContains(t *testing.T, rec *LogRecorder, level slog.Level, message string) {
	t.Helper()

	for _, e := range rec.snapshot() {
		if e.level == level && strings.Contains(e.message, message) {
			return
		}
	}
	t.Errorf("no %s log containing %q", level, message)
}

// AssertLogAttr fails the test when no record carries the attribute
// key with the expected value.
func AssertLogAttr(t *testing.T, rec *LogRecorder, key string, want any) {
	t.Helper()

	for _, e := range rec.snapshot() {
		if got, ok := e.attrs[key]; ok && got == want {
			return
		}
	}
	t.Errorf("no log record with attribute %s=%v", key, want)
}
