// Package testutil holds small helpers shared across test packages.
package testutil

import (
	"log/slog"
	"testing"
)

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// NewTestLogger returns a slog.Logger that routes records through t.Log so
// output is attributed to the running test and silenced on success.
func NewTestLogger(t *testing.T) *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{t: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
