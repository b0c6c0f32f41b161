package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{" error ", slog.LevelError},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("filters below level and drops time", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, slog.LevelWarn, false)

		log.Info("hidden")
		log.Warn("shown", "key", "value")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "level=WARN msg=shown key=value")
		assert.NotContains(t, out, "time=")
	})

	t.Run("debug forces debug level with source", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, slog.LevelError, true)

		log.Debug("details")

		out := buf.String()
		assert.Contains(t, out, "msg=details")
		assert.Contains(t, out, "source=internal/logging/logger_test.go")
	})
}
