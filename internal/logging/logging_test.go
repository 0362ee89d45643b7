package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelDebug, LevelFor(true))
	assert.Equal(t, LevelInfo, LevelFor(false))
}

func TestInit_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf)
	t.Cleanup(func() { Init(LevelInfo, os.Stderr) })

	Debug("Workflow", "hidden %d", 1)
	Info("Workflow", "shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "subsystem=Workflow")
}

func TestError_IncludesError(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, &buf)
	t.Cleanup(func() { Init(LevelInfo, os.Stderr) })

	Error("Docker", errors.New("boom"), "pull failed")

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "subsystem=Docker")
}

func TestWith_CarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, &buf)
	t.Cleanup(func() { Init(LevelInfo, os.Stderr) })

	l := With("Workflow", slog.String("deployment", "abc"))
	l.Info("removing %s", "web")
	l.Warn("slow")

	out := buf.String()
	assert.Contains(t, out, "removing web")
	assert.Contains(t, out, "deployment=abc")
	assert.Contains(t, out, "level=WARN")
}
