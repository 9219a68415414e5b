package telemetry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelOff, ParseLevel("off"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestLoggerSuppressesBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelError, &buf)

	l.CPU("illegal opcode $%02X", 0xEB)

	assert.Empty(t, buf.String(), "CPU logs at LevelWarn must be suppressed when configured at LevelError")
}

func TestLoggerEmitsAtOrAboveConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.CPU("illegal opcode $%02X", 0xEB)

	out := buf.String()
	assert.Contains(t, out, "CPU")
	assert.Contains(t, out, "illegal opcode $EB")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.CPU("nothing happens") })
}

func TestNewDefaultsNilWriterToStderr(t *testing.T) {
	l := New(LevelInfo, nil)
	assert.NotNil(t, l.writer)
}

func TestLevelStringRoundTrips(t *testing.T) {
	for _, lv := range []Level{LevelOff, LevelError, LevelWarn, LevelInfo, LevelDebug} {
		assert.Equal(t, lv, ParseLevel(strings.ToLower(lv.String())))
	}
}
