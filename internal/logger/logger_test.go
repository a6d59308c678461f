package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line is not JSON: %s", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: DEBUG, Format: JSONFormat, Output: &buf, Component: "test"})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 4)

	wantLevels := []string{"debug", "info", "warn", "error"}
	for i, entry := range entries {
		assert.Equal(t, wantLevels[i], entry["level"])
		assert.Equal(t, "test", entry["component"])
		assert.NotEmpty(t, entry["time"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: WARN, Format: JSONFormat, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	assert.Len(t, decodeLines(t, &buf), 2)
}

func TestFieldsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: INFO, Format: JSONFormat, Output: &buf, Component: "providers"})

	logger.Error("submit failed", errors.New("connection refused"), map[string]interface{}{
		"rows":     3,
		"provider": "remote",
	})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "submit failed", entry["message"])
	assert.Equal(t, "connection refused", entry["error"])
	assert.Equal(t, float64(3), entry["rows"])
	assert.Equal(t, "remote", entry["provider"])
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: INFO, Format: TextFormat, Output: &buf, Component: "client"})

	logger.Info("batch submitted", map[string]interface{}{"rows": 3})

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "batch submitted")
	assert.Contains(t, out, "rows=3")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: DEBUG, Format: JSONFormat, Output: &buf})

	base.WithComponent("storage").Debug("stored")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "storage", entries[0]["component"])
}

func TestSetLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: ERROR, Format: JSONFormat, Output: &buf})

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.SetLevel(INFO)
	logger.Infof("shown %d", 1)
	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown 1", entries[0]["message"])

	buf.Reset()
	logger.SetFormat(TextFormat)
	logger.Warnf("plain %s", "text")
	assert.Contains(t, buf.String(), "plain text")
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	SetGlobalLogger(New(Config{Level: DEBUG, Format: JSONFormat, Output: &buf}))

	Debug("global debug")
	Info("global info")
	Warn("global warn")
	Error("global error", errors.New("boom"))
	Infof("global %s", "formatted")

	assert.Len(t, decodeLines(t, &buf), 5)
}

func TestConfigure(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	SetGlobalLogger(New(Config{Level: INFO, Format: JSONFormat, Output: &buf}))

	Configure("error", "")
	Warn("suppressed")
	assert.Empty(t, buf.String())

	Configure("bogus", "bogus")
	Warn("still suppressed")
	assert.Empty(t, buf.String())

	Configure("debug", "json")
	Debug("visible")
	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestParse(t *testing.T) {
	assert.Equal(t, WARN, ParseLogLevel("warning"))
	assert.Equal(t, DEBUG, ParseLogLevel(" debug "))
	assert.Equal(t, LogLevel(-1), ParseLogLevel("verbose"))
	assert.Equal(t, TextFormat, ParseLogFormat("console"))
	assert.Equal(t, JSONFormat, ParseLogFormat("JSON"))
	assert.Equal(t, LogFormat(-1), ParseLogFormat("xml"))
}

func TestLogLevelString(t *testing.T) {
	tests := map[LogLevel]string{
		DEBUG:        "DEBUG",
		INFO:         "INFO",
		WARN:         "WARN",
		ERROR:        "ERROR",
		FATAL:        "FATAL",
		LogLevel(99): "UNKNOWN",
	}
	for level, want := range tests {
		assert.Equal(t, want, level.String())
	}
}
