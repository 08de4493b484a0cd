/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		if result := test.level.String(); result != test.expected {
			t.Errorf("Level.String() = %v, expected %v", result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		level  Level
		wantOK bool
	}{
		{"trace", TraceLevel, true},
		{"DEBUG", DebugLevel, true},
		{" info ", InfoLevel, true},
		{"warning", WarnLevel, true},
		{"error", ErrorLevel, true},
		{"loud", InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.level, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestInitialize_RejectsInvalidLevel(t *testing.T) {
	assert.Error(t, Initialize(Config{Level: Level(42)}))
}

func TestLoggerPrettyFormatting(t *testing.T) {
	l := New(Config{Level: InfoLevel, Component: "test"}, &bytes.Buffer{})

	entry := LogEntry{
		Time:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Level:     "INFO",
		Message:   "test message",
		Component: "test",
		Fields:    map[string]interface{}{"b": 2, "a": "x"},
	}

	assert.Equal(t, "2025-01-01 12:00:00 [INFO] test: test message {a=x, b=2}", l.formatPretty(entry))
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: WarnLevel}, &buf)

	l.Log(InfoLevel, "hidden")
	l.Log(WarnLevel, "shown", String("file", "a.txt"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown {file=a.txt}")
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, JSON: true, Component: "goldencheck"}, &buf)

	l.Log(ErrorLevel, "boom", Int("n", 3), Bool("ok", false))

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "boom", entry.Message)
	assert.Equal(t, "goldencheck", entry.Component)
	assert.Equal(t, float64(3), entry.Fields["n"])
}

func TestDefaultLoggerWritesWarnings(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Warn("something odd", Err(nil))
	assert.Contains(t, buf.String(), "something odd")
}
