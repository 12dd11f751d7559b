package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init(Config{Level: "debug"}))
	require.NotNil(t, Logger)
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	Debug("test debug message")
	Info("test info message", "key", "value")
}

func TestInitWithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "amal.log")

	require.NoError(t, Init(Config{File: file, JSON: true}))
	Info("written to file")

	_, err := os.Stat(filepath.Dir(file))
	assert.NoError(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// must not panic
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}
