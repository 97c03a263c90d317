package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{" WARN ", log.WarnLevel},
		{"error", log.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "session.log")

	logger, closer, err := New(Options{Level: "debug", File: path, ToFile: true})
	require.NoError(t, err)

	Component(logger, "session").Debug("task selected", "task", "math")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "task selected")
	assert.Contains(t, string(data), "session")
	assert.Contains(t, string(data), "task=math")
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")

	logger, closer, err := New(Options{Level: "warn", File: path, ToFile: true})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestComponent_NilParent(t *testing.T) {
	assert.NotNil(t, Component(nil, "player"))
}

func TestComponent_Prefix(t *testing.T) {
	var buf bytes.Buffer
	Component(log.New(&buf), "fade").Info("done")
	assert.Contains(t, buf.String(), "fade")
}
