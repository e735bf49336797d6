package logging

import (
	"os"
	"path/filepath"
	"testing"

	"erd/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erd.log")
	logger, err := New(config.LogConfig{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Debug("node added")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "node added")
	assert.Contains(t, string(data), `"logger":"erd"`)
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erd.log")
	logger, err := New(config.LogConfig{Level: "warn", File: path, Development: true})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "chatty", File: filepath.Join(t.TempDir(), "x.log")})
	assert.Error(t, err)
}
