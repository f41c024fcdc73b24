package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("GRAPHD_HTTP_ADDRESS", ":9090")
	t.Setenv("GRAPHD_BLOCK_SIZE", "4096")
	t.Setenv("GRAPHD_AUTH_USERNAME", "root")

	cfg := LoadFromEnv()

	assert.Equal(t, ":9090", cfg.Server.HTTPAddress)
	assert.Equal(t, 4096, cfg.Storage.BlockSize)
	assert.Equal(t, "root", cfg.Auth.Username)
	assert.Equal(t, "admin", cfg.Auth.Password)
}

func TestValidateRejectsBadBlockSize(t *testing.T) {
	cfg := Default()
	cfg.Storage.BlockSize = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Storage.BlockSize = 100
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroQueueCapacity(t *testing.T) {
	cfg := Default()
	cfg.Storage.QueueCapacity = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFileMissingIsNotError(t *testing.T) {
	cfg, err := LoadFromFile("/nonexistent/graphd.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/graphd.yaml"
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_address: \":7000\"\nstorage:\n  block_size: 2048\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.HTTPAddress)
	assert.Equal(t, 2048, cfg.Storage.BlockSize)
	assert.Equal(t, 100, cfg.Storage.QueueCapacity)
}
