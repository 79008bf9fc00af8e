package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ERA5_CACHE_DIR", t.TempDir())
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("ERA5_DOWNLOAD", "")
	t.Setenv("CDS_POLL_INTERVAL", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.DownloadEnabled)
	assert.Equal(t, 2*time.Second, cfg.CDSPollInterval)
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ERA5_DOWNLOAD", "true")
	t.Setenv("CDS_POLL_INTERVAL", "500ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DownloadEnabled)
	assert.Equal(t, 500*time.Millisecond, cfg.CDSPollInterval)
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	setBaseEnv(t)
	for _, v := range []string{"nonsense", "-1s", "0s"} {
		t.Setenv("CDS_POLL_INTERVAL", v)
		_, err := Load()
		assert.Error(t, err, "interval %q", v)
	}
}

func TestLoad_CacheDirMustExist(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ERA5_CACHE_DIR", filepath.Join(t.TempDir(), "missing"))

	_, err := Load()
	assert.ErrorContains(t, err, "existing directory")
}
