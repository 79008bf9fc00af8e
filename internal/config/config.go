// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"os"
	"time"
)

// Config holds all settings for the server and the download layer.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	// CacheDir is where resolved ERA5 files live. It must exist; the
	// cache never creates it.
	CacheDir string

	// CDS API access. When DownloadEnabled is false the server only
	// serves extractions from explicitly provided datafiles.
	DownloadEnabled bool
	CDSURL          string
	CDSKey          string
	CDSPollInterval time.Duration
}

// Load reads configuration from environment variables, applying
// defaults where unset.
func Load() (*Config, error) {
	pollStr := envOrDefault("CDS_POLL_INTERVAL", "2s")
	poll, err := time.ParseDuration(pollStr)
	if err != nil || poll <= 0 {
		return nil, errors.New("invalid CDS_POLL_INTERVAL")
	}

	cacheDir := envOrDefault("ERA5_CACHE_DIR", mustGetwd())

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		CacheDir:        cacheDir,
		DownloadEnabled: os.Getenv("ERA5_DOWNLOAD") == "true",
		CDSURL:          os.Getenv("CDSAPI_URL"),
		CDSKey:          os.Getenv("CDSAPI_KEY"),
		CDSPollInterval: poll,
	}

	if info, err := os.Stat(cfg.CacheDir); err != nil || !info.IsDir() {
		return nil, errors.New("ERA5_CACHE_DIR must be an existing directory")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
