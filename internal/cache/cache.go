// Package cache maps ERA5 data requests to local NetCDF files,
// downloading each distinct request at most once.
//
// Cached files are named era5_<digest>.nc inside the cache directory,
// where the digest is derived from the canonical request mapping. The
// directory listing itself is the cache index: existence of the file
// is the sole witness of validity. Entries are never expired or
// deleted, and no content verification is performed here.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/era5vis/era5vis/internal/domain"
	"github.com/era5vis/era5vis/internal/hashing"
	"github.com/era5vis/era5vis/internal/observability"
)

// Downloader retrieves the data described by a request mapping and
// writes it to the target path. The cache trusts the filesystem, not
// the return value: after Download returns, the target must exist.
type Downloader interface {
	Download(ctx context.Context, request domain.RequestMap, target string) error
}

// Cache resolves ERA5 requests to files in a local cache directory.
//
// The zero locking Group performs no mutual exclusion: two concurrent
// resolutions of the same request may both download. The cost of a
// lost race is a duplicate download, not corruption.
type Cache struct {
	dir        string
	downloader Downloader
	locks      Group
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a cache rooted at dir. The directory must already exist;
// the cache never creates it. metrics may be nil.
func New(dir string, downloader Downloader, logger *slog.Logger, metrics *observability.Metrics) *Cache {
	return &Cache{
		dir:        dir,
		downloader: downloader,
		locks:      NoOpGroup{},
		logger:     logger,
		metrics:    metrics,
	}
}

// WithLocking returns a copy of the cache that serializes same-digest
// resolutions through the given Group.
func (c *Cache) WithLocking(locks Group) *Cache {
	clone := *c
	clone.locks = locks
	return &clone
}

// Resolve returns the path of a NetCDF file containing the requested
// variables at the given pressure levels and time, downloading it on a
// cache miss.
//
// levels == nil requests the full fixed vocabulary of pressure levels
// (used for sounding profiles). timeValue is mandatory; passing an
// empty string is a usage error, not a missing-data condition.
func (c *Cache) Resolve(ctx context.Context, variables []string, levels []int, timeValue string) (string, error) {
	if timeValue == "" {
		return "", domain.ErrTimeMissing
	}

	t, err := domain.ParseTime(timeValue)
	if err != nil {
		return "", err
	}

	var pressureLevels []string
	if levels == nil {
		pressureLevels = domain.AllPressureLevels
	} else {
		pressureLevels = domain.NormalizeLevels(levels)
	}

	req := domain.Request{
		ProductType:    []string{domain.ProductTypeReanalysis},
		Variable:       variables,
		Year:           []string{fmt.Sprintf("%04d", t.Year())},
		Month:          []string{fmt.Sprintf("%02d", int(t.Month()))},
		Day:            []string{fmt.Sprintf("%02d", t.Day())},
		Time:           []string{fmt.Sprintf("%02d:00", t.Hour())},
		PressureLevel:  pressureLevels,
		DataFormat:     domain.DataFormatNetCDF,
		DownloadFormat: domain.DownloadFormatUnarchived,
		Area:           domain.DefaultArea,
	}

	requestMap := req.ToMap()
	key, err := hashing.RequestHash(requestMap)
	if err != nil {
		return "", err
	}
	target := filepath.Join(c.dir, fmt.Sprintf("era5_%s.nc", key))

	return c.locks.DoWithLock(key, func() (string, error) {
		return c.resolveTarget(ctx, requestMap, key, target)
	})
}

func (c *Cache) resolveTarget(ctx context.Context, request domain.RequestMap, key, target string) (string, error) {
	if _, err := os.Stat(target); err == nil {
		c.logger.Debug("cache hit", "key", key, "target", target)
		if c.metrics != nil {
			c.metrics.CacheHits.Inc()
		}
		return target, nil
	}

	c.logger.Info("cache miss, downloading", "key", key, "target", target)
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}

	start := time.Now()
	if err := c.downloader.Download(ctx, request, target); err != nil {
		return "", err
	}
	if c.metrics != nil {
		c.metrics.DownloadDuration.Observe(time.Since(start).Seconds())
	}

	// The downloader signals success only through the filesystem.
	if _, err := os.Stat(target); err != nil {
		if c.metrics != nil {
			c.metrics.DownloadFailures.Inc()
		}
		return "", &domain.DownloadError{Target: target}
	}

	return target, nil
}
