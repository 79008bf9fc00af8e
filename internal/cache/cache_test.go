package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/era5vis/era5vis/internal/domain"
	"github.com/era5vis/era5vis/internal/observability"
)

// fakeDownloader records every invocation and, unless told otherwise,
// writes a placeholder file at the target path.
type fakeDownloader struct {
	calls      int
	lastReq    domain.RequestMap
	lastTarget string
	err        error
	skipWrite  bool
}

func (f *fakeDownloader) Download(_ context.Context, request domain.RequestMap, target string) error {
	f.calls++
	f.lastReq = request
	f.lastTarget = target
	if f.err != nil {
		return f.err
	}
	if !f.skipWrite {
		return os.WriteFile(target, []byte("netcdf"), 0o644)
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolve_MissDownloadsThenHits(t *testing.T) {
	dir := t.TempDir()
	dl := &fakeDownloader{}
	c := New(dir, dl, testLogger(), nil)

	path, err := c.Resolve(context.Background(), []string{"t", "u", "v"}, []int{850}, "2025-03-02T00:00")
	require.NoError(t, err)
	assert.Equal(t, 1, dl.calls)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, `^era5_[0-9a-f]{12}\.nc$`, filepath.Base(path))
	assert.FileExists(t, path)

	// Second resolution of the same request must not download again.
	again, err := c.Resolve(context.Background(), []string{"t", "u", "v"}, []int{850}, "2025-03-02T00:00")
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, 1, dl.calls)
}

func TestResolve_HitNeverInvokesDownloader(t *testing.T) {
	dir := t.TempDir()
	seed := &fakeDownloader{}
	path, err := New(dir, seed, testLogger(), nil).
		Resolve(context.Background(), []string{"t"}, []int{500}, "2025-03-02T00:00")
	require.NoError(t, err)

	// A fresh cache over the same directory with a failing downloader
	// must still serve the existing file.
	dl := &fakeDownloader{err: errors.New("must not be called")}
	got, err := New(dir, dl, testLogger(), nil).
		Resolve(context.Background(), []string{"t"}, []int{500}, "2025-03-02T00:00")
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, 0, dl.calls)
}

func TestResolve_EmptyTimeIsUsageError(t *testing.T) {
	dl := &fakeDownloader{}
	c := New(t.TempDir(), dl, testLogger(), nil)

	_, err := c.Resolve(context.Background(), []string{"t"}, []int{850}, "")
	assert.ErrorIs(t, err, domain.ErrTimeMissing)
	assert.Equal(t, 0, dl.calls)
}

func TestResolve_UnparseableTime(t *testing.T) {
	dl := &fakeDownloader{}
	c := New(t.TempDir(), dl, testLogger(), nil)

	_, err := c.Resolve(context.Background(), []string{"t"}, []int{850}, "not-a-time")
	assert.Error(t, err)
	assert.Equal(t, 0, dl.calls)
}

func TestResolve_DownloadLeavesNoFile(t *testing.T) {
	dl := &fakeDownloader{skipWrite: true}
	c := New(t.TempDir(), dl, testLogger(), nil)

	_, err := c.Resolve(context.Background(), []string{"t"}, []int{850}, "2025-03-02T00:00")

	var dlErr *domain.DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Contains(t, dlErr.Error(), "ERA5 download failed")
	assert.Equal(t, 1, dl.calls)
}

func TestResolve_DownloaderErrorPropagates(t *testing.T) {
	boom := errors.New("CDS unavailable")
	c := New(t.TempDir(), &fakeDownloader{err: boom}, testLogger(), nil)

	_, err := c.Resolve(context.Background(), []string{"t"}, []int{850}, "2025-03-02T00:00")
	assert.ErrorIs(t, err, boom)

	var dlErr *domain.DownloadError
	assert.False(t, errors.As(err, &dlErr))
}

func TestResolve_LevelOrderDoesNotMatter(t *testing.T) {
	dir := t.TempDir()
	dl := &fakeDownloader{}
	c := New(dir, dl, testLogger(), nil)

	first, err := c.Resolve(context.Background(), []string{"t"}, []int{500, 850, 1000}, "2025-03-02T00:00")
	require.NoError(t, err)
	second, err := c.Resolve(context.Background(), []string{"t"}, []int{1000, 500, 850}, "2025-03-02T00:00")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, dl.calls)
}

func TestResolve_NilLevelsRequestsFullColumn(t *testing.T) {
	dl := &fakeDownloader{}
	c := New(t.TempDir(), dl, testLogger(), nil)

	_, err := c.Resolve(context.Background(), []string{"t", "q", "u", "v"}, nil, "2025-03-02T00:00")
	require.NoError(t, err)

	levels, ok := dl.lastReq["pressure_level"].([]string)
	require.True(t, ok)
	assert.Equal(t, domain.AllPressureLevels, levels)
}

func TestResolve_RequestMapping(t *testing.T) {
	dl := &fakeDownloader{}
	c := New(t.TempDir(), dl, testLogger(), nil)

	_, err := c.Resolve(context.Background(), []string{"t", "u", "v"}, []int{850}, "2025-03-02T06:30")
	require.NoError(t, err)

	assert.Equal(t, []string{"reanalysis"}, dl.lastReq["product_type"])
	assert.Equal(t, []string{"t", "u", "v"}, dl.lastReq["variable"])
	assert.Equal(t, []string{"2025"}, dl.lastReq["year"])
	assert.Equal(t, []string{"03"}, dl.lastReq["month"])
	assert.Equal(t, []string{"02"}, dl.lastReq["day"])
	// Snapshots are top-of-hour; minutes are truncated.
	assert.Equal(t, []string{"06:00"}, dl.lastReq["time"])
	assert.Equal(t, []string{"850"}, dl.lastReq["pressure_level"])
	assert.Equal(t, "netcdf", dl.lastReq["data_format"])
	assert.Equal(t, "unarchived", dl.lastReq["download_format"])
	assert.Equal(t, []int{70, -20, 30, 50}, dl.lastReq["area"])
}

func TestResolve_NeverCreatesCacheDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	dl := &fakeDownloader{skipWrite: true}
	c := New(missing, dl, testLogger(), nil)

	_, err := c.Resolve(context.Background(), []string{"t"}, []int{850}, "2025-03-02T00:00")
	assert.Error(t, err)
	assert.NoDirExists(t, missing)
}

func TestResolve_Metrics(t *testing.T) {
	dir := t.TempDir()
	m := observability.NewMetricsForTesting()
	c := New(dir, &fakeDownloader{}, testLogger(), m)

	_, err := c.Resolve(context.Background(), []string{"t"}, []int{850}, "2025-03-02T00:00")
	require.NoError(t, err)
	_, err = c.Resolve(context.Background(), []string{"t"}, []int{850}, "2025-03-02T00:00")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DownloadFailures))
}

func TestResolve_WithFlockLocking(t *testing.T) {
	dir := t.TempDir()
	dl := &fakeDownloader{}
	c := New(dir, dl, testLogger(), nil).WithLocking(NewFlockGroup(dir))

	path, err := c.Resolve(context.Background(), []string{"t"}, []int{850}, "2025-03-02T00:00")
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, 1, dl.calls)
}
