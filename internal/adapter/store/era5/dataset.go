// Package era5 provides read access to ERA5 pressure-level NetCDF
// files: coordinate loading, availability checks, and the cross
// section / profile extractions used by the analysis plots.
package era5

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/era5vis/era5vis/internal/domain"
)

// Epoch offset for legacy files whose time axis counts hours since
// 1900-01-01 00:00:00 UTC.
const unixSecs1900 = -2208988800

// Dataset is an opened ERA5 pressure-level NetCDF file with its
// coordinate axes loaded.
type Dataset struct {
	path   string
	nc     netcdf.Dataset
	lats   []float64 // north to south in ERA5 files
	lons   []float64
	levels []float64 // hPa, in file order
	times  []time.Time
}

// CheckFile verifies that an ERA5 data file exists and can be opened.
// Intended as an early sanity check before extraction.
func CheckFile(path string) error {
	d, err := Open(path)
	if err != nil {
		return err
	}
	return d.Close()
}

// Open opens an ERA5 NetCDF file and loads its coordinate axes.
func Open(path string) (*Dataset, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("data file does not exist: %s", path)
	}

	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("open data file %s: %w", path, err)
	}

	d := &Dataset{path: path, nc: nc}
	if err := d.loadCoordinates(); err != nil {
		_ = nc.Close()
		return nil, fmt.Errorf("load data file %s: %w", path, err)
	}
	return d, nil
}

// Close releases the underlying NetCDF handle.
func (d *Dataset) Close() error {
	return d.nc.Close()
}

// Path returns the path the dataset was opened from.
func (d *Dataset) Path() string { return d.path }

// Latitudes returns the latitude axis in file order (north to south).
func (d *Dataset) Latitudes() []float64 { return d.lats }

// Longitudes returns the longitude axis in file order.
func (d *Dataset) Longitudes() []float64 { return d.lons }

// Levels returns the pressure-level axis in hPa, in file order.
func (d *Dataset) Levels() []float64 { return d.levels }

// Times returns the valid-time axis.
func (d *Dataset) Times() []time.Time { return d.times }

func (d *Dataset) loadCoordinates() error {
	var err error
	if d.lats, err = d.readAxis("latitude", "lat"); err != nil {
		return err
	}
	if d.lons, err = d.readAxis("longitude", "lon"); err != nil {
		return err
	}
	if d.levels, err = d.readAxis("pressure_level", "level"); err != nil {
		return err
	}

	raw, err := d.readAxis("valid_time", "time")
	if err != nil {
		return err
	}
	d.times = make([]time.Time, len(raw))
	for i, v := range raw {
		d.times[i] = decodeTime(v)
	}
	return nil
}

// decodeTime converts a raw time-axis value to a UTC timestamp. Modern
// CDS files store seconds since the Unix epoch; legacy files store
// hours since 1900. Hour counts stay far below 1e8 for any plausible
// date, so magnitude separates the two encodings.
func decodeTime(v float64) time.Time {
	secs := int64(v)
	if math.Abs(v) < 1e8 {
		secs = secs*3600 + unixSecs1900
	}
	return time.Unix(secs, 0).UTC()
}

func (d *Dataset) readAxis(names ...string) ([]float64, error) {
	for _, name := range names {
		v, err := d.nc.Var(name)
		if err != nil {
			continue
		}
		data, err := readFloat64Var(v)
		if err != nil {
			return nil, fmt.Errorf("read %s axis: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("coordinate variable not found (tried: %v)", names)
}

// HasVariable checks whether the named data variable exists and has a
// pressure-level dimension.
func (d *Dataset) HasVariable(param string) error {
	v, err := d.nc.Var(param)
	if err != nil {
		return fmt.Errorf("variable %q not found in data file", param)
	}
	dims, err := v.Dims()
	if err != nil {
		return fmt.Errorf("read dimensions of %q: %w", param, err)
	}
	if len(dims) != 4 {
		return fmt.Errorf("variable %q has no pressure_level dimension", param)
	}
	return nil
}

// CheckLevel verifies that the requested pressure level exists.
func (d *Dataset) CheckLevel(level float64) error {
	if _, ok := d.levelIndex(level); !ok {
		return fmt.Errorf("pressure level %g not available; available levels: %v", level, d.levels)
	}
	return nil
}

// CheckTime verifies that the requested time exists in the dataset.
func (d *Dataset) CheckTime(value string) error {
	t, err := domain.ParseTime(value)
	if err != nil {
		return fmt.Errorf("time %q could not be parsed as a datetime: %w", value, err)
	}
	for _, have := range d.times {
		if have.Equal(t) {
			return nil
		}
	}
	return fmt.Errorf("time %s not available; range: %s – %s",
		t.Format(time.RFC3339), d.times[0].Format(time.RFC3339),
		d.times[len(d.times)-1].Format(time.RFC3339))
}

// CheckTimeIndex verifies that a time index is within bounds.
func (d *Dataset) CheckTimeIndex(i int) error {
	if i < 0 || i >= len(d.times) {
		return fmt.Errorf("time index %d out of bounds; valid range: 0 … %d", i, len(d.times)-1)
	}
	return nil
}

func (d *Dataset) levelIndex(level float64) (int, bool) {
	for i, l := range d.levels {
		if l == level {
			return i, true
		}
	}
	return 0, false
}

// TimeSelector picks a snapshot either by timestamp (nearest match)
// or by index into the valid-time axis.
type TimeSelector struct {
	value   string
	index   int
	byIndex bool
}

// TimeAt selects the snapshot nearest to the given timestamp.
func TimeAt(value string) TimeSelector {
	return TimeSelector{value: value}
}

// TimeIndex selects the snapshot at the given index.
func TimeIndex(i int) TimeSelector {
	return TimeSelector{index: i, byIndex: true}
}

func (d *Dataset) resolveTime(sel TimeSelector) (int, error) {
	if sel.byIndex {
		if err := d.CheckTimeIndex(sel.index); err != nil {
			return 0, err
		}
		return sel.index, nil
	}

	t, err := domain.ParseTime(sel.value)
	if err != nil {
		return 0, fmt.Errorf("time %q could not be parsed as a datetime: %w", sel.value, err)
	}

	best := 0
	bestDist := math.MaxFloat64
	for i, have := range d.times {
		if dist := math.Abs(have.Sub(t).Seconds()); dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best, nil
}

// readSlab reads the full lat×lon field of param at the given time and
// level indices, unpacking scale/offset and mapping fill values to NaN.
func (d *Dataset) readSlab(param string, ti, li int) ([][]float64, error) {
	v, err := d.nc.Var(param)
	if err != nil {
		return nil, fmt.Errorf("variable %q not found in data file", param)
	}

	nLat := len(d.lats)
	nLon := len(d.lons)
	start := []uint64{uint64(ti), uint64(li), 0, 0}
	count := []uint64{1, 1, uint64(nLat), uint64(nLon)}

	flat, err := readFloat64Slice(v, start, count, nLat*nLon)
	if err != nil {
		return nil, fmt.Errorf("read %q slab: %w", param, err)
	}
	applyPacking(v, flat)

	values := make([][]float64, nLat)
	for i := 0; i < nLat; i++ {
		values[i] = flat[i*nLon : (i+1)*nLon]
	}
	return values, nil
}

// readColumn reads the full vertical column of param at the given
// time index and grid point.
func (d *Dataset) readColumn(param string, ti, latIdx, lonIdx int) ([]float64, error) {
	v, err := d.nc.Var(param)
	if err != nil {
		return nil, fmt.Errorf("variable %q not found in data file", param)
	}

	nLev := len(d.levels)
	start := []uint64{uint64(ti), 0, uint64(latIdx), uint64(lonIdx)}
	count := []uint64{1, uint64(nLev), 1, 1}

	column, err := readFloat64Slice(v, start, count, nLev)
	if err != nil {
		return nil, fmt.Errorf("read %q column: %w", param, err)
	}
	applyPacking(v, column)
	return column, nil
}
