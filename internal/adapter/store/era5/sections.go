package era5

import (
	"fmt"
	"sort"
	"time"

	"github.com/era5vis/era5vis/internal/adapter/interp"
	"github.com/era5vis/era5vis/internal/domain"
)

// HorizontalSection is a 2D lat×lon field at one pressure level and
// one valid time.
type HorizontalSection struct {
	Param     string      `json:"param"`
	Level     float64     `json:"level"`
	ValidTime time.Time   `json:"valid_time"`
	Lats      []float64   `json:"lats"`
	Lons      []float64   `json:"lons"`
	Values    [][]float64 `json:"values"` // Values[i][j] at (Lats[i], Lons[j])
}

// HorizontalSection extracts the field of param at the given pressure
// level and time.
func (d *Dataset) HorizontalSection(param string, level float64, sel TimeSelector) (*HorizontalSection, error) {
	li, ok := d.levelIndex(level)
	if !ok {
		return nil, fmt.Errorf("pressure level %g not available; available levels: %v", level, d.levels)
	}
	ti, err := d.resolveTime(sel)
	if err != nil {
		return nil, err
	}

	values, err := d.readSlab(param, ti, li)
	if err != nil {
		return nil, err
	}

	return &HorizontalSection{
		Param:     param,
		Level:     level,
		ValidTime: d.times[ti],
		Lats:      d.lats,
		Lons:      d.lons,
		Values:    values,
	}, nil
}

// Subsample returns a copy of the section keeping every step-th grid
// point along both axes, used to thin wind fields for vector plotting.
func (s *HorizontalSection) Subsample(step int) *HorizontalSection {
	if step <= 1 {
		return s
	}
	out := &HorizontalSection{
		Param:     s.Param,
		Level:     s.Level,
		ValidTime: s.ValidTime,
	}
	for i := 0; i < len(s.Lats); i += step {
		out.Lats = append(out.Lats, s.Lats[i])
		var row []float64
		for j := 0; j < len(s.Lons); j += step {
			row = append(row, s.Values[i][j])
		}
		out.Values = append(out.Values, row)
	}
	for j := 0; j < len(s.Lons); j += step {
		out.Lons = append(out.Lons, s.Lons[j])
	}
	return out
}

// Transect is a field sampled along a straight lat/lon line at every
// pressure level.
type Transect struct {
	Param     string      `json:"param"`
	ValidTime time.Time   `json:"valid_time"`
	Levels    []float64   `json:"levels"`
	Lats      []float64   `json:"lats"`
	Lons      []float64   `json:"lons"`
	Values    [][]float64 `json:"values"` // Values[levelIdx][pointIdx]
}

// VerticalTransect extracts param along the line from (startLat,
// startLon) to (endLat, endLon), bilinearly interpolated at npoints
// samples, keeping all pressure levels.
func (d *Dataset) VerticalTransect(param string, startLat, startLon, endLat, endLon float64, sel TimeSelector, npoints int) (*Transect, error) {
	if npoints < 2 {
		return nil, fmt.Errorf("npoints must be at least 2, got %d", npoints)
	}
	ti, err := d.resolveTime(sel)
	if err != nil {
		return nil, err
	}

	lats := make([]float64, npoints)
	lons := make([]float64, npoints)
	for i := 0; i < npoints; i++ {
		f := float64(i) / float64(npoints-1)
		lats[i] = startLat + f*(endLat-startLat)
		lons[i] = startLon + f*(endLon-startLon)
	}

	values := make([][]float64, len(d.levels))
	for li := range d.levels {
		slab, err := d.readSlab(param, ti, li)
		if err != nil {
			return nil, err
		}
		grid := &interp.Grid2D{X: d.lons, Y: d.lats, Values: slab}
		if err := grid.Validate(); err != nil {
			return nil, fmt.Errorf("level %g: %w", d.levels[li], err)
		}

		row := make([]float64, npoints)
		for p := 0; p < npoints; p++ {
			val, err := grid.At(lons[p], lats[p])
			if err != nil {
				return nil, fmt.Errorf("sample point (%.4f, %.4f): %w", lats[p], lons[p], err)
			}
			row[p] = val
		}
		values[li] = row
	}

	return &Transect{
		Param:     param,
		ValidTime: d.times[ti],
		Levels:    d.levels,
		Lats:      lats,
		Lons:      lons,
		Values:    values,
	}, nil
}

// SoundingVars names the dataset variables a sounding is built from.
type SoundingVars struct {
	Temperature string
	Humidity    string
	WindU       string
	WindV       string
}

// DefaultSoundingVars returns the standard ERA5 short names.
func DefaultSoundingVars() SoundingVars {
	return SoundingVars{Temperature: "t", Humidity: "q", WindU: "u", WindV: "v"}
}

// Sounding is a vertical thermodynamic and wind profile at one grid
// point, ordered bottom-up (highest pressure first) as Skew-T plotting
// expects.
type Sounding struct {
	Lat          float64   `json:"lat"` // actual grid point, not the requested location
	Lon          float64   `json:"lon"`
	ValidTime    time.Time `json:"valid_time"`
	PressureHPa  []float64 `json:"pressure_hpa"`
	TemperatureC []float64 `json:"temperature_c"`
	DewpointC    []float64 `json:"dewpoint_c"`
	WindU        []float64 `json:"wind_u"`
	WindV        []float64 `json:"wind_v"`
}

// Sounding extracts the profile at the grid point nearest to (lat,
// lon). Dewpoint is derived from specific humidity.
func (d *Dataset) Sounding(lat, lon float64, sel TimeSelector, vars SoundingVars) (*Sounding, error) {
	ti, err := d.resolveTime(sel)
	if err != nil {
		return nil, err
	}
	latIdx := interp.NearestIndex(d.lats, lat)
	lonIdx := interp.NearestIndex(d.lons, lon)

	tempK, err := d.readColumn(vars.Temperature, ti, latIdx, lonIdx)
	if err != nil {
		return nil, err
	}
	humidity, err := d.readColumn(vars.Humidity, ti, latIdx, lonIdx)
	if err != nil {
		return nil, err
	}
	windU, err := d.readColumn(vars.WindU, ti, latIdx, lonIdx)
	if err != nil {
		return nil, err
	}
	windV, err := d.readColumn(vars.WindV, ti, latIdx, lonIdx)
	if err != nil {
		return nil, err
	}

	// Reorder bottom-up regardless of how the file stores the axis.
	order := make([]int, len(d.levels))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return d.levels[order[a]] > d.levels[order[b]]
	})

	s := &Sounding{
		Lat:          d.lats[latIdx],
		Lon:          d.lons[lonIdx],
		ValidTime:    d.times[ti],
		PressureHPa:  make([]float64, len(order)),
		TemperatureC: make([]float64, len(order)),
		DewpointC:    make([]float64, len(order)),
		WindU:        make([]float64, len(order)),
		WindV:        make([]float64, len(order)),
	}
	for i, idx := range order {
		p := d.levels[idx]
		s.PressureHPa[i] = p
		s.TemperatureC[i] = domain.KelvinToCelsius(tempK[idx])
		s.DewpointC[i] = domain.DewpointFromSpecificHumidity(p, humidity[idx])
		s.WindU[i] = windU[idx]
		s.WindV[i] = windV[idx]
	}
	return s, nil
}
