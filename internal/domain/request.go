// Package domain holds the core value objects of the ERA5 toolkit:
// the CDS request descriptor, the pressure-level vocabulary, the error
// taxonomy, and a few meteorological helper functions.
package domain

import (
	"sort"
	"strconv"
)

// AllPressureLevels is the complete list of ERA5 pressure levels (hPa)
// used for vertical profiles, ordered surface to top. These are the
// archive's native levels between 1000 and 100 hPa.
var AllPressureLevels = []string{
	"1000", "975", "950", "925", "900", "875", "850",
	"825", "800", "775", "750", "700", "650", "600",
	"550", "500", "450", "400", "350", "300",
	"250", "225", "200", "175", "150", "125", "100",
}

// Fixed request parameters for the ERA5 pressure-level dataset.
const (
	ProductTypeReanalysis    = "reanalysis"
	DataFormatNetCDF         = "netcdf"
	DownloadFormatUnarchived = "unarchived"
)

// DefaultArea is the fixed spatial subset [north, west, south, east]
// in degrees covering Europe and the surrounding region.
var DefaultArea = []int{70, -20, 30, 50}

// Request represents a single ERA5 pressure-level data request.
//
// It stores all parameters required to request ERA5 data from the
// Copernicus Climate Data Store. The struct performs no validation of
// its fields; validation happens upstream where the plot-type context
// is known. Instances are never mutated after construction.
type Request struct {
	ProductType    []string
	Variable       []string
	Year           []string
	Month          []string
	Day            []string
	Time           []string
	PressureLevel  []string
	DataFormat     string
	DownloadFormat string
	Area           []int
}

// RequestMap is the CDS-API-compatible mapping form of a Request. It
// is the unit handed to the hasher and to the download collaborator.
type RequestMap map[string]any

// ToMap converts the request to a CDS-API-compatible mapping with the
// fixed key set expected by the retrieve endpoint.
func (r Request) ToMap() RequestMap {
	return RequestMap{
		"product_type":    r.ProductType,
		"variable":        r.Variable,
		"year":            r.Year,
		"month":           r.Month,
		"day":             r.Day,
		"time":            r.Time,
		"pressure_level":  r.PressureLevel,
		"data_format":     r.DataFormat,
		"download_format": r.DownloadFormat,
		"area":            r.Area,
	}
}

// NormalizeLevels converts pressure levels in hPa to the string form
// the CDS API expects, sorted in descending order (surface first) so
// that logically equal level sets always produce the same cache key.
func NormalizeLevels(levels []int) []string {
	sorted := make([]int, len(levels))
	copy(sorted, levels)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	out := make([]string, len(sorted))
	for i, lvl := range sorted {
		out[i] = strconv.Itoa(lvl)
	}
	return out
}
