package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllPressureLevels_SurfaceToTop(t *testing.T) {
	assert.Len(t, AllPressureLevels, 27)
	assert.Equal(t, "1000", AllPressureLevels[0])
	assert.Equal(t, "100", AllPressureLevels[len(AllPressureLevels)-1])
}

func TestToMap_KeySet(t *testing.T) {
	r := Request{
		ProductType:    []string{ProductTypeReanalysis},
		Variable:       []string{"t"},
		Year:           []string{"2025"},
		Month:          []string{"03"},
		Day:            []string{"02"},
		Time:           []string{"00:00"},
		PressureLevel:  []string{"850"},
		DataFormat:     DataFormatNetCDF,
		DownloadFormat: DownloadFormatUnarchived,
		Area:           DefaultArea,
	}

	m := r.ToMap()
	wantKeys := []string{
		"product_type", "variable", "year", "month", "day", "time",
		"pressure_level", "data_format", "download_format", "area",
	}
	assert.Len(t, m, len(wantKeys))
	for _, k := range wantKeys {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, []string{"t"}, m["variable"])
	assert.Equal(t, "netcdf", m["data_format"])
	assert.Equal(t, []int{70, -20, 30, 50}, m["area"])
}

func TestNormalizeLevels_SortsDescending(t *testing.T) {
	assert.Equal(t, []string{"1000", "850", "500"}, NormalizeLevels([]int{500, 1000, 850}))
	assert.Equal(t, []string{"850"}, NormalizeLevels([]int{850}))
	assert.Empty(t, NormalizeLevels(nil))
}

func TestNormalizeLevels_DoesNotMutateInput(t *testing.T) {
	in := []int{500, 1000, 850}
	NormalizeLevels(in)
	assert.Equal(t, []int{500, 1000, 850}, in)
}
