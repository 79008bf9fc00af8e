package era5

import (
	"fmt"
	"math"

	"github.com/fhs/go-netcdf/netcdf"
)

// readFloat64Var reads a 1D array from a NetCDF variable, converting
// to float64.
func readFloat64Var(v netcdf.Var) ([]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D variable, got %dD", len(dims))
	}
	length, err := dims[0].Len()
	if err != nil {
		return nil, err
	}

	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}

	n := int(length)
	switch t {
	case netcdf.DOUBLE:
		data := make([]float64, n)
		if err := v.ReadFloat64s(data); err != nil {
			return nil, err
		}
		return data, nil
	case netcdf.FLOAT:
		tmp := make([]float32, n)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		return toFloat64(tmp), nil
	case netcdf.INT:
		tmp := make([]int32, n)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, err
		}
		return toFloat64(tmp), nil
	case netcdf.SHORT:
		tmp := make([]int16, n)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, err
		}
		return toFloat64(tmp), nil
	case netcdf.INT64:
		tmp := make([]int64, n)
		if err := v.ReadInt64s(tmp); err != nil {
			return nil, err
		}
		return toFloat64(tmp), nil
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}
}

// readFloat64Slice reads a hyperslab from a NetCDF variable,
// converting to float64.
func readFloat64Slice(v netcdf.Var, start, count []uint64, total int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}

	switch t {
	case netcdf.DOUBLE:
		data := make([]float64, total)
		if err := v.ReadFloat64Slice(data, start, count); err != nil {
			return nil, err
		}
		return data, nil
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32Slice(tmp, start, count); err != nil {
			return nil, err
		}
		return toFloat64(tmp), nil
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if err := v.ReadInt16Slice(tmp, start, count); err != nil {
			return nil, err
		}
		return toFloat64(tmp), nil
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32Slice(tmp, start, count); err != nil {
			return nil, err
		}
		return toFloat64(tmp), nil
	default:
		return nil, fmt.Errorf("unsupported data type: %v", t)
	}
}

func toFloat64[T float32 | int16 | int32 | int64](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// applyPacking maps fill values to NaN and applies the scale_factor
// and add_offset attributes used by packed ERA5 variables.
func applyPacking(v netcdf.Var, data []float64) {
	fill, hasFill := attrFloat(v, "_FillValue", "missing_value")
	scale, hasScale := attrFloat(v, "scale_factor")
	offset, hasOffset := attrFloat(v, "add_offset")

	for i, raw := range data {
		if hasFill && raw == fill {
			data[i] = math.NaN()
			continue
		}
		if hasScale {
			data[i] *= scale
		}
		if hasOffset {
			data[i] += offset
		}
	}
}

// attrFloat returns the first of the named attributes present on the
// variable, as float64.
func attrFloat(v netcdf.Var, names ...string) (float64, bool) {
	for _, name := range names {
		a := v.Attr(name)
		if a == (netcdf.Attr{}) {
			continue
		}
		n, err := a.Len()
		if err != nil || n == 0 {
			continue
		}
		buf64 := make([]float64, 1)
		if err := a.ReadFloat64s(buf64); err == nil {
			return buf64[0], true
		}
		buf32 := make([]float32, 1)
		if err := a.ReadFloat32s(buf32); err == nil {
			return float64(buf32[0]), true
		}
		bufi := make([]int32, 1)
		if err := a.ReadInt32s(bufi); err == nil {
			return float64(bufi[0]), true
		}
	}
	return 0, false
}
