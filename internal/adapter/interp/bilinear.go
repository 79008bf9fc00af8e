// Package interp provides bilinear interpolation on the regular
// lat/lon grids of ERA5 fields, used when sampling vertical transects.
package interp

import (
	"fmt"
	"math"
)

// GridCell represents a cell in a regular grid with four corner values.
type GridCell struct {
	// Corner coordinates (forming a rectangle).
	X0, X1 float64 // X boundaries (e.g., longitude).
	Y0, Y1 float64 // Y boundaries (e.g., latitude).

	// Values at the four corners:
	// V00: value at (X0, Y0).
	// V10: value at (X1, Y0).
	// V01: value at (X0, Y1).
	// V11: value at (X1, Y1).
	V00, V10, V01, V11 float64
}

// BilinearInterpolate performs bilinear interpolation within a grid cell.
// Formula:
//
//	f(x,y) ≈ (1-t)(1-u)f(x0,y0) + t(1-u)f(x1,y0) + (1-t)u*f(x0,y1) + tu*f(x1,y1)
//
// where:
//
//	t = (x - x0) / (x1 - x0)
//	u = (y - y0) / (y1 - y0)
func BilinearInterpolate(cell GridCell, x, y float64) (float64, error) {
	if cell.X1 <= cell.X0 {
		return 0, fmt.Errorf("invalid grid cell: X1 must be > X0")
	}
	if cell.Y1 <= cell.Y0 {
		return 0, fmt.Errorf("invalid grid cell: Y1 must be > Y0")
	}

	// Check if point is within cell (with small tolerance for floating point).
	const epsilon = 1e-9
	if x < cell.X0-epsilon || x > cell.X1+epsilon {
		return 0, fmt.Errorf("x coordinate %.6f is outside grid cell [%.6f, %.6f]", x, cell.X0, cell.X1)
	}
	if y < cell.Y0-epsilon || y > cell.Y1+epsilon {
		return 0, fmt.Errorf("y coordinate %.6f is outside grid cell [%.6f, %.6f]", y, cell.Y0, cell.Y1)
	}

	t := (x - cell.X0) / (cell.X1 - cell.X0)
	u := (y - cell.Y0) / (cell.Y1 - cell.Y0)

	// Clamp to [0, 1] to handle edge cases with floating point precision.
	t = math.Max(0, math.Min(1, t))
	u = math.Max(0, math.Min(1, u))

	result := (1-t)*(1-u)*cell.V00 +
		t*(1-u)*cell.V10 +
		(1-t)*u*cell.V01 +
		t*u*cell.V11

	return result, nil
}

// Grid2D represents a regular 2D grid for interpolation. Axes may be
// ascending or descending; ERA5 stores latitude north-to-south.
type Grid2D struct {
	X      []float64   // X coordinates (e.g., longitudes).
	Y      []float64   // Y coordinates (e.g., latitudes).
	Values [][]float64 // Values[i][j] corresponds to (X[j], Y[i]).
}

// Validate checks if the grid is valid.
func (g *Grid2D) Validate() error {
	if len(g.X) < 2 || len(g.Y) < 2 {
		return fmt.Errorf("grid needs at least 2 points per axis, got %dx%d", len(g.Y), len(g.X))
	}
	if len(g.Values) != len(g.Y) {
		return fmt.Errorf("values have %d rows, expected %d", len(g.Values), len(g.Y))
	}
	for i, row := range g.Values {
		if len(row) != len(g.X) {
			return fmt.Errorf("row %d has %d columns, expected %d", i, len(row), len(g.X))
		}
	}
	if !monotonic(g.X) || !monotonic(g.Y) {
		return fmt.Errorf("grid axes must be strictly monotonic")
	}
	return nil
}

// At interpolates the grid value at (x, y).
func (g *Grid2D) At(x, y float64) (float64, error) {
	j0, j1, err := bracket(g.X, x)
	if err != nil {
		return 0, fmt.Errorf("x=%.6f: %w", x, err)
	}
	i0, i1, err := bracket(g.Y, y)
	if err != nil {
		return 0, fmt.Errorf("y=%.6f: %w", y, err)
	}

	cell := GridCell{
		X0:  g.X[j0],
		X1:  g.X[j1],
		Y0:  g.Y[i0],
		Y1:  g.Y[i1],
		V00: g.Values[i0][j0],
		V10: g.Values[i0][j1],
		V01: g.Values[i1][j0],
		V11: g.Values[i1][j1],
	}
	return BilinearInterpolate(cell, x, y)
}

// bracket finds indices lo, hi such that axis[lo] <= v <= axis[hi] and
// axis[lo] < axis[hi], for an ascending or descending axis.
func bracket(axis []float64, v float64) (lo, hi int, err error) {
	n := len(axis)
	if n < 2 {
		return 0, 0, fmt.Errorf("axis too short")
	}

	ascending := axis[0] < axis[n-1]
	minVal, maxVal := axis[0], axis[n-1]
	if !ascending {
		minVal, maxVal = maxVal, minVal
	}
	if v < minVal || v > maxVal {
		return 0, 0, fmt.Errorf("value outside axis range [%.6f, %.6f]", minVal, maxVal)
	}

	for i := 0; i < n-1; i++ {
		a, b := axis[i], axis[i+1]
		if ascending && v >= a && v <= b {
			return i, i + 1, nil
		}
		if !ascending && v <= a && v >= b {
			// Swap so the returned pair is ascending in coordinate.
			return i + 1, i, nil
		}
	}
	return 0, 0, fmt.Errorf("value %.6f not bracketed", v)
}

func monotonic(axis []float64) bool {
	if len(axis) < 2 {
		return false
	}
	ascending := axis[0] < axis[1]
	for i := 0; i < len(axis)-1; i++ {
		if ascending && axis[i+1] <= axis[i] {
			return false
		}
		if !ascending && axis[i+1] >= axis[i] {
			return false
		}
	}
	return true
}

// NearestIndex returns the index of the axis value closest to v.
func NearestIndex(axis []float64, v float64) int {
	best := 0
	bestDist := math.Abs(axis[0] - v)
	for i := 1; i < len(axis); i++ {
		if d := math.Abs(axis[i] - v); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
