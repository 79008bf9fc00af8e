package interp

import (
	"math"
	"testing"
)

// TestBilinearInterpolate_CenterPoint tests interpolation at the center of a grid cell
func TestBilinearInterpolate_CenterPoint(t *testing.T) {
	cell := GridCell{
		X0: 0.0, X1: 2.0,
		Y0: 0.0, Y1: 2.0,
		V00: 1.0, V10: 3.0,
		V01: 5.0, V11: 7.0,
	}

	// At center (1.0, 1.0), t=0.5, u=0.5
	// Result = 0.25 * (1 + 3 + 5 + 7) = 4.0
	result, err := BilinearInterpolate(cell, 1.0, 1.0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(result-4.0) > 1e-9 {
		t.Errorf("Center point: expected 4.0, got %.10f", result)
	}
}

// TestBilinearInterpolate_CornerPoints tests that corners return exact values
func TestBilinearInterpolate_CornerPoints(t *testing.T) {
	cell := GridCell{
		X0: 0.0, X1: 10.0,
		Y0: 0.0, Y1: 10.0,
		V00: 1.0, V10: 2.0,
		V01: 3.0, V11: 4.0,
	}

	tests := []struct {
		x, y     float64
		expected float64
		name     string
	}{
		{0.0, 0.0, 1.0, "bottom-left"},
		{10.0, 0.0, 2.0, "bottom-right"},
		{0.0, 10.0, 3.0, "top-left"},
		{10.0, 10.0, 4.0, "top-right"},
	}

	for _, tt := range tests {
		result, err := BilinearInterpolate(cell, tt.x, tt.y)
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", tt.name, err)
		}
		if math.Abs(result-tt.expected) > 1e-9 {
			t.Errorf("%s corner: expected %.10f, got %.10f", tt.name, tt.expected, result)
		}
	}
}

// TestBilinearInterpolate_OutsideCell tests that out-of-cell points error
func TestBilinearInterpolate_OutsideCell(t *testing.T) {
	cell := GridCell{
		X0: 0.0, X1: 1.0,
		Y0: 0.0, Y1: 1.0,
	}
	if _, err := BilinearInterpolate(cell, 2.0, 0.5); err == nil {
		t.Error("Expected error for x outside cell")
	}
	if _, err := BilinearInterpolate(cell, 0.5, -1.0); err == nil {
		t.Error("Expected error for y outside cell")
	}
}

// TestGrid2D_AscendingAxes tests interpolation on a plane V = x + 2y
func TestGrid2D_AscendingAxes(t *testing.T) {
	g := &Grid2D{
		X: []float64{0, 1, 2},
		Y: []float64{0, 1, 2},
		Values: [][]float64{
			{0, 1, 2},
			{2, 3, 4},
			{4, 5, 6},
		},
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	got, err := g.At(1.5, 0.5)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if math.Abs(got-2.5) > 1e-9 {
		t.Errorf("expected 2.5, got %.10f", got)
	}
}

// TestGrid2D_DescendingLatitude mirrors the ERA5 north-to-south axis
func TestGrid2D_DescendingLatitude(t *testing.T) {
	// Same plane V = x + 2y, but rows stored north-first (y descending).
	g := &Grid2D{
		X: []float64{0, 1, 2},
		Y: []float64{2, 1, 0},
		Values: [][]float64{
			{4, 5, 6},
			{2, 3, 4},
			{0, 1, 2},
		},
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	got, err := g.At(1.5, 0.5)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if math.Abs(got-2.5) > 1e-9 {
		t.Errorf("expected 2.5, got %.10f", got)
	}
}

// TestGrid2D_OutOfRange tests that sampling outside the grid errors
func TestGrid2D_OutOfRange(t *testing.T) {
	g := &Grid2D{
		X:      []float64{0, 1},
		Y:      []float64{0, 1},
		Values: [][]float64{{0, 0}, {0, 0}},
	}
	if _, err := g.At(5, 0.5); err == nil {
		t.Error("Expected error for x outside grid")
	}
	if _, err := g.At(0.5, -5); err == nil {
		t.Error("Expected error for y outside grid")
	}
}

// TestGrid2D_ValidateRejectsBadShapes tests shape and monotonicity checks
func TestGrid2D_ValidateRejectsBadShapes(t *testing.T) {
	bad := []*Grid2D{
		{X: []float64{0}, Y: []float64{0, 1}, Values: [][]float64{{0}, {0}}},
		{X: []float64{0, 1}, Y: []float64{0, 1}, Values: [][]float64{{0, 0}}},
		{X: []float64{0, 1}, Y: []float64{0, 1}, Values: [][]float64{{0}, {0}}},
		{X: []float64{0, 0}, Y: []float64{0, 1}, Values: [][]float64{{0, 0}, {0, 0}}},
	}
	for i, g := range bad {
		if err := g.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

// TestNearestIndex tests nearest-neighbor index lookup on both axis directions
func TestNearestIndex(t *testing.T) {
	asc := []float64{0, 10, 20, 30}
	if got := NearestIndex(asc, 12); got != 1 {
		t.Errorf("ascending: expected 1, got %d", got)
	}
	if got := NearestIndex(asc, -100); got != 0 {
		t.Errorf("below range: expected 0, got %d", got)
	}

	desc := []float64{70, 60, 50, 40}
	if got := NearestIndex(desc, 52); got != 2 {
		t.Errorf("descending: expected 2, got %d", got)
	}
}
