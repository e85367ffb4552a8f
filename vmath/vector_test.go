package vmath

import (
	"math"
	"testing"
)

func TestQuadraticRoots(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		hi, lo  float64
	}{
		{"two roots", 1, -3, 2, 2, 1},
		{"double root", 1, -2, 1, 1, 1},
		{"negative a", -1, 0, 4, -2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hi, lo := QuadraticRoots(tt.a, tt.b, tt.c)
			if hi != tt.hi || lo != tt.lo {
				t.Errorf("QuadraticRoots(%v, %v, %v) = (%v, %v), expected (%v, %v)", tt.a, tt.b, tt.c, hi, lo, tt.hi, tt.lo)
			}
		})
	}
}

// TestQuadraticRoots_Degenerate verifies degenerate inputs fail every range comparison
func TestQuadraticRoots_Degenerate(t *testing.T) {
	cases := [][3]float64{
		{1, 0, 1}, // Negative discriminant
		{0, 0, 1}, // No relative motion
	}
	for _, c := range cases {
		hi, lo := QuadraticRoots(c[0], c[1], c[2])
		for _, r := range []float64{hi, lo} {
			if r > 0 && r <= 1 {
				t.Errorf("QuadraticRoots(%v) produced in-range root %v", c, r)
			}
		}
	}
	if _, lo := QuadraticRoots(1, 0, 1); !math.IsNaN(lo) {
		t.Errorf("Expected NaN for negative discriminant, got %v", lo)
	}
}

func TestVectorHelpers(t *testing.T) {
	if d := Distance(V(0, 0), V(3, 4)); d != 5 {
		t.Errorf("Distance = %v, expected 5", d)
	}
	if p := Advance(V(1, 2), V(4, -2), 0.5); p != V(3, 1) {
		t.Errorf("Advance = %v, expected (3, 1)", p)
	}
	if m := Momentum(2, V(3, -1)); m != V(6, -2) {
		t.Errorf("Momentum = %v, expected (6, -2)", m)
	}
	if e := KineticEnergy(2, V(3, 4)); e != 25 {
		t.Errorf("KineticEnergy = %v, expected 25", e)
	}
}

func TestSlopeComponent(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec
		slope    float64
		expected Vec
	}{
		{"horizontal line keeps x", V(3, 4), 0, V(3, 0)},
		{"diagonal", V(2, 0), 1, V(1, 1)},
		{"perpendicular vanishes", V(1, -1), 1, V(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlopeComponent(tt.v, tt.slope); got != tt.expected {
				t.Errorf("SlopeComponent(%v, %v) = %v, expected %v", tt.v, tt.slope, got, tt.expected)
			}
		})
	}
}
