package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is the model-space vector used throughout the simulation
type Vec = r2.Vec

// V returns a vector from components
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Distance returns the Euclidean distance between a and b
// Computed as sqrt(dx² + dy²), not Hypot
func Distance(a, b Vec) float64 {
	return math.Sqrt(r2.Norm2(r2.Sub(a, b)))
}

// Advance returns the point reached from a after moving with velocity v for duration u
// p(u) = a + v*u
func Advance(a, v Vec, u float64) Vec {
	return Vec{X: a.X + v.X*u, Y: a.Y + v.Y*u}
}

// SlopeComponent returns the component of v parallel to a line of the given slope
// Caller handles the infinite slope case (vertical line)
func SlopeComponent(v Vec, slope float64) Vec {
	d := 1 + slope*slope
	return Vec{
		X: (v.X + slope*v.Y) / d,
		Y: (slope*v.X + slope*slope*v.Y) / d,
	}
}

// Momentum returns m*v
func Momentum(m float64, v Vec) Vec {
	return r2.Scale(m, v)
}

// KineticEnergy returns ½·m·|v|²
func KineticEnergy(m float64, v Vec) float64 {
	return 0.5 * m * r2.Norm2(v)
}
