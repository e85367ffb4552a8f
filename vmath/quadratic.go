package vmath

import "math"

// QuadraticRoots solves a·x² + b·x + c = 0 with the closed-form formula
// Returns (-b+√Δ)/2a and (-b-√Δ)/2a in that order
// Negative discriminant yields NaN for both roots; a == 0 yields ±Inf or NaN
// Both cases fail every range comparison, which callers rely on
func QuadraticRoots(a, b, c float64) (float64, float64) {
	term := math.Sqrt(b*b - 4*a*c)
	return (-b + term) / (2 * a), (-b - term) / (2 * a)
}
