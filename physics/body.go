// Package physics advances circular bodies through one tick of the logical clock
//
// Every body carries its own position and velocity history. Solve runs the
// selected gravity model, then the selected collision model, and commits the
// resulting kinematics at the new clock time.
package physics

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/particle-sandbox/timeseries"
	"github.com/lixenwraith/particle-sandbox/vmath"
)

// DefaultDensity is the mass per cubed radius unit for new bodies
const DefaultDensity = 1.0

// Body is a rigid circle with kinematic history over the logical clock
// Invariant: Position and Velocity share the same last timestamp after a committed step
type Body struct {
	ID       uuid.UUID
	Position *timeseries.Series[int, vmath.Vec]
	Velocity *timeseries.Series[int, vmath.Vec]
	Radius   float64
	Mass     float64
}

// MassForRadius returns density·r³
func MassForRadius(radius, density float64) float64 {
	return density * radius * radius * radius
}

// NewBody creates a body at rest seeded at time
func NewBody(time int, center vmath.Vec, radius, density float64) *Body {
	return &Body{
		ID:       uuid.New(),
		Position: timeseries.New(time, center),
		Velocity: timeseries.New(time, vmath.Vec{}),
		Radius:   radius,
		Mass:     MassForRadius(radius, density),
	}
}

// PositionAt returns the center at clock time t
func (b *Body) PositionAt(t int) vmath.Vec {
	return b.Position.FirstNotAfter(t)
}

// VelocityAt returns the velocity at clock time t
func (b *Body) VelocityAt(t int) vmath.Vec {
	return b.Velocity.FirstNotAfter(t)
}

// Overlaps reports whether the two circles touch or intersect at time t
func (b *Body) Overlaps(t int, other *Body) bool {
	return b.Radius+other.Radius >= vmath.Distance(b.PositionAt(t), other.PositionAt(t))
}

// ClearAfter discards kinematic history strictly after t
func (b *Body) ClearAfter(t int) {
	b.Position.ClearAfter(t)
	b.Velocity.ClearAfter(t)
}
