package engine

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/particle-sandbox/physics"
	"github.com/lixenwraith/particle-sandbox/vmath"
)

// Snapshot is a read-only view of a particle at the current clock time
// Every accessor re-reads the particle's history, so a held snapshot follows
// stepping and rewinding without refresh
// Zero value is invalid; comparable, usable as a map key
type Snapshot struct {
	clock *Clock
	body  *physics.Body
}

// Valid reports whether the snapshot refers to a particle
func (s Snapshot) Valid() bool {
	return s.body != nil
}

// ID returns the particle's stable identifier
func (s Snapshot) ID() uuid.UUID {
	return s.body.ID
}

// Position returns the center at the current clock time
func (s Snapshot) Position() vmath.Vec {
	return s.body.PositionAt(s.clock.time)
}

// Velocity returns the velocity at the current clock time
func (s Snapshot) Velocity() vmath.Vec {
	return s.body.VelocityAt(s.clock.time)
}

func (s Snapshot) PositionX() float64 { return s.Position().X }
func (s Snapshot) PositionY() float64 { return s.Position().Y }
func (s Snapshot) VelocityX() float64 { return s.Velocity().X }
func (s Snapshot) VelocityY() float64 { return s.Velocity().Y }
func (s Snapshot) Radius() float64    { return s.body.Radius }
func (s Snapshot) Mass() float64      { return s.body.Mass }
