package physics

import (
	"math"

	"github.com/lixenwraith/particle-sandbox/timeseries"
	"github.com/lixenwraith/particle-sandbox/vmath"
)

// Step accumulates one body's motion over a single tick
// Local time u runs over [0, 1]; u=0 is the last committed state
// Invariant: last position and velocity entries share the same timestamp
type Step struct {
	body         *Body
	acceleration vmath.Vec
	positions    *timeseries.Series[float64, vmath.Vec]
	velocities   *timeseries.Series[float64, vmath.Vec]
}

// NewStep seeds a step from the body's last committed kinematics
func NewStep(b *Body) *Step {
	return &Step{
		body:       b,
		positions:  timeseries.New(0.0, b.Position.Last()),
		velocities: timeseries.New(0.0, b.Velocity.Last()),
	}
}

// Body returns the body this step advances
func (s *Step) Body() *Body {
	return s.body
}

// Mass implements barneshut.Particle2
func (s *Step) Mass() float64 {
	return s.body.Mass
}

// Coord2 implements barneshut.Particle2, the start-of-tick position
func (s *Step) Coord2() vmath.Vec {
	return s.PositionAt(0)
}

// PositionAt returns the position at local time u
// Velocity is constant between recorded kinematics, so motion is affine
func (s *Step) PositionAt(u float64) vmath.Vec {
	e := s.positions.EntryNotAfter(u)
	return vmath.Advance(e.Value, s.VelocityAt(u), u-e.Time)
}

// VelocityAt returns the velocity at local time u
func (s *Step) VelocityAt(u float64) vmath.Vec {
	return s.velocities.FirstNotAfter(u)
}

// LastTime returns the local time of the latest recorded kinematics
func (s *Step) LastTime() float64 {
	return s.positions.LastTime()
}

// SetKinematics records position and velocity at local time u
func (s *Step) SetKinematics(u float64, position, velocity vmath.Vec) {
	s.positions.AddLast(u, position)
	s.velocities.AddLast(u, velocity)
}

// ApplyForce sets a constant acceleration f/m for the tick
// Half the velocity increment is applied at u=0 and the other half on commit,
// so collision detection sees the mid-tick velocity as a constant
func (s *Step) ApplyForce(f vmath.Vec) {
	s.acceleration = vmath.Vec{X: f.X / s.body.Mass, Y: f.Y / s.body.Mass}
	v := s.velocities.Last()
	s.velocities.AddLast(s.velocities.LastTime(), vmath.Vec{
		X: v.X + s.acceleration.X/2,
		Y: v.Y + s.acceleration.Y/2,
	})
}

// CollisionTime returns the local time within the tick at which the two circles
// first touch. Both centers are parameterized linearly from the later of the two
// last recorded times to u=1, and |Pa(x) - Pb(x)| = ra + rb is solved as a
// quadratic in x. Only the entry root is reported; the exit root always follows
// a resolved entry and would be invalidated by it
func (s *Step) CollisionTime(other *Step) (float64, bool) {
	startTime := math.Max(s.LastTime(), other.LastTime())
	const endTime = 1.0

	start := s.PositionAt(startTime)
	end := s.PositionAt(endTime)
	otherStart := other.PositionAt(startTime)
	otherEnd := other.PositionAt(endTime)

	deltaX := otherEnd.X - otherStart.X - end.X + start.X
	deltaY := otherEnd.Y - otherStart.Y - end.Y + start.Y
	offsetX := otherStart.X - start.X
	offsetY := otherStart.Y - start.Y
	radiusSum := s.body.Radius + other.body.Radius

	a := deltaX*deltaX + deltaY*deltaY
	b := 2 * (offsetX*deltaX + offsetY*deltaY)
	c := offsetX*offsetX + offsetY*offsetY - radiusSum*radiusSum

	// Already in contact: collide now only while approaching
	// Roots of an overlapping pair are not scanned, so a pair that overlaps at
	// tick start never reports a later contact in (0, 1]
	if c <= 0 {
		if b < 0 {
			return startTime, true
		}
		return 0, false
	}

	_, lo := vmath.QuadraticRoots(a, b, c)
	if lo > 0 && lo <= 1 {
		return startTime + (endTime-startTime)*lo, true
	}
	return 0, false
}

// Commit writes the end-of-tick kinematics into the body's history at clock
func (s *Step) Commit(clock int) {
	v := s.velocities.Last()
	final := vmath.Vec{
		X: v.X + s.acceleration.X/2,
		Y: v.Y + s.acceleration.Y/2,
	}
	s.body.Position.AddLast(clock, s.PositionAt(1))
	s.body.Velocity.AddLast(clock, final)
}
