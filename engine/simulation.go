// Package engine owns the particle set and the logical clock
//
// A Simulation advances or rewinds every particle one tick at a time and
// validates property edits against the overlap invariant. Callers receive
// Snapshots, read-only views that always reflect the current clock time.
// All methods must be called from a single goroutine.
package engine

import (
	"math"
	"sync/atomic"

	"github.com/lixenwraith/particle-sandbox/physics"
	"github.com/lixenwraith/particle-sandbox/status"
	"github.com/lixenwraith/particle-sandbox/vmath"
)

// Defaults match the interactive sandbox
const (
	DefaultGravity               = physics.GravityIntegrate
	DefaultCollisions            = physics.CollisionElastic
	DefaultGravitationalConstant = 1.0
	DefaultTheta                 = 0.5
)

// Option configures a Simulation at construction
type Option func(*Simulation)

// WithGravity selects the gravity model
func WithGravity(mode physics.GravityMode) Option {
	return func(s *Simulation) { s.gravityMode = mode }
}

// WithCollisions selects the collision model
func WithCollisions(mode physics.CollisionMode) Option {
	return func(s *Simulation) { s.collisionMode = mode }
}

// WithGravitationalConstant sets G; not clamped
func WithGravitationalConstant(g float64) Option {
	return func(s *Simulation) { s.g = g }
}

// WithDensity sets the mass per cubed radius for created particles
func WithDensity(density float64) Option {
	return func(s *Simulation) { s.density = density }
}

// WithTheta sets the Barnes-Hut opening angle for physics.GravityApproximate
func WithTheta(theta float64) Option {
	return func(s *Simulation) { s.theta = theta }
}

// WithRegistry publishes step metrics into reg
func WithRegistry(reg *status.Registry) Option {
	return func(s *Simulation) { s.registry = reg }
}

// Simulation is the particle set advanced over an integer clock
type Simulation struct {
	clock  *Clock
	bodies []*physics.Body

	gravityMode   physics.GravityMode
	collisionMode physics.CollisionMode
	g             float64
	density       float64
	theta         float64

	registry *status.Registry

	// Cached metric pointers
	statSteps      *atomic.Int64
	statCollisions *atomic.Int64
	statTruncated  *atomic.Int64
	statParticles  *atomic.Int64
	statTime       *atomic.Int64
	statG          *status.AtomicFloat
	statPeakSpeed  *status.AtomicFloat
	statGravity    *status.AtomicString
	statCollision  *status.AtomicString
}

// New creates an empty simulation at time 0
func New(opts ...Option) *Simulation {
	s := &Simulation{
		clock:         &Clock{},
		gravityMode:   DefaultGravity,
		collisionMode: DefaultCollisions,
		g:             DefaultGravitationalConstant,
		density:       physics.DefaultDensity,
		theta:         DefaultTheta,
	}
	for _, opt := range opts {
		opt(s)
	}

	stats := s.registry.Scope("sim")
	s.statSteps = stats.Int("steps")
	s.statCollisions = stats.Int("collisions")
	s.statTruncated = stats.Int("truncated_ticks")
	s.statParticles = stats.Int("particles")
	s.statTime = stats.Int("time")
	s.statG = stats.Float("gravitational_constant")
	s.statPeakSpeed = stats.Float("peak_closing_speed")
	s.statGravity = stats.Label("gravity_mode")
	s.statCollision = stats.Label("collision_mode")

	s.statG.Store(s.g)
	s.statGravity.StoreLabel(s.gravityMode)
	s.statCollision.StoreLabel(s.collisionMode)

	return s
}

// Time returns the current tick
func (s *Simulation) Time() int {
	return s.clock.time
}

// Clock returns the shared clock handle
func (s *Simulation) Clock() *Clock {
	return s.clock
}

// Step advances every particle by one tick
// Precondition: no particle has history beyond the current time
func (s *Simulation) Step() physics.Report {
	s.clock.time++

	report := physics.Solve(
		s.bodies,
		s.clock.time,
		physics.NewGravityModel(s.gravityMode, s.theta),
		physics.NewCollisionModel(s.collisionMode),
		s.g,
	)

	s.statSteps.Add(1)
	s.statCollisions.Add(int64(len(report.Contacts)))
	for _, c := range report.Contacts {
		s.statPeakSpeed.StoreMax(c.ClosingSpeed)
	}
	if report.Truncated {
		s.statTruncated.Add(1)
	}
	s.statTime.Store(int64(s.clock.time))
	return report
}

// StepBack rewinds one tick and discards every record after the new time
// Returns false without change at time 0 or when a particle was created after the target time
func (s *Simulation) StepBack() bool {
	target := s.clock.time - 1
	if target < 0 {
		return false
	}
	for _, b := range s.bodies {
		if b.Position.FirstTime() > target {
			return false
		}
	}

	s.clock.time = target
	for _, b := range s.bodies {
		b.ClearAfter(target)
	}
	s.statTime.Store(int64(target))
	return true
}

// CreateParticle adds a particle at rest centered at (cx, cy)
// Returns false for a zero radius or when the circle would overlap an existing particle
func (s *Simulation) CreateParticle(cx, cy, r float64) (Snapshot, bool) {
	if r == 0 {
		return Snapshot{}, false
	}

	body := physics.NewBody(s.clock.time, vmath.V(cx, cy), r, s.density)
	for _, other := range s.bodies {
		if other.Overlaps(s.clock.time, body) {
			return Snapshot{}, false
		}
	}

	s.bodies = append(s.bodies, body)
	s.statParticles.Store(int64(len(s.bodies)))
	return s.snapshot(body), true
}

// AddParticle reinserts a previously created particle
// No-op if the particle is already present
func (s *Simulation) AddParticle(p Snapshot) {
	if s.indexOf(p.body) >= 0 {
		return
	}
	s.bodies = append(s.bodies, p.body)
	s.statParticles.Store(int64(len(s.bodies)))
}

// RemoveParticle drops the particle; no-op if absent
func (s *Simulation) RemoveParticle(p Snapshot) {
	i := s.indexOf(p.body)
	if i < 0 {
		return
	}
	s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
	s.statParticles.Store(int64(len(s.bodies)))
}

// Particles returns snapshots of every live particle in insertion order
func (s *Simulation) Particles() []Snapshot {
	snapshots := make([]Snapshot, len(s.bodies))
	for i, b := range s.bodies {
		snapshots[i] = s.snapshot(b)
	}
	return snapshots
}

// Contains reports whether p is currently part of the simulation
func (s *Simulation) Contains(p Snapshot) bool {
	return s.indexOf(p.body) >= 0
}

func (s *Simulation) snapshot(b *physics.Body) Snapshot {
	return Snapshot{clock: s.clock, body: b}
}

func (s *Simulation) indexOf(b *physics.Body) int {
	for i, other := range s.bodies {
		if other == b {
			return i
		}
	}
	return -1
}

// isValidUpdate checks the candidate center and radius against every other particle
func (s *Simulation) isValidUpdate(b *physics.Body, center vmath.Vec, radius float64) bool {
	for _, other := range s.bodies {
		if other == b {
			continue
		}
		if vmath.Distance(center, other.PositionAt(s.clock.time)) <= radius+other.Radius {
			return false
		}
	}
	return true
}

// IsValidPositionX reports whether moving p to x keeps it clear of every other particle
func (s *Simulation) IsValidPositionX(p Snapshot, x float64) bool {
	center := p.Position()
	center.X = x
	return s.isValidUpdate(p.body, center, p.body.Radius)
}

// IsValidPositionY reports whether moving p to y keeps it clear of every other particle
func (s *Simulation) IsValidPositionY(p Snapshot, y float64) bool {
	center := p.Position()
	center.Y = y
	return s.isValidUpdate(p.body, center, p.body.Radius)
}

// IsValidRadius reports whether resizing p keeps it clear of every other particle
func (s *Simulation) IsValidRadius(p Snapshot, radius float64) bool {
	return s.isValidUpdate(p.body, p.Position(), radius)
}

// SetPositionX records a new center x at the current time without validation
func (s *Simulation) SetPositionX(p Snapshot, x float64) {
	center := p.Position()
	center.X = x
	p.body.Position.AddLast(s.clock.time, center)
}

// SetPositionY records a new center y at the current time without validation
func (s *Simulation) SetPositionY(p Snapshot, y float64) {
	center := p.Position()
	center.Y = y
	p.body.Position.AddLast(s.clock.time, center)
}

// SetVelocityX records a new velocity x at the current time
func (s *Simulation) SetVelocityX(p Snapshot, vx float64) {
	v := p.Velocity()
	v.X = vx
	p.body.Velocity.AddLast(s.clock.time, v)
}

// SetVelocityY records a new velocity y at the current time
func (s *Simulation) SetVelocityY(p Snapshot, vy float64) {
	v := p.Velocity()
	v.Y = vy
	p.body.Velocity.AddLast(s.clock.time, v)
}

// SetRadius resizes p without validation; radius is not time-indexed
func (s *Simulation) SetRadius(p Snapshot, radius float64) {
	p.body.Radius = radius
}

// SetMass sets p's mass; mass is not time-indexed
func (s *Simulation) SetMass(p Snapshot, mass float64) {
	p.body.Mass = mass
}

// DistanceToClosest returns the gap between point and the nearest particle surface
// Negative inside a particle, +Inf with no particles
func (s *Simulation) DistanceToClosest(point vmath.Vec) float64 {
	closest := math.Inf(1)
	for _, b := range s.bodies {
		d := vmath.Distance(point, b.PositionAt(s.clock.time)) - b.Radius
		if d < closest {
			closest = d
		}
	}
	return closest
}

func (s *Simulation) GravityMode() physics.GravityMode     { return s.gravityMode }
func (s *Simulation) CollisionMode() physics.CollisionMode { return s.collisionMode }
func (s *Simulation) GravitationalConstant() float64       { return s.g }
func (s *Simulation) Density() float64                     { return s.density }
func (s *Simulation) Theta() float64                       { return s.theta }

// SetGravityMode selects the gravity model for subsequent steps
func (s *Simulation) SetGravityMode(mode physics.GravityMode) {
	s.gravityMode = mode
	s.statGravity.StoreLabel(mode)
}

// SetCollisionMode selects the collision model for subsequent steps
func (s *Simulation) SetCollisionMode(mode physics.CollisionMode) {
	s.collisionMode = mode
	s.statCollision.StoreLabel(mode)
}

// SetGravitationalConstant sets G for subsequent steps; not clamped
func (s *Simulation) SetGravitationalConstant(g float64) {
	s.g = g
	s.statG.Store(g)
}
