package service

import (
	"log"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/lixenwraith/particle-sandbox/engine"
	"github.com/lixenwraith/particle-sandbox/history"
	"github.com/lixenwraith/particle-sandbox/physics"
	"github.com/lixenwraith/particle-sandbox/status"
	"github.com/lixenwraith/particle-sandbox/vmath"
)

// Op names a reversible engine mutation
type Op string

const (
	OpStep                  Op = "step"
	OpStepBack              Op = "step_back"
	OpAdd                   Op = "add"
	OpRemove                Op = "remove"
	OpPositionX             Op = "position_x"
	OpPositionY             Op = "position_y"
	OpVelocityX             Op = "velocity_x"
	OpVelocityY             Op = "velocity_y"
	OpRadius                Op = "radius"
	OpMass                  Op = "mass"
	OpGravityMode           Op = "gravity_mode"
	OpCollisionMode         Op = "collision_mode"
	OpGravitationalConstant Op = "gravitational_constant"
)

// Change is one history record: an operation, its target particle and the value to set
// Particle is the zero UUID for simulation-wide operations; modes are stored as their numeric value
type Change struct {
	Op       Op        `json:"op"`
	Particle uuid.UUID `json:"particle"`
	Value    float64   `json:"value"`
}

// ParticleSpec describes a particle for Seed
// Zero Mass keeps the density-derived mass
type ParticleSpec struct {
	X, Y, Radius float64
	VX, VY       float64
	Mass         float64
}

// ContactHandler receives the contacts resolved by each step, including replays
type ContactHandler func(report physics.Report)

// Simulation wraps every engine mutation into one history entry
// Edits failing validation are dropped without a history entry
// Not safe for concurrent use
type Simulation struct {
	sim     *engine.Simulation
	history *history.History[Change]

	// Every particle ever created, live or not, so records can refer to IDs
	index map[uuid.UUID]engine.Snapshot

	handlers []ContactHandler

	statUndo     *atomic.Int64
	statRedo     *atomic.Int64
	statRejected *atomic.Int64
	statHistory  *atomic.Int64
}

// NewSimulation wraps sim; reg may be nil
func NewSimulation(sim *engine.Simulation, reg *status.Registry) *Simulation {
	stats := reg.Scope("history")
	s := &Simulation{
		sim:          sim,
		index:        make(map[uuid.UUID]engine.Snapshot),
		statUndo:     stats.Int("undo"),
		statRedo:     stats.Int("redo"),
		statHistory:  stats.Int("depth"),
		statRejected: reg.Scope("sim").Int("rejected_edits"),
	}
	s.history = history.New(s.apply)
	for _, p := range sim.Particles() {
		s.index[p.ID()] = p
	}
	return s
}

// OnContacts registers a handler called after every step
func (s *Simulation) OnContacts(h ContactHandler) {
	s.handlers = append(s.handlers, h)
}

// apply interprets one history record
func (s *Simulation) apply(c Change) {
	switch c.Op {
	case OpStep:
		s.step()
	case OpStepBack:
		s.sim.StepBack()
	case OpGravityMode:
		s.sim.SetGravityMode(physics.GravityMode(c.Value))
	case OpCollisionMode:
		s.sim.SetCollisionMode(physics.CollisionMode(c.Value))
	case OpGravitationalConstant:
		s.sim.SetGravitationalConstant(c.Value)
	default:
		p, ok := s.index[c.Particle]
		if !ok {
			panic("service: history references unknown particle " + c.Particle.String())
		}
		s.applyParticle(c.Op, p, c.Value)
	}
}

func (s *Simulation) applyParticle(op Op, p engine.Snapshot, value float64) {
	switch op {
	case OpAdd:
		s.sim.AddParticle(p)
	case OpRemove:
		s.sim.RemoveParticle(p)
	case OpPositionX:
		s.sim.SetPositionX(p, value)
	case OpPositionY:
		s.sim.SetPositionY(p, value)
	case OpVelocityX:
		s.sim.SetVelocityX(p, value)
	case OpVelocityY:
		s.sim.SetVelocityY(p, value)
	case OpRadius:
		s.sim.SetRadius(p, value)
	case OpMass:
		s.sim.SetMass(p, value)
	default:
		panic("service: unknown history op " + string(op))
	}
}

// record performs a change and appends its inverse to the history
func (s *Simulation) record(undo, redo Change) {
	s.apply(redo)
	s.appendEntry(history.NewBuilder[Change]().Undo(undo).Redo(redo).Build())
}

func (s *Simulation) appendEntry(e history.Entry[Change]) {
	s.history.Append(e)
	undo, _ := s.history.Len()
	s.statHistory.Store(int64(undo))
}

func (s *Simulation) step() physics.Report {
	report := s.sim.Step()
	for _, h := range s.handlers {
		h(report)
	}
	return report
}

func (s *Simulation) reject(op Op, p engine.Snapshot, value float64) {
	s.statRejected.Add(1)
	log.Printf("[SIM] rejected %s=%g on %s at t=%d", op, value, p.ID(), s.sim.Time())
}

// Seed creates the baseline particles without history entries
// Returns the number created; overlapping or zero-radius specs are skipped
func (s *Simulation) Seed(specs []ParticleSpec) int {
	created := 0
	for _, spec := range specs {
		p, ok := s.sim.CreateParticle(spec.X, spec.Y, spec.Radius)
		if !ok {
			log.Printf("[SIM] seed particle at (%g, %g) r=%g rejected", spec.X, spec.Y, spec.Radius)
			continue
		}
		s.sim.SetVelocityX(p, spec.VX)
		s.sim.SetVelocityY(p, spec.VY)
		if spec.Mass > 0 {
			s.sim.SetMass(p, spec.Mass)
		}
		s.index[p.ID()] = p
		created++
	}
	return created
}

// Step advances one tick; undo rewinds it and redo recomputes it
func (s *Simulation) Step() physics.Report {
	report := s.step()
	s.appendEntry(history.NewBuilder[Change]().
		Undo(Change{Op: OpStepBack}).
		Redo(Change{Op: OpStep}).
		Build())
	return report
}

// Undo reverts the latest action; false when there is nothing to undo
func (s *Simulation) Undo() bool {
	if !s.history.Undo() {
		return false
	}
	s.statUndo.Add(1)
	undo, _ := s.history.Len()
	s.statHistory.Store(int64(undo))
	log.Printf("[SIM] undo, t=%d", s.sim.Time())
	return true
}

// Redo replays the latest undone action; false when there is nothing to redo
func (s *Simulation) Redo() bool {
	if !s.history.Redo() {
		return false
	}
	s.statRedo.Add(1)
	undo, _ := s.history.Len()
	s.statHistory.Store(int64(undo))
	log.Printf("[SIM] redo, t=%d", s.sim.Time())
	return true
}

func (s *Simulation) CanUndo() bool { return s.history.CanUndo() }
func (s *Simulation) CanRedo() bool { return s.history.CanRedo() }

// CreateParticle adds a particle at rest; false if the engine rejects it
func (s *Simulation) CreateParticle(cx, cy, r float64) (engine.Snapshot, bool) {
	p, ok := s.sim.CreateParticle(cx, cy, r)
	if !ok {
		s.statRejected.Add(1)
		return engine.Snapshot{}, false
	}
	s.index[p.ID()] = p
	s.appendEntry(history.NewBuilder[Change]().
		Undo(Change{Op: OpRemove, Particle: p.ID()}).
		Redo(Change{Op: OpAdd, Particle: p.ID()}).
		Build())
	return p, true
}

// SetPositionX moves p if the new center is clear of every other particle
func (s *Simulation) SetPositionX(p engine.Snapshot, x float64) bool {
	if !s.sim.IsValidPositionX(p, x) {
		s.reject(OpPositionX, p, x)
		return false
	}
	s.record(
		Change{Op: OpPositionX, Particle: p.ID(), Value: p.PositionX()},
		Change{Op: OpPositionX, Particle: p.ID(), Value: x},
	)
	return true
}

// SetPositionY moves p if the new center is clear of every other particle
func (s *Simulation) SetPositionY(p engine.Snapshot, y float64) bool {
	if !s.sim.IsValidPositionY(p, y) {
		s.reject(OpPositionY, p, y)
		return false
	}
	s.record(
		Change{Op: OpPositionY, Particle: p.ID(), Value: p.PositionY()},
		Change{Op: OpPositionY, Particle: p.ID(), Value: y},
	)
	return true
}

// SetRadius resizes p if the new circle is clear of every other particle
func (s *Simulation) SetRadius(p engine.Snapshot, radius float64) bool {
	if radius <= 0 || !s.sim.IsValidRadius(p, radius) {
		s.reject(OpRadius, p, radius)
		return false
	}
	s.record(
		Change{Op: OpRadius, Particle: p.ID(), Value: p.Radius()},
		Change{Op: OpRadius, Particle: p.ID(), Value: radius},
	)
	return true
}

func (s *Simulation) SetVelocityX(p engine.Snapshot, vx float64) {
	s.record(
		Change{Op: OpVelocityX, Particle: p.ID(), Value: p.VelocityX()},
		Change{Op: OpVelocityX, Particle: p.ID(), Value: vx},
	)
}

func (s *Simulation) SetVelocityY(p engine.Snapshot, vy float64) {
	s.record(
		Change{Op: OpVelocityY, Particle: p.ID(), Value: p.VelocityY()},
		Change{Op: OpVelocityY, Particle: p.ID(), Value: vy},
	)
}

func (s *Simulation) SetMass(p engine.Snapshot, mass float64) {
	s.record(
		Change{Op: OpMass, Particle: p.ID(), Value: p.Mass()},
		Change{Op: OpMass, Particle: p.ID(), Value: mass},
	)
}

func (s *Simulation) SetGravityMode(mode physics.GravityMode) {
	s.record(
		Change{Op: OpGravityMode, Value: float64(s.sim.GravityMode())},
		Change{Op: OpGravityMode, Value: float64(mode)},
	)
}

func (s *Simulation) SetCollisionMode(mode physics.CollisionMode) {
	s.record(
		Change{Op: OpCollisionMode, Value: float64(s.sim.CollisionMode())},
		Change{Op: OpCollisionMode, Value: float64(mode)},
	)
}

func (s *Simulation) SetGravitationalConstant(g float64) {
	s.record(
		Change{Op: OpGravitationalConstant, Value: s.sim.GravitationalConstant()},
		Change{Op: OpGravitationalConstant, Value: g},
	)
}

// Lookup returns the live particle with id
func (s *Simulation) Lookup(id uuid.UUID) (engine.Snapshot, bool) {
	p, ok := s.index[id]
	if !ok || !s.sim.Contains(p) {
		return engine.Snapshot{}, false
	}
	return p, true
}

// Particles returns the live particles in insertion order
func (s *Simulation) Particles() []engine.Snapshot {
	return s.sim.Particles()
}

func (s *Simulation) DistanceToClosest(point vmath.Vec) float64 {
	return s.sim.DistanceToClosest(point)
}

func (s *Simulation) Time() int                            { return s.sim.Time() }
func (s *Simulation) GravityMode() physics.GravityMode     { return s.sim.GravityMode() }
func (s *Simulation) CollisionMode() physics.CollisionMode { return s.sim.CollisionMode() }
func (s *Simulation) GravitationalConstant() float64       { return s.sim.GravitationalConstant() }
