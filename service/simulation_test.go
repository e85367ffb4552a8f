package service

import (
	"math/rand"
	"testing"

	"github.com/lixenwraith/particle-sandbox/engine"
	"github.com/lixenwraith/particle-sandbox/physics"
	"github.com/lixenwraith/particle-sandbox/status"
	"github.com/lixenwraith/particle-sandbox/vmath"
)

type particleState struct {
	position, velocity vmath.Vec
	radius, mass       float64
}

type worldState struct {
	time      int
	g         float64
	gravity   physics.GravityMode
	collision physics.CollisionMode
	particles []particleState
}

func captureWorld(s *Simulation) worldState {
	w := worldState{
		time:      s.Time(),
		g:         s.GravitationalConstant(),
		gravity:   s.GravityMode(),
		collision: s.CollisionMode(),
	}
	for _, p := range s.Particles() {
		w.particles = append(w.particles, particleState{p.Position(), p.Velocity(), p.Radius(), p.Mass()})
	}
	return w
}

func equalWorld(a, b worldState) bool {
	if a.time != b.time || a.g != b.g || a.gravity != b.gravity || a.collision != b.collision {
		return false
	}
	if len(a.particles) != len(b.particles) {
		return false
	}
	for i := range a.particles {
		if a.particles[i] != b.particles[i] {
			return false
		}
	}
	return true
}

func newElasticPair(t *testing.T) *Simulation {
	t.Helper()
	s := NewSimulation(engine.New(engine.WithGravity(physics.GravityNone)), nil)
	n := s.Seed([]ParticleSpec{
		{X: 200, Y: 200, Radius: 5, VX: 20, Mass: 5},
		{X: 240, Y: 200, Radius: 5, VX: -40, Mass: 15},
	})
	if n != 2 {
		t.Fatalf("Expected 2 seeded particles, got %d", n)
	}
	return s
}

func TestSeed_NoHistory(t *testing.T) {
	s := newElasticPair(t)
	if s.CanUndo() {
		t.Fatal("Expected seeding to leave history empty")
	}
	if n := s.Seed([]ParticleSpec{{X: 200, Y: 200, Radius: 5}}); n != 0 {
		t.Errorf("Expected overlapping seed to be skipped, got %d", n)
	}
}

func TestStep_UndoRedoRecomputes(t *testing.T) {
	s := newElasticPair(t)
	before := captureWorld(s)

	s.Step()
	after := captureWorld(s)
	if after.particles[0].velocity.X != -70 || after.particles[1].velocity.X != -10 {
		t.Fatalf("Unexpected post-collision velocities %+v", after.particles)
	}

	if !s.Undo() {
		t.Fatal("Expected undo to succeed")
	}
	if got := captureWorld(s); !equalWorld(got, before) {
		t.Errorf("Undo step: expected %+v, got %+v", before, got)
	}

	if !s.Redo() {
		t.Fatal("Expected redo to succeed")
	}
	if got := captureWorld(s); !equalWorld(got, after) {
		t.Errorf("Redo step: expected %+v, got %+v", after, got)
	}
}

func TestCreateParticle_UndoRedo(t *testing.T) {
	s := NewSimulation(engine.New(), nil)

	p, ok := s.CreateParticle(10, 10, 2)
	if !ok {
		t.Fatal("Expected creation to succeed")
	}
	if _, ok := s.CreateParticle(10, 10, 2); ok {
		t.Fatal("Expected duplicate creation to be rejected")
	}

	s.Undo()
	if len(s.Particles()) != 0 {
		t.Fatal("Expected particle removed by undo")
	}
	if _, ok := s.Lookup(p.ID()); ok {
		t.Error("Expected Lookup to miss a removed particle")
	}

	s.Redo()
	got, ok := s.Lookup(p.ID())
	if !ok || got != p {
		t.Fatal("Expected redo to restore the same particle")
	}
}

func TestSetPosition_RejectedLeavesNoEntry(t *testing.T) {
	reg := status.NewRegistry()
	s := NewSimulation(engine.New(), reg)
	s.Seed([]ParticleSpec{{X: 0, Y: 0, Radius: 5}, {X: 20, Y: 0, Radius: 5}})
	p := s.Particles()[0]

	if s.SetPositionX(p, 12) {
		t.Fatal("Expected overlapping move to be rejected")
	}
	if s.SetRadius(p, 15) {
		t.Fatal("Expected overlapping resize to be rejected")
	}
	if s.SetRadius(p, 0) {
		t.Fatal("Expected zero radius to be rejected")
	}
	if s.CanUndo() {
		t.Error("Expected rejected edits to leave history empty")
	}
	if got := reg.Ints.Get("sim.rejected_edits").Load(); got != 3 {
		t.Errorf("Expected 3 rejected edits, got %d", got)
	}

	if !s.SetPositionY(p, -30) {
		t.Fatal("Expected clear move to succeed")
	}
	s.Undo()
	if p.PositionY() != 0 {
		t.Errorf("Expected undo to restore y=0, got %v", p.PositionY())
	}
}

// TestLinearity verifies a new action after undo makes redo a no-op
func TestLinearity(t *testing.T) {
	s := NewSimulation(engine.New(), nil)

	a, _ := s.CreateParticle(0, 0, 1)
	s.Undo()
	b, _ := s.CreateParticle(50, 0, 1)

	if s.Redo() {
		t.Fatal("Expected redo to have no effect")
	}
	particles := s.Particles()
	if len(particles) != 1 || particles[0] != b {
		t.Fatalf("Expected only the second particle, got %d particles", len(particles))
	}
	if _, ok := s.Lookup(a.ID()); ok {
		t.Error("Expected the first particle to stay removed")
	}
}

func TestEditsAcrossSteps(t *testing.T) {
	s := NewSimulation(engine.New(engine.WithGravity(physics.GravityNone)), nil)
	p, _ := s.CreateParticle(0, 0, 1)

	s.SetVelocityX(p, 3)
	s.Step()
	s.SetVelocityY(p, 4)
	s.Step()

	if p.PositionX() != 6 || p.PositionY() != 4 {
		t.Fatalf("Expected (6, 4), got %v", p.Position())
	}

	for s.CanUndo() {
		s.Undo()
	}
	if s.Time() != 0 || len(s.Particles()) != 0 {
		t.Fatalf("Expected empty world at t=0, got t=%d with %d particles", s.Time(), len(s.Particles()))
	}

	for s.CanRedo() {
		s.Redo()
	}
	if p.PositionX() != 6 || p.PositionY() != 4 || s.Time() != 2 {
		t.Errorf("Expected redo to rebuild (6, 4) at t=2, got %v at t=%d", p.Position(), s.Time())
	}
}

func TestModeChanges_UndoRedo(t *testing.T) {
	s := NewSimulation(engine.New(), nil)

	s.SetGravityMode(physics.GravityApproximate)
	s.SetCollisionMode(physics.CollisionNone)
	s.SetGravitationalConstant(2.5)

	if s.GravityMode() != physics.GravityApproximate || s.CollisionMode() != physics.CollisionNone || s.GravitationalConstant() != 2.5 {
		t.Fatal("Mode changes not applied")
	}

	s.Undo()
	s.Undo()
	s.Undo()
	if s.GravityMode() != engine.DefaultGravity || s.CollisionMode() != engine.DefaultCollisions || s.GravitationalConstant() != engine.DefaultGravitationalConstant {
		t.Errorf("Expected defaults restored, got %v/%v/%v", s.GravityMode(), s.CollisionMode(), s.GravitationalConstant())
	}
}

func TestOnContacts_FiresOnRedo(t *testing.T) {
	s := newElasticPair(t)

	var contacts int
	s.OnContacts(func(r physics.Report) { contacts += len(r.Contacts) })

	s.Step()
	s.Undo()
	s.Redo()

	if contacts != 2 {
		t.Errorf("Expected 2 contact notifications, got %d", contacts)
	}
}

// TestHistory_BitForBit replays a random session backwards and forwards
func TestHistory_BitForBit(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	s := NewSimulation(engine.New(), nil)

	states := []worldState{captureWorld(s)}
	for len(states) < 60 {
		particles := s.Particles()
		performed := false

		switch op := rng.Intn(8); {
		case op == 0 || len(particles) < 3:
			_, performed = s.CreateParticle(rng.Float64()*300, rng.Float64()*300, 2+rng.Float64()*6)
		case op <= 2:
			s.Step()
			performed = true
		case op == 3:
			p := particles[rng.Intn(len(particles))]
			performed = s.SetPositionX(p, rng.Float64()*300)
		case op == 4:
			p := particles[rng.Intn(len(particles))]
			s.SetVelocityX(p, (rng.Float64()*2-1)*20)
			performed = true
		case op == 5:
			p := particles[rng.Intn(len(particles))]
			s.SetVelocityY(p, (rng.Float64()*2-1)*20)
			performed = true
		case op == 6:
			p := particles[rng.Intn(len(particles))]
			performed = s.SetRadius(p, 1+rng.Float64()*8)
		default:
			s.SetGravitationalConstant(rng.Float64() * 3)
			performed = true
		}

		if performed {
			states = append(states, captureWorld(s))
		}
	}

	for i := len(states) - 2; i >= 0; i-- {
		if !s.Undo() {
			t.Fatalf("Undo to state %d refused", i)
		}
		if got := captureWorld(s); !equalWorld(got, states[i]) {
			t.Fatalf("Undo to state %d: got %+v, expected %+v", i, got, states[i])
		}
	}
	for i := 1; i < len(states); i++ {
		if !s.Redo() {
			t.Fatalf("Redo to state %d refused", i)
		}
		if got := captureWorld(s); !equalWorld(got, states[i]) {
			t.Fatalf("Redo to state %d: got %+v, expected %+v", i, got, states[i])
		}
	}
}
