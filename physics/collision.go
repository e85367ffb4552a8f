package physics

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/particle-sandbox/pqueue"
	"github.com/lixenwraith/particle-sandbox/vmath"
)

// CollisionMode selects how contacts are handled each tick
type CollisionMode uint8

const (
	// CollisionNone lets bodies pass through each other
	CollisionNone CollisionMode = iota
	// CollisionElastic conserves momentum and kinetic energy
	CollisionElastic
)

var collisionModeNames = [...]string{
	CollisionNone:    "none",
	CollisionElastic: "elastic",
}

func (m CollisionMode) String() string {
	if int(m) < len(collisionModeNames) {
		return collisionModeNames[m]
	}
	return fmt.Sprintf("CollisionMode(%d)", m)
}

// ParseCollisionMode maps a config name to a mode
func ParseCollisionMode(s string) (CollisionMode, error) {
	for i, name := range collisionModeNames {
		if name == s {
			return CollisionMode(i), nil
		}
	}
	return CollisionNone, fmt.Errorf("unknown collision mode %q", s)
}

// MaxContactsPerTick bounds the resolution loop
// Reaching it marks the tick report as truncated
const MaxContactsPerTick = 1 << 16

// Contact describes one resolved collision
type Contact struct {
	Time         float64 // Local tick time in [0, 1]
	A, B         uuid.UUID
	ClosingSpeed float64 // Relative speed along the normal before impact
}

// CollisionModel resolves contacts over one tick
type CollisionModel interface {
	Resolve(steps []*Step) (contacts []Contact, truncated bool)
}

// NewCollisionModel returns the strategy for mode
func NewCollisionModel(mode CollisionMode) CollisionModel {
	if mode == CollisionElastic {
		return ElasticCollisions{}
	}
	return NoCollisions{}
}

// NoCollisions ignores overlap entirely
type NoCollisions struct{}

// Resolve implements CollisionModel
func (NoCollisions) Resolve([]*Step) ([]Contact, bool) { return nil, false }

// ElasticCollisions resolves contacts earliest first with an event queue
type ElasticCollisions struct{}

// collision is a pending contact between a and b at local time
type collision struct {
	time float64
	a, b *Step
}

func (c collision) occursBefore(other collision) bool {
	return c.time < other.time
}

// invalidates reports whether resolving c makes other stale
func (c collision) invalidates(other collision) bool {
	return c.a == other.a || c.a == other.b || c.b == other.a || c.b == other.b
}

// Resolve implements CollisionModel
func (ElasticCollisions) Resolve(steps []*Step) ([]Contact, bool) {
	queue := pqueue.New[collision](collision.occursBefore)
	enqueue := func(a, b *Step) {
		if t, ok := a.CollisionTime(b); ok {
			queue.Add(collision{time: t, a: a, b: b})
		}
	}

	for i := range steps {
		for j := i + 1; j < len(steps); j++ {
			enqueue(steps[i], steps[j])
		}
	}

	var contacts []Contact
	for !queue.IsEmpty() {
		if len(contacts) >= MaxContactsPerTick {
			return contacts, true
		}

		c := queue.Extract()
		contacts = append(contacts, c.resolve())
		queue.RemoveIf(c.invalidates)

		// Both trajectories changed; re-detect against every other body
		for _, s := range steps {
			if s != c.a {
				enqueue(c.a, s)
			}
			if s != c.a && s != c.b {
				enqueue(c.b, s)
			}
		}
	}
	return contacts, false
}

// resolve applies the elastic exchange at the collision time
// Only velocity components along the line of centers are exchanged
func (c collision) resolve() Contact {
	aPos := c.a.PositionAt(c.time)
	bPos := c.b.PositionAt(c.time)
	aVel := c.a.VelocityAt(c.time)
	bVel := c.b.VelocityAt(c.time)

	var aNormal, bNormal vmath.Vec
	slope := (bPos.Y - aPos.Y) / (bPos.X - aPos.X)
	if math.IsInf(slope, 0) || math.IsNaN(slope) {
		// Vertical line of centers: the normal is the y axis
		aNormal = vmath.Vec{Y: aVel.Y}
		bNormal = vmath.Vec{Y: bVel.Y}
	} else {
		aNormal = vmath.SlopeComponent(aVel, slope)
		bNormal = vmath.SlopeComponent(bVel, slope)
	}

	aMass, bMass := c.a.Mass(), c.b.Mass()
	total := aMass + bMass

	aPost := vmath.Vec{
		X: (aVel.X - aNormal.X) + ((aMass-bMass)*aNormal.X+2*bMass*bNormal.X)/total,
		Y: (aVel.Y - aNormal.Y) + ((aMass-bMass)*aNormal.Y+2*bMass*bNormal.Y)/total,
	}
	bPost := vmath.Vec{
		X: (bVel.X - bNormal.X) + (2*aMass*aNormal.X+(bMass-aMass)*bNormal.X)/total,
		Y: (bVel.Y - bNormal.Y) + (2*aMass*aNormal.Y+(bMass-aMass)*bNormal.Y)/total,
	}

	c.a.SetKinematics(c.time, aPos, aPost)
	c.b.SetKinematics(c.time, bPos, bPost)

	return Contact{
		Time:         c.time,
		A:            c.a.body.ID,
		B:            c.b.body.ID,
		ClosingSpeed: r2.Norm(r2.Sub(aNormal, bNormal)),
	}
}
