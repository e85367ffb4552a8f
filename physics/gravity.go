package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/particle-sandbox/vmath"
)

// GravityMode selects how mutual attraction is applied each tick
type GravityMode uint8

const (
	// GravityNone disables attraction
	GravityNone GravityMode = iota
	// GravityIntegrate sums exact pairwise Newtonian forces
	GravityIntegrate
	// GravityApproximate uses a Barnes-Hut quadtree with opening angle theta
	GravityApproximate
)

var gravityModeNames = [...]string{
	GravityNone:        "none",
	GravityIntegrate:   "integrate",
	GravityApproximate: "approximate",
}

func (m GravityMode) String() string {
	if int(m) < len(gravityModeNames) {
		return gravityModeNames[m]
	}
	return fmt.Sprintf("GravityMode(%d)", m)
}

// ParseGravityMode maps a config name to a mode
func ParseGravityMode(s string) (GravityMode, error) {
	for i, name := range gravityModeNames {
		if name == s {
			return GravityMode(i), nil
		}
	}
	return GravityNone, fmt.Errorf("unknown gravity mode %q", s)
}

// GravityModel applies one tick of attraction to every step
type GravityModel interface {
	Accelerate(steps []*Step, g float64)
}

// NewGravityModel returns the strategy for mode
// theta is only used by GravityApproximate
func NewGravityModel(mode GravityMode, theta float64) GravityModel {
	switch mode {
	case GravityIntegrate:
		return IntegrateGravity{}
	case GravityApproximate:
		return BarnesHutGravity{Theta: theta}
	default:
		return NoGravity{}
	}
}

// NoGravity leaves every trajectory untouched
type NoGravity struct{}

// Accelerate implements GravityModel
func (NoGravity) Accelerate([]*Step, float64) {}

// IntegrateGravity sums F = G·m1·m2/d² over every pair, O(n²)
// Forces are evaluated at start-of-tick positions
type IntegrateGravity struct{}

// Accelerate implements GravityModel
func (IntegrateGravity) Accelerate(steps []*Step, g float64) {
	for _, step := range steps {
		var total vmath.Vec
		for _, other := range steps {
			if other == step {
				continue
			}
			f := gravitationalForce(g, step, other)
			total.X += f.X
			total.Y += f.Y
		}
		step.ApplyForce(total)
	}
}

// gravitationalForce returns the pull of other on step
func gravitationalForce(g float64, step, other *Step) vmath.Vec {
	position := step.PositionAt(0)
	otherPosition := other.PositionAt(0)
	dx := otherPosition.X - position.X
	dy := otherPosition.Y - position.Y
	distanceSq := dx*dx + dy*dy
	magnitude := g * step.Mass() * other.Mass() / distanceSq
	distance := math.Sqrt(distanceSq)
	return vmath.Vec{
		X: magnitude * dx / distance,
		Y: magnitude * dy / distance,
	}
}

// BarnesHutGravity approximates far-field attraction with a quadtree
// Theta 0 degenerates to the exact pairwise sum
type BarnesHutGravity struct {
	Theta float64
}

// Accelerate implements GravityModel
func (m BarnesHutGravity) Accelerate(steps []*Step, g float64) {
	if len(steps) < 2 {
		return
	}
	if m.Theta <= 0 {
		IntegrateGravity{}.Accelerate(steps, g)
		return
	}

	particles := make([]barneshut.Particle2, len(steps))
	for i, s := range steps {
		particles[i] = s
	}
	tree := newQuadtree(particles)

	for _, s := range steps {
		s.ApplyForce(r2.Scale(g, tree.forceOn(s, m.Theta, barneshut.Gravity2)))
	}
}
