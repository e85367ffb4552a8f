package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// Depth past which leaves stop splitting and hold every particle they receive
const maxTreeDepth = 48

// quadtree is a Barnes-Hut tree whose nodes carry mass-weighted centers
// Quadrant layout and the opening test follow barneshut.Plane
type quadtree struct {
	bounds r2.Box
	depth  int
	nodes  [4]*quadtree

	// Leaf occupants; empty on internal nodes
	particles []barneshut.Particle2

	// Σ m·coord over the subtree; center of mass is moment/mass
	moment r2.Vec
	mass   float64
}

const (
	quadNE = iota
	quadSE
	quadSW
	quadNW
)

// newQuadtree builds a tree over the start-of-tick positions of particles
func newQuadtree(particles []barneshut.Particle2) *quadtree {
	if len(particles) == 0 {
		return &quadtree{}
	}
	first := particles[0].Coord2()
	root := &quadtree{bounds: r2.Box{Min: first, Max: first}}
	for _, p := range particles[1:] {
		c := p.Coord2()
		root.bounds.Min.X = math.Min(root.bounds.Min.X, c.X)
		root.bounds.Min.Y = math.Min(root.bounds.Min.Y, c.Y)
		root.bounds.Max.X = math.Max(root.bounds.Max.X, c.X)
		root.bounds.Max.Y = math.Max(root.bounds.Max.Y, c.Y)
	}
	for _, p := range particles {
		root.insert(p)
	}
	return root
}

func (t *quadtree) center() r2.Vec {
	return r2.Scale(1/t.mass, t.moment)
}

func (t *quadtree) isLeaf() bool {
	return t.nodes == [4]*quadtree{}
}

func (t *quadtree) insert(p barneshut.Particle2) {
	m := p.Mass()
	t.moment = r2.Add(t.moment, r2.Scale(m, p.Coord2()))
	t.mass += m

	if !t.isLeaf() {
		t.passDown(p)
		return
	}
	if len(t.particles) == 0 || t.depth >= maxTreeDepth || t.degenerate() {
		t.particles = append(t.particles, p)
		return
	}

	resident := t.particles
	t.particles = nil
	for _, q := range resident {
		t.passDown(q)
	}
	t.passDown(p)
}

// degenerate reports whether halving the box no longer changes it
func (t *quadtree) degenerate() bool {
	midX := (t.bounds.Min.X + t.bounds.Max.X) / 2
	midY := (t.bounds.Min.Y + t.bounds.Max.Y) / 2
	return (midX == t.bounds.Min.X || midX == t.bounds.Max.X) &&
		(midY == t.bounds.Min.Y || midY == t.bounds.Max.Y)
}

func (t *quadtree) contains(c r2.Vec) bool {
	return c.X >= t.bounds.Min.X && c.X <= t.bounds.Max.X &&
		c.Y >= t.bounds.Min.Y && c.Y <= t.bounds.Max.Y
}

func (t *quadtree) passDown(p barneshut.Particle2) {
	dir := t.quadrantOf(p.Coord2())
	if t.nodes[dir] == nil {
		t.nodes[dir] = &quadtree{bounds: t.split(dir), depth: t.depth + 1}
	}
	t.nodes[dir].insert(p)
}

func (t *quadtree) quadrantOf(c r2.Vec) int {
	midX := (t.bounds.Min.X + t.bounds.Max.X) / 2
	midY := (t.bounds.Min.Y + t.bounds.Max.Y) / 2
	switch {
	case c.X < midX && c.Y < midY:
		return quadNW
	case c.X < midX:
		return quadSW
	case c.Y < midY:
		return quadNE
	default:
		return quadSE
	}
}

func (t *quadtree) split(dir int) r2.Box {
	b := t.bounds
	halfX := (b.Max.X - b.Min.X) / 2
	halfY := (b.Max.Y - b.Min.Y) / 2
	switch dir {
	case quadNE:
		b.Min.X += halfX
		b.Max.Y -= halfY
	case quadSE:
		b.Min.X += halfX
		b.Min.Y += halfY
	case quadSW:
		b.Max.X -= halfX
		b.Min.Y += halfY
	case quadNW:
		b.Max.X -= halfX
		b.Max.Y -= halfY
	}
	return b
}

// forceOn sums f over the tree for p, treating a node that does not contain p
// as one mass at its center when its mean side over the distance is below theta
func (t *quadtree) forceOn(p barneshut.Particle2, theta float64, f barneshut.Force2) r2.Vec {
	if t.mass == 0 {
		return r2.Vec{}
	}
	pt, m := p.Coord2(), p.Mass()

	if t.isLeaf() {
		var v r2.Vec
		for _, q := range t.particles {
			if q == p {
				continue
			}
			v = r2.Add(v, f(p, q, m, q.Mass(), r2.Sub(q.Coord2(), pt)))
		}
		return v
	}

	center := t.center()
	s := ((t.bounds.Max.X - t.bounds.Min.X) + (t.bounds.Max.Y - t.bounds.Min.Y)) / 2
	if d := math.Hypot(pt.X-center.X, pt.Y-center.Y); !t.contains(pt) && s/d < theta {
		return f(p, nil, m, t.mass, r2.Sub(center, pt))
	}

	var v r2.Vec
	for _, node := range t.nodes {
		if node != nil {
			v = r2.Add(v, node.forceOn(p, theta, f))
		}
	}
	return v
}
