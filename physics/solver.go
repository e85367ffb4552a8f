package physics

// Report summarizes one solved tick
type Report struct {
	Clock     int
	Contacts  []Contact
	Truncated bool // Contact budget exhausted before the queue drained
}

// Solve advances bodies from their last committed state to clock
// Precondition: no body has history beyond clock-1
func Solve(bodies []*Body, clock int, gravity GravityModel, collisions CollisionModel, g float64) Report {
	steps := make([]*Step, len(bodies))
	for i, b := range bodies {
		steps[i] = NewStep(b)
	}

	gravity.Accelerate(steps, g)
	contacts, truncated := collisions.Resolve(steps)

	for _, s := range steps {
		s.Commit(clock)
	}

	return Report{
		Clock:     clock,
		Contacts:  contacts,
		Truncated: truncated,
	}
}
