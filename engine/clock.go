package engine

// Clock is the logical simulation time shared by a Simulation and its snapshots
// Advanced only by Step and StepBack
type Clock struct {
	time int
}

// Now returns the current tick
func (c *Clock) Now() int {
	return c.time
}
