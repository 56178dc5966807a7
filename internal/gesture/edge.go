package gesture

// Edge is a transition of the drawing signal.
type Edge int

const (
	// NoEdge means the signal did not change.
	NoEdge Edge = iota
	// Pressed means drawing started.
	Pressed
	// Released means drawing stopped.
	Released
)

func (e Edge) String() string {
	switch e {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return "none"
	}
}

// EdgeDetector reports transitions of a boolean signal. Released is reported
// exactly once per active to inactive transition.
type EdgeDetector struct {
	active bool
}

// Update feeds the current signal and returns the transition, if any.
func (d *EdgeDetector) Update(active bool) Edge {
	prev := d.active
	d.active = active

	switch {
	case active && !prev:
		return Pressed
	case !active && prev:
		return Released
	default:
		return NoEdge
	}
}

// Active returns the last signal value.
func (d *EdgeDetector) Active() bool {
	return d.active
}

// Reset forgets the signal without reporting an edge.
func (d *EdgeDetector) Reset() {
	d.active = false
}
