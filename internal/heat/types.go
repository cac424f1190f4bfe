package heat

import "math"

// Field is the temperature at each spatial sample, indexed 0..Nx-1.
type Field []float64

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

// Sum returns the total field energy (sum of sample values).
func (f Field) Sum() float64 {
	sum := 0.0
	for _, v := range f {
		sum += v
	}
	return sum
}

func (f Field) Max() float64 {
	if len(f) == 0 {
		return 0
	}
	m := f[0]
	for _, v := range f[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func (f Field) Min() float64 {
	if len(f) == 0 {
		return 0
	}
	m := f[0]
	for _, v := range f[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// IsFinite reports whether no sample is NaN or Inf. The engine never calls
// it; it is there for observers that want to detect blow-up.
func (f Field) IsFinite() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Config holds the physical and numerical parameters of one run.
type Config struct {
	Length   float64 // rod length L
	Duration float64 // total simulated time T_max
	Points   int     // spatial samples Nx
	Steps    int     // time steps Nt
	Alpha    float64 // diffusivity
	Left     float64 // fixed temperature at index 0
	Right    float64 // fixed temperature at index Nx-1
}

// Validate checks the structural invariants of c. Physical parameters must
// be positive and finite.
func (c Config) Validate() error {
	if c.Points < 3 {
		return invalid("points", c.Points, "need at least 3 samples (one interior point)")
	}
	if c.Steps < 1 {
		return invalid("steps", c.Steps, "need at least 1 time step")
	}
	if !positive(c.Length) {
		return invalid("length", c.Length, "must be positive")
	}
	if !positive(c.Duration) {
		return invalid("duration", c.Duration, "must be positive")
	}
	if !positive(c.Alpha) {
		return invalid("alpha", c.Alpha, "must be positive")
	}
	if !finite(c.Left) {
		return invalid("left", c.Left, "must be finite")
	}
	if !finite(c.Right) {
		return invalid("right", c.Right, "must be finite")
	}
	return nil
}

func positive(v float64) bool { return v > 0 && finite(v) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// State is the lifecycle stage of an Engine.
type State int

const (
	Created State = iota
	Stepping
	Finished
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Stepping:
		return "stepping"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the field at a given step, handed to observers.
type Snapshot struct {
	Step  int
	Time  float64
	Field Field
}

type Observer interface {
	OnSnapshot(s Snapshot)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(s Snapshot)

func (f ObserverFunc) OnSnapshot(s Snapshot) { f(s) }
