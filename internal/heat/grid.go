package heat

// Grid holds the step sizes derived from a Config.
type Grid struct {
	Length float64
	Points int
	Steps  int
	Dx     float64
	Dt     float64
}

// ComputeSteps derives dx = L/(Nx-1) and dt = T_max/Nt.
func ComputeSteps(length, duration float64, points, steps int) (Grid, error) {
	if points < 2 {
		return Grid{}, invalid("points", points, "need at least 2 samples to define dx")
	}
	if steps < 1 {
		return Grid{}, invalid("steps", steps, "need at least 1 time step")
	}
	return Grid{
		Length: length,
		Points: points,
		Steps:  steps,
		Dx:     length / float64(points-1),
		Dt:     duration / float64(steps),
	}, nil
}

// Positions returns the coordinate of every sample, evenly spaced over [0, L].
func (g Grid) Positions() []float64 {
	xs := make([]float64, g.Points)
	for i := range xs {
		xs[i] = float64(i) * g.Dx
	}
	if g.Points > 1 {
		xs[g.Points-1] = g.Length
	}
	return xs
}

// TimeAt returns the simulated time of step t.
func (g Grid) TimeAt(t int) float64 { return float64(t) * g.Dt }
