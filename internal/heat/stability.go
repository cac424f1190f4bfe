package heat

import "fmt"

// StabilityLimit is the largest diffusion number for which the explicit
// three-point stencil stays stable.
const StabilityLimit = 0.5

type StabilityReport struct {
	R      float64
	Stable bool
}

func (r StabilityReport) String() string {
	if r.Stable {
		return fmt.Sprintf("stable (r=%.4f <= %.1f)", r.R, StabilityLimit)
	}
	return fmt.Sprintf("unstable (r=%.4f > %.1f)", r.R, StabilityLimit)
}

// DiffusionNumber returns r = alpha*dt/dx^2.
func DiffusionNumber(alpha, dx, dt float64) float64 {
	return alpha * dt / (dx * dx)
}

// CheckStability reports whether r = alpha*dt/dx^2 is within StabilityLimit.
// The result is advisory; an unstable configuration still runs.
func CheckStability(alpha, dx, dt float64) StabilityReport {
	r := DiffusionNumber(alpha, dx, dt)
	return StabilityReport{R: r, Stable: r <= StabilityLimit}
}
