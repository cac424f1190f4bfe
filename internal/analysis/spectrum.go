package analysis

import (
	"math"

	"github.com/san-kum/heatsim/internal/heat"
)

// SineMode returns mode k sampled on n points: sin(k*pi*i/(n-1)).
func SineMode(n, k int) heat.Field {
	f := make(heat.Field, n)
	for i := range f {
		f[i] = math.Sin(float64(k) * math.Pi * float64(i) / float64(n-1))
	}
	return f
}

// SineSpectrum returns the amplitudes of modes 1..n-2 of the interior of f.
// Boundary samples are ignored.
func SineSpectrum(f heat.Field) []float64 {
	n := len(f)
	if n < 3 {
		return nil
	}
	m := n - 1
	amps := make([]float64, n-2)
	for k := 1; k <= n-2; k++ {
		sum := 0.0
		for i := 1; i < m; i++ {
			sum += f[i] * math.Sin(float64(k)*math.Pi*float64(i)/float64(m))
		}
		amps[k-1] = 2 * sum / float64(m)
	}
	return amps
}

// AmplificationFactor is the per-step growth of mode k on n points.
func AmplificationFactor(r float64, k, n int) float64 {
	s := math.Sin(float64(k) * math.Pi / (2 * float64(n-1)))
	return 1 - 4*r*s*s
}

type ModeReport struct {
	Slowest   float64 // g_1, the longest-lived mode
	Fastest   float64 // g_{n-2}, the shortest wavelength
	MaxGrowth float64 // max |g_k|
	Unstable  int     // number of modes with |g_k| > 1
}

func Modes(r float64, n int) ModeReport {
	rep := ModeReport{}
	if n < 3 {
		return rep
	}
	for k := 1; k <= n-2; k++ {
		g := AmplificationFactor(r, k, n)
		if a := math.Abs(g); a > rep.MaxGrowth {
			rep.MaxGrowth = a
		}
		if math.Abs(g) > 1 {
			rep.Unstable++
		}
	}
	rep.Slowest = AmplificationFactor(r, 1, n)
	rep.Fastest = AmplificationFactor(r, n-2, n)
	return rep
}

// HalfLife returns the number of steps for mode k to lose half its amplitude,
// or +Inf when it does not decay.
func HalfLife(r float64, k, n int) float64 {
	g := math.Abs(AmplificationFactor(r, k, n))
	switch {
	case g == 0:
		return 1
	case g >= 1:
		return math.Inf(1)
	}
	return math.Log(0.5) / math.Log(g)
}
