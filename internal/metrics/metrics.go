package metrics

import (
	"math"
	"sort"

	"github.com/san-kum/heatsim/internal/heat"
)

// Metric accumulates a scalar over the snapshots of a run.
type Metric interface {
	heat.Observer
	Name() string
	Value() float64
	Reset()
}

// Set fans snapshots out to a group of metrics.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Default returns the metrics reported after every CLI run.
func Default() *Set {
	return NewSet(NewEnergy(), NewEnergyDrift(), NewMonotonic(1e-9), NewPeak(), NewFinite())
}

func (s *Set) OnSnapshot(snap heat.Snapshot) {
	for _, m := range s.metrics {
		m.OnSnapshot(snap)
	}
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns metric names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.metrics))
	for _, m := range s.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

// Energy reports the total field energy of the latest snapshot.
type Energy struct {
	name    string
	current float64
}

func NewEnergy() *Energy { return &Energy{name: "energy"} }

func (e *Energy) Name() string               { return e.name }
func (e *Energy) OnSnapshot(s heat.Snapshot) { e.current = s.Field.Sum() }
func (e *Energy) Value() float64             { return e.current }
func (e *Energy) Reset()                     { e.current = 0 }

// EnergyDrift is the relative change of field energy from the first snapshot.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnSnapshot(s heat.Snapshot) {
	energy := s.Field.Sum()
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyDrift) Value() float64 {
	if e.initialEnergy == 0 {
		return 0
	}
	return (e.currentEnergy - e.initialEnergy) / math.Abs(e.initialEnergy)
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}

// Monotonic is the fraction of snapshot transitions where energy did not
// rise by more than tolerance. With cold boundaries and a stable diffusion
// number this stays at 1.
type Monotonic struct {
	name       string
	tolerance  float64
	last       float64
	samples    int
	violations int
}

func NewMonotonic(tolerance float64) *Monotonic {
	return &Monotonic{name: "energy_monotonic", tolerance: tolerance}
}

func (m *Monotonic) Name() string { return m.name }

func (m *Monotonic) OnSnapshot(s heat.Snapshot) {
	energy := s.Field.Sum()
	if m.samples > 0 && energy > m.last+m.tolerance {
		m.violations++
	}
	m.last = energy
	m.samples++
}

func (m *Monotonic) Value() float64 {
	if m.samples < 2 {
		return 1.0
	}
	return 1.0 - float64(m.violations)/float64(m.samples-1)
}

func (m *Monotonic) Reset() {
	m.last = 0
	m.samples = 0
	m.violations = 0
}

// Peak tracks the highest temperature seen in any snapshot.
type Peak struct {
	name string
	max  float64
	seen bool
}

func NewPeak() *Peak { return &Peak{name: "peak"} }

func (p *Peak) Name() string { return p.name }

func (p *Peak) OnSnapshot(s heat.Snapshot) {
	if len(s.Field) == 0 {
		return
	}
	if m := s.Field.Max(); !p.seen || m > p.max {
		p.max, p.seen = m, true
	}
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() { p.max, p.seen = 0, false }

// Finite is the fraction of snapshots free of NaN and Inf. It only observes;
// the engine keeps stepping regardless.
type Finite struct {
	name    string
	samples int
	bad     int
}

func NewFinite() *Finite { return &Finite{name: "finite"} }

func (f *Finite) Name() string { return f.name }

func (f *Finite) OnSnapshot(s heat.Snapshot) {
	f.samples++
	if !s.Field.IsFinite() {
		f.bad++
	}
}

func (f *Finite) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(f.bad)/float64(f.samples)
}

func (f *Finite) Reset() { f.samples, f.bad = 0, 0 }
