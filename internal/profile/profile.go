// Package profile builds initial temperature fields for the diffusion engine.
package profile

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/heatsim/internal/heat"
)

// DefaultName is the profile used when none is requested.
const DefaultName = "hot_middle"

// DefaultPeak is the temperature of the heated section in the default profile.
const DefaultPeak = 100.0

// Params carries the inputs a profile generator may use.
type Params struct {
	Points int
	Peak   float64
	Left   float64
	Right  float64
}

type Generator func(p Params) heat.Field

// HotMiddle returns zeros with the middle third [n/3, 2n/3) set to peak.
func HotMiddle(n int, peak float64) heat.Field {
	f := make(heat.Field, n)
	for i := n / 3; i < 2*n/3; i++ {
		f[i] = peak
	}
	return f
}

func Uniform(n int, value float64) heat.Field {
	f := make(heat.Field, n)
	for i := range f {
		f[i] = value
	}
	return f
}

// Linear interpolates from left to right across n samples.
func Linear(n int, left, right float64) heat.Field {
	f := make(heat.Field, n)
	if n == 1 {
		f[0] = left
		return f
	}
	for i := range f {
		s := float64(i) / float64(n-1)
		f[i] = left + s*(right-left)
	}
	return f
}

// Gaussian is a bump of height peak centred on the rod, sigma = n/10 samples.
func Gaussian(n int, peak float64) heat.Field {
	f := make(heat.Field, n)
	c := float64(n-1) / 2
	sigma := math.Max(float64(n)/10, 1)
	for i := range f {
		d := (float64(i) - c) / sigma
		f[i] = peak * math.Exp(-0.5*d*d)
	}
	return f
}

// Step heats the left half of the rod.
func Step(n int, peak float64) heat.Field {
	f := make(heat.Field, n)
	for i := 0; i < n/2; i++ {
		f[i] = peak
	}
	return f
}

type Registry struct {
	profiles map[string]Generator
}

func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]Generator)}

	r.profiles["hot_middle"] = func(p Params) heat.Field { return HotMiddle(p.Points, p.Peak) }
	r.profiles["uniform"] = func(p Params) heat.Field { return Uniform(p.Points, p.Peak) }
	r.profiles["linear"] = func(p Params) heat.Field { return Linear(p.Points, p.Left, p.Right) }
	r.profiles["gaussian"] = func(p Params) heat.Field { return Gaussian(p.Points, p.Peak) }
	r.profiles["step"] = func(p Params) heat.Field { return Step(p.Points, p.Peak) }

	return r
}

func (r *Registry) Register(name string, g Generator) {
	r.profiles[name] = g
}

// Build returns the named profile. An empty name selects DefaultName.
func (r *Registry) Build(name string, p Params) (heat.Field, error) {
	if name == "" {
		name = DefaultName
	}
	fn, ok := r.profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s (available: %v)", name, r.List())
	}
	if p.Points < 1 {
		return nil, fmt.Errorf("profile %s: points must be positive, got %d", name, p.Points)
	}
	return fn(p), nil
}

// List returns the registered profile names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
