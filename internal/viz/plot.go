package viz

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatsim/internal/heat"
)

// Plotter draws each snapshot it receives as an ASCII temperature profile.
// Writing is synchronous, so a slow writer stalls the run.
type Plotter struct {
	w      io.Writer
	grid   heat.Grid
	width  int
	height int
	lower  float64
	upper  float64
	fixed  bool
	err    error
}

type PlotOption func(*Plotter)

func PlotSize(width, height int) PlotOption {
	return func(p *Plotter) {
		if width > 0 {
			p.width = width
		}
		if height > 0 {
			p.height = height
		}
	}
}

// PlotBounds pins the temperature axis so successive plots are comparable.
func PlotBounds(lower, upper float64) PlotOption {
	return func(p *Plotter) {
		if upper > lower {
			p.lower, p.upper, p.fixed = lower, upper, true
		}
	}
}

func NewPlotter(w io.Writer, grid heat.Grid, opts ...PlotOption) *Plotter {
	p := &Plotter{w: w, grid: grid, width: 70, height: 12}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Plotter) OnSnapshot(s heat.Snapshot) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s\n\n", p.Render(s))
}

// Render returns the plot of one snapshot. A field holding NaN or Inf is
// reported in text instead of plotted.
func (p *Plotter) Render(s heat.Snapshot) string {
	if !s.Field.IsFinite() {
		return fmt.Sprintf("%s\n  field is not finite (numerical blow-up)", Caption(s, p.grid))
	}
	return asciigraph.Plot(s.Field, p.options(s)...)
}

func (p *Plotter) options(s heat.Snapshot) []asciigraph.Option {
	opts := []asciigraph.Option{
		asciigraph.Height(p.height),
		asciigraph.Width(p.width),
		asciigraph.Precision(2),
		asciigraph.Caption(Caption(s, p.grid)),
	}
	if p.fixed {
		opts = append(opts, asciigraph.LowerBound(p.lower), asciigraph.UpperBound(p.upper))
	}
	return opts
}

func (p *Plotter) Err() error { return p.err }

// Caption labels a snapshot with its time and the rod extent.
func Caption(s heat.Snapshot, grid heat.Grid) string {
	return fmt.Sprintf("t = %.2f s (step %d)  x: 0 .. %.2f m  temperature (°C)", s.Time, s.Step, grid.Length)
}
