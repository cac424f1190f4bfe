package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/heatsim/internal/heat"
)

// Styles groups the lipgloss styles derived from a Theme.
type Styles struct {
	Header   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Stable   lipgloss.Style
	Unstable lipgloss.Style
	Paused   lipgloss.Style
	Graph    lipgloss.Style
	Panel    lipgloss.Style
	Help     lipgloss.Style
	Hot      lipgloss.Style
	Cold     lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:    lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Stable:   lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Unstable: lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Paused:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Graph:    lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(1, 2),
		Help: lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		Hot:  lipgloss.NewStyle().Foreground(t.Hot),
		Cold: lipgloss.NewStyle().Foreground(t.Cold),
	}
}

// StabilityBadge renders the stability report as a coloured status word.
func (s Styles) StabilityBadge(r heat.StabilityReport) string {
	if r.Stable {
		return s.Stable.Render("STABLE")
	}
	return s.Unstable.Render("UNSTABLE")
}

// ProgressBar renders fraction done in [0,1] as a bar of the given width.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Heatstrip renders the field as one row of shaded cells, hottest darkest.
func (s Styles) Heatstrip(f heat.Field, lo, hi float64, width int) string {
	if len(f) == 0 || width <= 0 {
		return ""
	}
	shades := []rune{' ', '░', '▒', '▓', '█'}
	rng := hi - lo
	if rng <= 0 {
		rng = 1
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		v := f[i*len(f)/width]
		norm := (v - lo) / rng
		idx := int(norm * float64(len(shades)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(shades) {
			idx = len(shades) - 1
		}
		c := string(shades[idx])
		if norm > 0.5 {
			b.WriteString(s.Hot.Render(c))
		} else {
			b.WriteString(s.Cold.Render(c))
		}
	}
	return b.String()
}
