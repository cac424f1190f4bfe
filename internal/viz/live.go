package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatsim/internal/heat"
)

const (
	graphWidth      = 60
	graphHeight     = 14
	historyCapacity = 300
	maxStepsPerTick = 10000
)

type TickMsg time.Time

// LiveModel drives an engine from the bubbletea event loop, advancing a
// number of steps per frame and drawing the current profile.
type LiveModel struct {
	engine        *heat.Engine
	title         string
	frame         time.Duration
	stepsPerTick  int
	running       bool
	showHelp      bool
	theme         Theme
	styles        Styles
	current       heat.Snapshot
	energyHistory []float64
	lower, upper  float64
	err           error
}

// NewLiveModel wraps e, which must not have been stepped yet.
func NewLiveModel(e *heat.Engine, title string, fps, stepsPerTick int) LiveModel {
	if fps <= 0 {
		fps = 30
	}
	if stepsPerTick <= 0 {
		stepsPerTick = 1
	}
	initial := e.Snapshot()
	lo, hi := bounds(initial.Field, e.Config())
	return LiveModel{
		engine:        e,
		title:         title,
		frame:         time.Second / time.Duration(fps),
		stepsPerTick:  stepsPerTick,
		running:       true,
		theme:         ThemeEmber,
		styles:        NewStyles(ThemeEmber),
		current:       initial,
		energyHistory: []float64{initial.Field.Sum()},
		lower:         lo,
		upper:         hi,
	}
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "t":
			m.theme = m.theme.Next()
			m.styles = NewStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerTick)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) advance(n int) {
	for i := 0; i < n && !m.engine.Done(); i++ {
		if err := m.engine.Step(); err != nil {
			m.err = err
			return
		}
	}
	m.current = m.engine.Snapshot()
	m.energyHistory = append(m.energyHistory, m.current.Field.Sum())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m LiveModel) Current() heat.Snapshot { return m.current }
func (m LiveModel) Running() bool          { return m.running }
func (m LiveModel) StepsPerTick() int      { return m.stepsPerTick }
func (m LiveModel) Theme() Theme           { return m.theme }

func (m LiveModel) status() string {
	switch {
	case m.err != nil:
		return m.styles.Unstable.Render("ERROR: " + m.err.Error())
	case m.engine.Done():
		return m.styles.Stable.Render("FINISHED")
	case !m.running:
		return m.styles.Paused.Render("PAUSED")
	default:
		return m.styles.Stable.Render("RUNNING")
	}
}

func (m LiveModel) View() string {
	cfg, grid := m.engine.Config(), m.engine.Grid()

	var graph string
	if m.current.Field.IsFinite() {
		graph = asciigraph.Plot(m.current.Field,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.LowerBound(m.lower),
			asciigraph.UpperBound(m.upper),
			asciigraph.Precision(1),
			asciigraph.Caption(Caption(m.current, grid)),
		)
	} else {
		graph = m.styles.Unstable.Render("field is not finite (numerical blow-up)")
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Graph.Render(graph),
		"  "+m.styles.Heatstrip(m.current.Field, m.lower, m.upper, graphWidth),
	)

	var s strings.Builder
	s.WriteString(m.styles.Header.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")
	row := func(label, value string) {
		s.WriteString(m.styles.Label.Render(label) + m.styles.Value.Render(value) + "\n")
	}
	done := float64(m.current.Step) / float64(max(cfg.Steps-1, 1))
	row("Step", fmt.Sprintf("%d / %d", m.current.Step, cfg.Steps-1))
	row("Time", fmt.Sprintf("%.2f s", m.current.Time))
	row("Progress", ProgressBar(done, 16))
	row("Energy", fmt.Sprintf("%.2f", m.current.Field.Sum()))
	row("Peak", fmt.Sprintf("%.2f", m.current.Field.Max()))
	row("r", fmt.Sprintf("%.4f", m.engine.DiffusionNumber()))
	row("Stability", m.styles.StabilityBadge(m.engine.Stability()))
	row("Speed", fmt.Sprintf("%d steps/frame", m.stepsPerTick))
	row("Theme", m.theme.Name)

	if len(m.energyHistory) > 1 && heat.Field(m.energyHistory).IsFinite() {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString("\n" + chart + "\n")
	}
	s.WriteString(m.styles.Help.Render("SP:Pause N:Step +/-:Speed T:Theme ?:Help Q:Quit"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, left, m.styles.Panel.Render(s.String()))
	if m.showHelp {
		return helpText() + "\n" + view
	}
	return view
}

func helpText() string {
	return fmt.Sprintf(`
  Space  pause or resume stepping
  N      single step while paused
  + / -  double or halve steps per frame
  T      cycle colour theme (%s)
  ?      toggle this help
  Q      quit
`, strings.Join(ThemeNames(), ", "))
}

// bounds picks a fixed temperature axis covering the initial field and both
// boundary temperatures.
func bounds(f heat.Field, cfg heat.Config) (float64, float64) {
	lo := min(f.Min(), cfg.Left, cfg.Right)
	hi := max(f.Max(), cfg.Left, cfg.Right)
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}
