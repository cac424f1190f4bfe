package heat

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultSnapshotInterval is the step cadence at which snapshots are emitted.
const DefaultSnapshotInterval = 100

type Option func(*Engine)

// WithLogger sets the diagnostic logger that receives the stability warning.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithSnapshotInterval emits a snapshot every n steps. Values below 1 are ignored.
func WithSnapshotInterval(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.interval = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.AddObserver(o) }
}

// Engine advances a temperature field with the explicit FTCS scheme. It owns
// its buffers exclusively and is not safe for concurrent use. One Engine
// performs exactly one run.
//
// Blow-up from an unstable diffusion number is not detected while stepping.
type Engine struct {
	cfg       Config
	grid      Grid
	report    StabilityReport
	prev      Field
	next      Field
	step      int
	state     State
	interval  int
	observers []Observer
	log       logrus.FieldLogger
}

// New validates cfg and the initial field and returns an engine in the
// Created state.
func New(cfg Config, initial Field, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := ComputeSteps(cfg.Length, cfg.Duration, cfg.Points, cfg.Steps)
	if err != nil {
		return nil, err
	}
	if len(initial) != cfg.Points {
		return nil, invalid("initial", len(initial), "field length must equal points")
	}

	e := &Engine{
		cfg:       cfg,
		grid:      grid,
		report:    CheckStability(cfg.Alpha, grid.Dx, grid.Dt),
		prev:      initial.Clone(),
		next:      make(Field, cfg.Points),
		state:     Created,
		interval:  DefaultSnapshotInterval,
		observers: make([]Observer, 0),
		log:       discardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) AddObserver(o Observer) {
	if o != nil {
		e.observers = append(e.observers, o)
	}
}

func (e *Engine) Config() Config             { return e.cfg }
func (e *Engine) Grid() Grid                 { return e.grid }
func (e *Engine) Stability() StabilityReport { return e.report }
func (e *Engine) DiffusionNumber() float64   { return e.report.R }
func (e *Engine) StepIndex() int             { return e.step }
func (e *Engine) State() State               { return e.state }
func (e *Engine) Done() bool                 { return e.state == Finished }
func (e *Engine) SnapshotInterval() int      { return e.interval }
func (e *Engine) Field() Field               { return e.prev.Clone() }
func (e *Engine) Snapshot() Snapshot         { return e.snapshot() }

// Step advances the run by one time step. The first call also reports the
// stability check and emits the step-0 snapshot. Once step Nt-1 has been
// computed the engine is Finished and Step returns ErrFinished.
func (e *Engine) Step() error {
	switch e.state {
	case Finished:
		return ErrFinished
	case Created:
		e.begin()
		if e.state == Finished {
			return nil
		}
	}

	e.advance()
	e.step++

	last := e.step == e.cfg.Steps-1
	if e.step%e.interval == 0 || last {
		e.emit()
	}
	if last {
		e.state = Finished
	}
	return nil
}

// Run steps until the engine is Finished.
func (e *Engine) Run() error {
	return e.RunContext(context.Background())
}

// RunContext steps until the engine is Finished, checking ctx between steps.
func (e *Engine) RunContext(ctx context.Context) error {
	for !e.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) begin() {
	if !e.report.Stable {
		e.log.WithFields(logrus.Fields{
			"r":     e.report.R,
			"limit": StabilityLimit,
			"dx":    e.grid.Dx,
			"dt":    e.grid.Dt,
		}).Warn("stability condition violated; consider reducing dt or increasing dx")
	}
	e.state = Stepping
	e.emit()
	if e.cfg.Steps == 1 {
		e.state = Finished
	}
}

// advance computes next from prev only, then swaps the buffers.
func (e *Engine) advance() {
	prev, next, r := e.prev, e.next, e.report.R
	n := len(prev)
	for i := 1; i < n-1; i++ {
		next[i] = prev[i] + r*(prev[i-1]-2*prev[i]+prev[i+1])
	}
	next[0] = e.cfg.Left
	next[n-1] = e.cfg.Right
	e.prev, e.next = next, prev
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{Step: e.step, Time: e.grid.TimeAt(e.step), Field: e.prev.Clone()}
}

func (e *Engine) emit() {
	for _, o := range e.observers {
		o.OnSnapshot(e.snapshot())
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
