// Package export streams diffusion snapshots to a writer as JSON lines or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/heatsim/internal/heat"
)

// Header is the first JSON record of a stream.
type Header struct {
	Length    float64   `json:"length"`
	Duration  float64   `json:"duration"`
	Points    int       `json:"points"`
	Steps     int       `json:"steps"`
	Alpha     float64   `json:"alpha"`
	Left      float64   `json:"t_left"`
	Right     float64   `json:"t_right"`
	Dx        float64   `json:"dx"`
	Dt        float64   `json:"dt"`
	R         float64   `json:"r"`
	Stable    bool      `json:"stable"`
	Positions []float64 `json:"positions"`
}

type Record struct {
	Step  int       `json:"step"`
	Time  float64   `json:"time"`
	Field []float64 `json:"field"`
}

func NewHeader(cfg heat.Config, grid heat.Grid, report heat.StabilityReport) Header {
	return Header{
		Length:    cfg.Length,
		Duration:  cfg.Duration,
		Points:    cfg.Points,
		Steps:     cfg.Steps,
		Alpha:     cfg.Alpha,
		Left:      cfg.Left,
		Right:     cfg.Right,
		Dx:        grid.Dx,
		Dt:        grid.Dt,
		R:         report.R,
		Stable:    report.Stable,
		Positions: grid.Positions(),
	}
}

// Stream is a snapshot observer that encodes every snapshot as it arrives.
// Write errors are kept and reported by Err; later snapshots are dropped.
type Stream struct {
	enc   encoder
	err   error
	count int
}

type encoder interface {
	header(h Header) error
	record(r Record) error
	flush() error
}

// NewStream returns a stream for format "json" or "csv".
func NewStream(w io.Writer, format string, h Header) (*Stream, error) {
	var enc encoder
	switch format {
	case "json":
		enc = &jsonEncoder{enc: json.NewEncoder(w)}
	case "csv":
		enc = &csvEncoder{w: csv.NewWriter(w)}
	default:
		return nil, fmt.Errorf("unknown export format: %s (available: json, csv)", format)
	}
	s := &Stream{enc: enc}
	s.err = enc.header(h)
	return s, nil
}

func (s *Stream) OnSnapshot(snap heat.Snapshot) {
	if s.err != nil {
		return
	}
	s.err = s.enc.record(Record{Step: snap.Step, Time: snap.Time, Field: snap.Field})
	if s.err == nil {
		s.count++
	}
}

// Close flushes buffered output and returns the first error seen.
func (s *Stream) Close() error {
	if s.err != nil {
		return s.err
	}
	return s.enc.flush()
}

func (s *Stream) Err() error   { return s.err }
func (s *Stream) Records() int { return s.count }

type jsonEncoder struct {
	enc *json.Encoder
}

func (j *jsonEncoder) header(h Header) error { return j.enc.Encode(h) }
func (j *jsonEncoder) record(r Record) error { return j.enc.Encode(r) }
func (j *jsonEncoder) flush() error          { return nil }

type csvEncoder struct {
	w *csv.Writer
}

func (c *csvEncoder) header(h Header) error {
	header := []string{"step", "time"}
	for _, x := range h.Positions {
		header = append(header, "x="+strconv.FormatFloat(x, 'f', 6, 64))
	}
	return c.w.Write(header)
}

func (c *csvEncoder) record(r Record) error {
	row := []string{strconv.Itoa(r.Step), strconv.FormatFloat(r.Time, 'f', 6, 64)}
	for _, val := range r.Field {
		row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
	}
	return c.w.Write(row)
}

func (c *csvEncoder) flush() error {
	c.w.Flush()
	return c.w.Error()
}
