package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/heatsim/internal/heat"
)

// SVG collects snapshots and renders them as overlaid temperature profiles
// when closed. Unlike Stream it holds every snapshot it receives in memory.
type SVG struct {
	w         io.Writer
	positions []float64
	width     int
	height    int
	snaps     []heat.Snapshot
}

func NewSVG(w io.Writer, h Header, width, height int) *SVG {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	return &SVG{w: w, positions: h.Positions, width: width, height: height}
}

func (s *SVG) OnSnapshot(snap heat.Snapshot) {
	s.snaps = append(s.snaps, snap)
}

func (s *SVG) Records() int { return len(s.snaps) }

// Close writes the SVG document.
func (s *SVG) Close() error {
	_, err := io.WriteString(s.w, ProfilesToSVG(s.positions, s.snaps, s.width, s.height))
	return err
}

// ProfilesToSVG draws one polyline per snapshot, oldest faint and newest solid.
func ProfilesToSVG(xs []float64, snaps []heat.Snapshot, width, height int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(xs) < 2 || len(snaps) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	minX, maxX := xs[0], xs[len(xs)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, snap := range snaps {
		if !snap.Field.IsFinite() {
			continue
		}
		minY = math.Min(minY, snap.Field.Min())
		maxY = math.Max(maxY, snap.Field.Max())
	}
	if math.IsInf(minY, 0) {
		minY, maxY = 0, 1
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeY = maxY - minY

	for i, snap := range snaps {
		if !snap.Field.IsFinite() || len(snap.Field) != len(xs) {
			continue
		}
		opacity := 0.25 + 0.75*float64(i+1)/float64(len(snaps))
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="#ff8c42" stroke-opacity="%.2f" stroke-width="1.5" d="M`, opacity))
		for j, v := range snap.Field {
			x := (xs[j] - minX) / rangeX * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(fmt.Sprintf(`"><title>t = %.2f s</title></path>
`, snap.Time))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
