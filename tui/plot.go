package tui

import (
	plot "github.com/chriskim06/drawille-go"
)

// sparkline draws one field's retained history as a braille plot under
// the table.
type sparkline struct {
	canvas *plot.Canvas
	points int
}

func newSparkline(w, h, points int) *sparkline {
	s := &sparkline{points: points}
	s.resize(w, h)
	return s
}

func (s *sparkline) resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	p := plot.NewCanvas(w, h)
	p.NumDataPoints = s.points
	p.ShowAxis = false
	s.canvas = &p
}

func (s *sparkline) render(series []float64) string {
	if len(series) == 0 {
		return ""
	}
	if len(series) > s.points {
		series = series[len(series)-s.points:]
	}
	s.canvas.Fill([][]float64{series})
	return s.canvas.String()
}
