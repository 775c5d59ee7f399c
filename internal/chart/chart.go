// Package chart renders the history score series as a fixed-scale terminal
// plot. A Handle owns at most one live Chart; replacement always destroys
// the prior instance first so two charts never overlap one render target.
package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Point is one (label, score) pair of the derived series, in record order.
type Point struct {
	Label string
	Score float64
}

// Chart is a single render target for one series snapshot.
type Chart struct {
	points    []Point
	destroyed bool
	dot       lipgloss.Style
	axis      lipgloss.Style
}

// New builds a chart over a copy of points. Scores render on a fixed 0–10
// axis regardless of the data's actual range.
func New(points []Point) *Chart {
	cp := make([]Point, len(points))
	copy(cp, points)
	return &Chart{
		points: cp,
		dot:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		axis:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// Destroy releases the chart; a destroyed chart renders nothing.
func (c *Chart) Destroy()        { c.destroyed = true }
func (c *Chart) Destroyed() bool { return c.destroyed }

// Len is the number of plotted points.
func (c *Chart) Len() int { return len(c.points) }

// Render draws the series into at most width columns. The most recent points
// win when the series is wider than the viewport.
func (c *Chart) Render(width int) string {
	if c.destroyed {
		return ""
	}
	if len(c.points) == 0 {
		return c.axis.Render("(no data)")
	}
	if width < 16 {
		width = 16
	}
	const margin = 5 // "10 ┤ "
	perPoint := 2
	maxPoints := (width - margin) / perPoint
	pts := c.points
	if len(pts) > maxPoints {
		pts = pts[len(pts)-maxPoints:]
	}

	// Six rows cover the 0–10 scale in steps of two.
	var b strings.Builder
	for row := 5; row >= 0; row-- {
		lo := float64(row * 2)
		b.WriteString(c.axis.Render(fmt.Sprintf("%2d ┤", row*2)))
		for _, p := range pts {
			cell := "  "
			bucket := int(p.Score/2.0 + 0.5)
			if bucket > 5 {
				bucket = 5
			}
			if bucket < 0 {
				bucket = 0
			}
			if bucket == row {
				cell = c.dot.Render("●") + " "
			} else if lo == 0 {
				cell = c.axis.Render("·") + " "
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	// Label line: first and last visible labels anchor the x axis.
	first := pts[0].Label
	last := pts[len(pts)-1].Label
	span := len(pts) * perPoint
	gap := span - lipgloss.Width(first) - lipgloss.Width(last)
	label := first
	if len(pts) > 1 && gap > 0 {
		label += strings.Repeat(" ", gap) + last
	}
	b.WriteString(strings.Repeat(" ", margin-1))
	b.WriteString(c.axis.Render(label))
	return b.String()
}

// Handle is the process-wide chart slot. Only the history flow's owner may
// create or destroy the chart it holds.
type Handle struct {
	chart *Chart
}

func NewHandle() *Handle { return &Handle{} }

// Chart returns the live chart, or nil.
func (h *Handle) Chart() *Chart { return h.chart }

// Replace destroys the prior chart before constructing the new one.
func (h *Handle) Replace(points []Point) *Chart {
	if h.chart != nil {
		h.chart.Destroy()
	}
	h.chart = New(points)
	return h.chart
}

// Destroy drops the live chart, if any.
func (h *Handle) Destroy() {
	if h.chart != nil {
		h.chart.Destroy()
		h.chart = nil
	}
}
