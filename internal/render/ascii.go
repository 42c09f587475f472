/*
Copyright 2021 TuneLab, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package render draws chart descriptions onto concrete output surfaces.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/tunelab/tunectl/internal/plot"
)

// ANSIRenderer draws scatter charts as character grids suitable for a terminal
type ANSIRenderer struct {
	// Width is the plot area width in columns.
	Width int
	// Height is the plot area height in rows.
	Height int

	profile termenv.Profile
}

// NewANSIRenderer returns a renderer sized for a typical terminal, adapting its color
// output to the capabilities of the current environment
func NewANSIRenderer(width, height int) *ANSIRenderer {
	if width <= 0 {
		width = 72
	}
	if height <= 0 {
		height = 18
	}
	return &ANSIRenderer{Width: width, Height: height, profile: termenv.ColorProfile()}
}

// Render draws every chart in the list, separated by blank lines
func (r *ANSIRenderer) Render(w io.Writer, list plot.ChartList) error {
	for i := range list.Charts {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := r.renderChart(w, &list.Charts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ANSIRenderer) renderChart(w io.Writer, c *plot.Chart) error {
	title := termenv.String(c.Title).Bold().String()
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	if len(c.Points) == 0 {
		_, err := fmt.Fprintln(w, "  (no points)")
		return err
	}

	xs := make([]float64, len(c.Points))
	ys := make([]float64, len(c.Points))
	for i := range c.Points {
		xs[i] = xValue(&c.X, &c.Points[i])
		ys[i] = c.Points[i].Y
	}
	xMin, xMax := minMax(xs)
	yMin, yMax := minMax(ys)

	// Rasterize the point cloud; overlapping points collapse into one cell
	grid := make([][]bool, r.Height)
	for i := range grid {
		grid[i] = make([]bool, r.Width)
	}
	for i := range xs {
		col := scale(xs[i], xMin, xMax, r.Width-1)
		row := r.Height - 1 - scale(ys[i], yMin, yMax, r.Height-1)
		grid[row][col] = true
	}

	dot := termenv.String("•").Foreground(r.profile.Color("6")).String()
	for row := range grid {
		line := strings.Builder{}
		line.WriteString("  |")
		for col := range grid[row] {
			if grid[row][col] {
				line.WriteString(dot)
			} else {
				line.WriteByte(' ')
			}
		}
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "  +%s\n", strings.Repeat("-", r.Width)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "   %s: %s .. %s   %s: %s .. %s\n",
		c.X.Label, formatBound(&c.X, xMin), formatBound(&c.X, xMax),
		c.Y.Label, trimFloat(yMin), trimFloat(yMax))
	return err
}

// xValue projects a point onto a one dimensional numeric scale regardless of axis kind
func xValue(axis *plot.Axis, p *plot.Point) float64 {
	switch axis.Kind {
	case plot.AxisTime:
		if p.Time != nil {
			return float64(p.Time.Unix())
		}
		return 0
	case plot.AxisDiscrete:
		for i, cat := range axis.Categories {
			if p.X.String() == cat {
				return float64(i)
			}
		}
		return float64(len(axis.Categories))
	default:
		v, _ := p.X.Float64Value()
		return v
	}
}

func formatBound(axis *plot.Axis, v float64) string {
	switch axis.Kind {
	case plot.AxisTime:
		return time.Unix(int64(v), 0).UTC().Format(time.RFC3339)
	case plot.AxisDiscrete:
		i := int(v)
		if i >= 0 && i < len(axis.Categories) {
			return axis.Categories[i]
		}
		return "?"
	default:
		return trimFloat(v)
	}
}

func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}

func minMax(vs []float64) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// scale maps v from [min,max] onto [0,n], degenerating to the midpoint when the domain is empty
func scale(v, min, max float64, n int) int {
	if max <= min {
		return n / 2
	}
	i := int(math.Round((v - min) / (max - min) * float64(n)))
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}
