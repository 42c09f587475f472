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

package render

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/tunelab/tunectl/internal/plot"
)

const (
	svgWidth   = 520
	svgHeight  = 260
	svgPadding = 40
)

// HTMLRenderer writes a standalone report with one inline SVG scatter per chart
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer compiles the report template
func NewHTMLRenderer() (*HTMLRenderer, error) {
	t, err := template.New("report").Funcs(sprig.HtmlFuncMap()).Parse(reportTemplate)
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tmpl: t}, nil
}

// Render projects every chart into pixel space and executes the report template
func (r *HTMLRenderer) Render(w io.Writer, list plot.ChartList) error {
	model := reportModel{
		Job:       list.Job,
		Objective: list.Objective,
		Generated: time.Now().UTC(),
		Width:     svgWidth,
		Height:    svgHeight,
	}
	for i := range list.Charts {
		model.Charts = append(model.Charts, projectChart(&list.Charts[i]))
	}
	return r.tmpl.Execute(w, model)
}

type reportModel struct {
	Job       string
	Objective string
	Generated time.Time
	Width     int
	Height    int
	Charts    []svgChart
}

type svgChart struct {
	Title  string
	XLabel string
	YLabel string
	XMin   string
	XMax   string
	YMin   string
	YMax   string
	Points []svgPoint
}

type svgPoint struct {
	CX    int
	CY    int
	Trial string
	Label string
}

// projectChart maps the raw point cloud into SVG pixel coordinates so the template
// stays purely presentational
func projectChart(c *plot.Chart) svgChart {
	out := svgChart{Title: c.Title, XLabel: c.X.Label, YLabel: c.Y.Label}

	if len(c.Points) == 0 {
		return out
	}

	xs := make([]float64, len(c.Points))
	ys := make([]float64, len(c.Points))
	for i := range c.Points {
		xs[i] = xValue(&c.X, &c.Points[i])
		ys[i] = c.Points[i].Y
	}
	xMin, xMax := minMax(xs)
	yMin, yMax := minMax(ys)

	out.XMin, out.XMax = formatBound(&c.X, xMin), formatBound(&c.X, xMax)
	out.YMin, out.YMax = trimFloat(yMin), trimFloat(yMax)

	plotW := svgWidth - 2*svgPadding
	plotH := svgHeight - 2*svgPadding
	for i := range c.Points {
		out.Points = append(out.Points, svgPoint{
			CX:    svgPadding + scale(xs[i], xMin, xMax, plotW),
			CY:    svgHeight - svgPadding - scale(ys[i], yMin, yMax, plotH),
			Trial: c.Points[i].Trial,
			Label: fmt.Sprintf("%s: (%s, %s)", c.Points[i].Trial, pointX(&c.X, &c.Points[i]), trimFloat(c.Points[i].Y)),
		})
	}
	return out
}

func pointX(axis *plot.Axis, p *plot.Point) string {
	if axis.Kind == plot.AxisTime && p.Time != nil {
		return p.Time.UTC().Format(time.RFC3339)
	}
	return p.X.String()
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Job }} tuning report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; margin-bottom: 0.2em; }
svg { border: 1px solid #ccc; background: #fcfcfc; }
circle { fill: #2a7fff; opacity: 0.75; }
circle:hover { fill: #ff6a00; }
.bounds { font-size: 0.8em; fill: #666; }
footer { margin-top: 2em; font-size: 0.8em; color: #888; }
</style>
</head>
<body>
<h1>{{ .Job }} &mdash; objective {{ .Objective | lower }}</h1>
{{- range .Charts }}
<h2>{{ .Title }}</h2>
<svg width="{{ $.Width }}" height="{{ $.Height }}" role="img">
  <text class="bounds" x="4" y="14">{{ .YLabel }}: {{ .YMin }} .. {{ .YMax }}</text>
  <text class="bounds" x="4" y="{{ sub $.Height 6 }}">{{ .XLabel }}: {{ .XMin }} .. {{ .XMax }}</text>
  {{- range .Points }}
  <circle cx="{{ .CX }}" cy="{{ .CY }}" r="4"><title>{{ .Label }}</title></circle>
  {{- end }}
</svg>
{{- end }}
<footer>generated {{ .Generated | date "2006-01-02 15:04:05 MST" }}</footer>
</body>
</html>
`
