// Package charts renders the dashboard's pie and scatter views to SVG.
package charts

import (
	"bytes"
	"fmt"
	"html"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"spacex-dash/launches"
)

// Options sizes the rendered charts.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions matches the dashboard layout.
var DefaultOptions = Options{Width: 640, Height: 400}

var outcomeColors = map[string]drawing.Color{
	"Success": drawing.ColorFromHex("2ca02c"),
	"Failure": drawing.ColorFromHex("d62728"),
}

// pointStyle draws markers only, with no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

// Pie renders the outcome summary of v. An empty summary renders a titled placeholder.
func Pie(w io.Writer, v launches.View, o Options) error {
	if v.PieNoData || v.Summary.Empty() {
		return Placeholder(w, v.PieTitle, o)
	}

	values := make([]chart.Value, 0, len(v.Slices))
	for _, s := range v.Slices {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Outcome, s.Count),
			Value: float64(s.Count),
			Style: chart.Style{FillColor: outcomeColors[s.Outcome]},
		})
	}

	pie := chart.PieChart{
		Title:  v.PieTitle,
		Width:  o.Width,
		Height: o.Height,
		Values: values,
	}
	return renderOrPlaceholder(w, pie.Render, v.PieTitle, o)
}

// Scatter renders payload mass against outcome class, one series per booster version.
func Scatter(w io.Writer, v launches.View, o Options) error {
	if v.ScatterNoData {
		return Placeholder(w, v.ScatterTitle, o)
	}

	var (
		order  []string
		byName = make(map[string]*chart.ContinuousSeries)
	)
	for _, p := range v.Points {
		name := p.BoosterVersion
		if name == "" {
			name = "Unknown"
		}
		s, ok := byName[name]
		if !ok {
			s = &chart.ContinuousSeries{
				Name:  name,
				Style: pointStyle(chart.GetDefaultColor(len(order))),
			}
			byName[name] = s
			order = append(order, name)
		}
		s.XValues = append(s.XValues, p.PayloadMass)
		s.YValues = append(s.YValues, float64(p.Class))
	}

	series := make([]chart.Series, 0, len(order)+1)
	for _, name := range order {
		series = append(series, *byName[name])
	}
	if len(series) == 0 {
		// Keep the axes visible for an empty selection.
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{v.Controls.Payload.Low},
			YValues: []float64{0},
			Style:   pointStyle(drawing.ColorTransparent),
		})
	}

	low, high := v.Controls.Payload.Low, v.Controls.Payload.High
	if high <= low {
		low, high = low-500, high+500
	}

	ch := chart.Chart{
		Title:      v.ScatterTitle,
		Width:      o.Width,
		Height:     o.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			Name:  "Payload Mass (kg)",
			Range: &chart.ContinuousRange{Min: low, Max: high},
		},
		YAxis: chart.YAxis{
			Name:  "Class",
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	if len(order) > 0 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return renderOrPlaceholder(w, ch.Render, v.ScatterTitle, o)
}

func renderOrPlaceholder(w io.Writer, render func(chart.RendererProvider, io.Writer) error, title string, o Options) error {
	var buf bytes.Buffer
	if err := render(chart.SVG, &buf); err != nil {
		return Placeholder(w, title, o)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Placeholder writes an empty SVG carrying only the title, the "no data" state.
func Placeholder(w io.Writer, title string, o Options) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" class="no-data">`+
			`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
			`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" font-size="16" fill="#503D36">%s</text>`+
			`</svg>`,
		o.Width, o.Height, html.EscapeString(title))
	return err
}
