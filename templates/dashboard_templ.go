// Hand-written counterpart of dashboard.templ, kept in sync with it so the
// package builds without the templ CLI. `templ generate` overwrites this file.

package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// SiteOptions renders the <option> list for the site dropdown.
func SiteOptions(opts []SiteOption, selected string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, o := range opts {
			sel := ""
			if o.Value == selected {
				sel = " selected"
			}
			if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`,
				templ.EscapeString(o.Value), sel, templ.EscapeString(o.Label)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Charts renders both chart panels. The SVG comes from the charts package and is trusted.
func Charts(data ChartsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="success-pie-chart" class="chart" data-title="%s" data-no-data="%t">%s</div>`+
			`<div id="success-payload-scatter-chart" class="chart" data-title="%s" data-points="%d">%s</div>`,
			templ.EscapeString(data.PieTitle), data.PieNoData, data.PieSVG,
			templ.EscapeString(data.ScatterTitle), data.Points, data.ScatterSVG)
		return err
	})
}

// ChartsFragment is the swappable part of the page served to the fetch fallback.
func ChartsFragment(data ChartsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="charts">`); err != nil {
			return err
		}
		if err := Charts(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// DashboardPage is the full dashboard: search box, site dropdown, pie chart,
// payload range and scatter chart.
func DashboardPage(data DashboardPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html><html lang="en"><head><meta charset="UTF-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1.0"><title>%[1]s</title>`+
			`<script src="https://cdn.tailwindcss.com"></script></head>`+
			`<body class="bg-[#F7F0E6] font-sans text-stone-800"><div class="max-w-5xl mx-auto p-6">`+
			`<h1 class="text-center font-black mb-2" style="color:#503D36;font-size:40px">%[1]s</h1>`+
			`<p class="text-center text-sm mb-6">%[2]d launch records</p>`+
			`<input id="site-input" type="text" placeholder="Search for a Launch Site..." class="w-1/2 p-2 border rounded-md"><br>`+
			`<select id="site-dropdown" class="w-full p-3 border rounded-md mt-2">`,
			templ.EscapeString(data.Title), data.RecordCount); err != nil {
			return err
		}
		if err := SiteOptions(data.Options, data.Selected).Render(ctx, w); err != nil {
			return err
		}

		s := data.Slider
		if _, err := fmt.Fprintf(w, `</select><br>`+
			`<p class="text-sm font-semibold mt-4">Payload range (Kg):</p>`+
			`<div id="payload-slider" class="flex items-center gap-3 my-4" data-min="%[1]s" data-max="%[2]s">`+
			`<span class="text-xs">%[5]s</span>`+
			`<input id="payload-low" type="range" min="%[1]s" max="%[2]s" step="%[3]s" value="%[4]s" class="flex-1">`+
			`<input id="payload-high" type="range" min="%[1]s" max="%[2]s" step="%[3]s" value="%[6]s" class="flex-1">`+
			`<span class="text-xs">%[7]s</span></div>`,
			fmtNum(s.Min), fmtNum(s.Max), fmtNum(s.Step), fmtNum(s.Low),
			templ.EscapeString(s.MinMark), fmtNum(s.High), templ.EscapeString(s.MaxMark)); err != nil {
			return err
		}

		if err := ChartsFragment(data.Charts).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, dashboardScript+`</div></body></html>`)
		return err
	})
}
