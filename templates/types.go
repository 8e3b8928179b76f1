package templates

type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SliderData drives the payload range inputs.
type SliderData struct {
	Min     float64
	Max     float64
	Step    float64
	Low     float64
	High    float64
	MinMark string
	MaxMark string
}

// ChartsData holds the rendered SVG for both charts.
type ChartsData struct {
	PieTitle     string
	PieSVG       string
	PieNoData    bool
	ScatterTitle string
	ScatterSVG   string
	Points       int
}

type DashboardPageData struct {
	Title       string
	RecordCount int
	Options     []SiteOption
	Selected    string
	Slider      SliderData
	Charts      ChartsData
}
