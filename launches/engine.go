package launches

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	// AllSites is the selector value that disables site filtering.
	AllSites = "ALL"

	allSitesLabel = "All Sites"
)

// ErrInvalidRange is returned for a payload range whose low end exceeds its high end.
var ErrInvalidRange = errors.New("invalid payload range")

// SiteMatch selects how a non-ALL site selector is compared against LaunchSite.
type SiteMatch string

const (
	MatchContains SiteMatch = "contains"
	MatchExact    SiteMatch = "exact"
)

// ScatterEmpty selects what the scatter view reports when no record survives filtering.
type ScatterEmpty string

const (
	ScatterEmptySeries      ScatterEmpty = "series"
	ScatterEmptyPlaceholder ScatterEmpty = "placeholder"
)

// Policy carries the behaviours that differ between dashboard variants.
type Policy struct {
	SiteMatch    SiteMatch    `json:"site_match"`
	ScatterEmpty ScatterEmpty `json:"scatter_empty"`
}

// DefaultPolicy matches case-insensitive substrings and renders empty scatter series.
func DefaultPolicy() Policy {
	return Policy{SiteMatch: MatchContains, ScatterEmpty: ScatterEmptySeries}
}

// PayloadRange is an inclusive payload mass interval in kilograms.
type PayloadRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Validate rejects non-finite bounds and a low end above the high end.
func (r PayloadRange) Validate() error {
	if !finite(r.Low) || !finite(r.High) {
		return fmt.Errorf("%w: bounds must be finite, got %g..%g", ErrInvalidRange, r.Low, r.High)
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: low %g exceeds high %g", ErrInvalidRange, r.Low, r.High)
	}
	return nil
}

// Contains reports whether mass lies in [Low, High].
func (r PayloadRange) Contains(mass float64) bool {
	return mass >= r.Low && mass <= r.High
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Clamp restricts the range to the dataset's payload bounds. A range that does
// not overlap the bounds is returned unchanged, so it still selects nothing
// and Low never exceeds High.
func (r PayloadRange) Clamp(ds *Dataset) PayloadRange {
	if r.High < ds.MinPayload() || r.Low > ds.MaxPayload() {
		return r
	}
	out := r
	if out.Low < ds.MinPayload() {
		out.Low = ds.MinPayload()
	}
	if out.High > ds.MaxPayload() {
		out.High = ds.MaxPayload()
	}
	return out
}

// ControlState is the set of dashboard control values for one recomputation.
type ControlState struct {
	Site    string       `json:"site"`
	Payload PayloadRange `json:"payload"`
	Search  string       `json:"search,omitempty"`
}

// DefaultControls selects every site over the full payload range.
func DefaultControls(ds *Dataset) ControlState {
	return ControlState{Site: AllSites, Payload: ds.FullRange()}
}

// Normalize fills an empty site with AllSites, validates the payload range and
// clamps it to ds.
func (cs ControlState) Normalize(ds *Dataset) (ControlState, error) {
	if cs.Site == "" {
		cs.Site = AllSites
	}
	if err := cs.Payload.Validate(); err != nil {
		return cs, err
	}
	cs.Payload = cs.Payload.Clamp(ds)
	return cs, nil
}

// SiteOption is one entry of the site dropdown.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// OutcomeSummary maps an outcome label to its launch count. Outcomes with no
// launches are absent, so an empty input gives an empty summary.
type OutcomeSummary map[string]int

// Slice is one pie wedge.
type Slice struct {
	Outcome string `json:"outcome"`
	Count   int    `json:"count"`
}

func (s OutcomeSummary) Empty() bool { return len(s) == 0 }

func (s OutcomeSummary) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// Slices returns the wedges ordered by count descending, then label.
func (s OutcomeSummary) Slices() []Slice {
	out := make([]Slice, 0, len(s))
	for label, count := range s {
		out = append(out, Slice{Outcome: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Outcome < out[j].Outcome
	})
	return out
}

// FilterByPayload keeps records whose payload mass lies inside r, inclusive of both ends.
func FilterByPayload(records []LaunchRecord, r PayloadRange) []LaunchRecord {
	out := make([]LaunchRecord, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.PayloadMass) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterBySite keeps records launched from site. AllSites returns records unchanged.
func FilterBySite(records []LaunchRecord, site string, match SiteMatch) []LaunchRecord {
	if site == AllSites {
		return records
	}

	needle := strings.ToLower(site)
	out := make([]LaunchRecord, 0, len(records))
	for _, rec := range records {
		var ok bool
		if match == MatchExact {
			ok = rec.LaunchSite == site
		} else {
			ok = strings.Contains(strings.ToLower(rec.LaunchSite), needle)
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

// SummarizeOutcomes counts records per outcome label.
func SummarizeOutcomes(records []LaunchRecord) OutcomeSummary {
	summary := make(OutcomeSummary)
	for _, rec := range records {
		summary[rec.Class.Label()]++
	}
	return summary
}

// SearchSites returns the dropdown options whose site name contains text,
// ignoring case, always led by the All Sites option.
func SearchSites(ds *Dataset, text string) []SiteOption {
	needle := strings.ToLower(strings.TrimSpace(text))
	opts := []SiteOption{{Label: allSitesLabel, Value: AllSites}}
	for _, site := range ds.sites {
		if strings.Contains(strings.ToLower(site), needle) {
			opts = append(opts, SiteOption{Label: site, Value: site})
		}
	}
	return opts
}

// Point is one scatter marker.
type Point struct {
	PayloadMass    float64 `json:"payload_mass"`
	Class          Outcome `json:"class"`
	BoosterVersion string  `json:"booster_version"`
	LaunchSite     string  `json:"launch_site"`
}

// View is everything the dashboard renders for one control state.
type View struct {
	Controls      ControlState   `json:"controls"`
	Summary       OutcomeSummary `json:"summary"`
	Slices        []Slice        `json:"slices"`
	PieTitle      string         `json:"pie_title"`
	PieNoData     bool           `json:"pie_no_data"`
	Points        []Point        `json:"points"`
	ScatterTitle  string         `json:"scatter_title"`
	ScatterNoData bool           `json:"scatter_no_data"`
}

// Compute runs the filter pipeline for one control state. It has no side
// effects; the same dataset and controls always yield the same view.
func Compute(ds *Dataset, cs ControlState, p Policy) View {
	if cs.Site == "" {
		cs.Site = AllSites
	}

	filtered := FilterBySite(FilterByPayload(ds.Records(), cs.Payload), cs.Site, p.SiteMatch)
	summary := SummarizeOutcomes(filtered)

	v := View{
		Controls: cs,
		Summary:  summary,
		Slices:   summary.Slices(),
		Points:   make([]Point, 0, len(filtered)),
	}

	siteName := cs.Site
	if cs.Site == AllSites {
		siteName = allSitesLabel
		v.PieTitle = "Total Success and Failure Launches"
	} else {
		v.PieTitle = "Success and Failure Launches for " + cs.Site
	}
	if summary.Empty() {
		v.PieNoData = true
		v.PieTitle = "No data available for " + siteName
	}

	for _, rec := range filtered {
		v.Points = append(v.Points, Point{
			PayloadMass:    rec.PayloadMass,
			Class:          rec.Class,
			BoosterVersion: rec.BoosterVersion,
			LaunchSite:     rec.LaunchSite,
		})
	}

	v.ScatterTitle = "Correlation Between Payload and Success for " + siteName
	if len(v.Points) == 0 && p.ScatterEmpty == ScatterEmptyPlaceholder {
		v.ScatterNoData = true
		v.ScatterTitle = "No data available for " + siteName
	}
	return v
}
