package charts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacex-dash/launches"
)

func testDataset(t *testing.T) *launches.Dataset {
	t.Helper()
	ds, err := launches.NewDataset([]launches.LaunchRecord{
		{PayloadMass: 500, LaunchSite: "CCAFS LC-40", BoosterVersion: "F9 v1.0  B0003", Class: launches.Failure},
		{PayloadMass: 2490, LaunchSite: "VAFB SLC-4E", BoosterVersion: "F9 FT B1029.1", Class: launches.Success},
		{PayloadMass: 5300, LaunchSite: "KSC LC-39A", BoosterVersion: "F9 B4 B1043.1", Class: launches.Success},
	})
	require.NoError(t, err)
	return ds
}

func TestPie(t *testing.T) {
	ds := testDataset(t)
	v := launches.Compute(ds, launches.DefaultControls(ds), launches.DefaultPolicy())

	var buf bytes.Buffer
	require.NoError(t, Pie(&buf, v, DefaultOptions))
	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg, "<svg"), svg)
	assert.Contains(t, svg, "Total Success and Failure Launches")
	assert.NotContains(t, svg, `class="no-data"`)
}

func TestPie_NoData(t *testing.T) {
	ds := testDataset(t)
	cs := launches.ControlState{Site: "KSC LC-39A", Payload: launches.PayloadRange{Low: 0, High: 1000}}
	v := launches.Compute(ds, cs, launches.DefaultPolicy())

	var buf bytes.Buffer
	require.NoError(t, Pie(&buf, v, DefaultOptions))
	assert.Contains(t, buf.String(), `class="no-data"`)
	assert.Contains(t, buf.String(), "No data available for KSC LC-39A")
}

func TestScatter(t *testing.T) {
	ds := testDataset(t)
	v := launches.Compute(ds, launches.DefaultControls(ds), launches.DefaultPolicy())

	var buf bytes.Buffer
	require.NoError(t, Scatter(&buf, v, DefaultOptions))
	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "Correlation Between Payload and Success for All Sites")
}

func TestScatter_EmptyPolicies(t *testing.T) {
	ds := testDataset(t)
	cs := launches.ControlState{Site: "KSC LC-39A", Payload: launches.PayloadRange{Low: 0, High: 1000}}

	var series bytes.Buffer
	v := launches.Compute(ds, cs, launches.DefaultPolicy())
	require.NoError(t, Scatter(&series, v, DefaultOptions))
	assert.Contains(t, series.String(), "Correlation Between Payload and Success for KSC LC-39A")

	var placeholder bytes.Buffer
	v = launches.Compute(ds, cs, launches.Policy{SiteMatch: launches.MatchContains, ScatterEmpty: launches.ScatterEmptyPlaceholder})
	require.NoError(t, Scatter(&placeholder, v, DefaultOptions))
	assert.Contains(t, placeholder.String(), `class="no-data"`)
	assert.Contains(t, placeholder.String(), "No data available for KSC LC-39A")
}

func TestPlaceholder_EscapesTitle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Placeholder(&buf, `<script>&`, Options{Width: 10, Height: 10}))
	assert.Contains(t, buf.String(), "&lt;script&gt;&amp;")
	assert.Contains(t, buf.String(), `width="10"`)
}
