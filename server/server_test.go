package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spacex-dash/launches"
)

func testRecords() []launches.LaunchRecord {
	return []launches.LaunchRecord{
		{PayloadMass: 0, LaunchSite: "CCAFS LC-40", BoosterVersion: "F9 v1.0  B0003", Class: launches.Failure},
		{PayloadMass: 525, LaunchSite: "CCAFS LC-40", BoosterVersion: "F9 v1.0  B0005", Class: launches.Failure},
		{PayloadMass: 2490, LaunchSite: "VAFB SLC-4E", BoosterVersion: "F9 FT B1029.1", Class: launches.Success},
		{PayloadMass: 3600, LaunchSite: "KSC LC-39A", BoosterVersion: "F9 FT B1031.1", Class: launches.Success},
		{PayloadMass: 5300, LaunchSite: "CCAFS SLC-40", BoosterVersion: "F9 B4 B1043.1", Class: launches.Success},
		{PayloadMass: 9600, LaunchSite: "VAFB SLC-4E", BoosterVersion: "F9 B5 B1048.2", Class: launches.Success},
	}
}

type stubLoader struct {
	records []launches.LaunchRecord
	err     error
}

func (l *stubLoader) Load(context.Context) (*launches.Dataset, error) {
	if l.err != nil {
		return nil, l.err
	}
	return launches.NewDataset(l.records)
}

func newTestServer(t *testing.T, loader DatasetLoader) (*Server, *httptest.Server) {
	t.Helper()
	ds, err := launches.NewDataset(testRecords())
	require.NoError(t, err)

	s := New(ds, loader, Options{Policy: launches.DefaultPolicy()}, zap.NewNop())
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return s, ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestView_Defaults(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var v launches.View
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/view", &v))
	assert.Equal(t, launches.AllSites, v.Controls.Site)
	assert.Equal(t, launches.PayloadRange{Low: 0, High: 9600}, v.Controls.Payload)
	assert.Equal(t, launches.OutcomeSummary{"Success": 4, "Failure": 2}, v.Summary)
	assert.Len(t, v.Points, 6)
}

func TestView_FiltersAndClamps(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var v launches.View
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/view?site=ccafs&min=-100&max=6000", &v))
	assert.Equal(t, launches.PayloadRange{Low: 0, High: 6000}, v.Controls.Payload)
	assert.Equal(t, "Success and Failure Launches for ccafs", v.PieTitle)
	assert.Equal(t, launches.OutcomeSummary{"Success": 1, "Failure": 2}, v.Summary)
}

func TestView_NoData(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var v launches.View
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/view?site=KSC+LC-39A&min=5000&max=9600", &v))
	assert.True(t, v.PieNoData)
	assert.Equal(t, "No data available for KSC LC-39A", v.PieTitle)
	assert.Empty(t, v.Points)
}

func TestView_BadInput(t *testing.T) {
	_, ts := newTestServer(t, nil)

	for _, q := range []string{"min=abc", "max=1e", "min=5000&max=100", "min=NaN", "max=NaN", "max=Inf", "min=-Infinity"} {
		var body map[string]string
		assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/view?"+q, &body), q)
		assert.NotEmpty(t, body["error"], q)
	}
}

func TestView_RangePastBounds(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var v launches.View
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/view?min=20000&max=30000", &v))
	assert.Equal(t, launches.PayloadRange{Low: 20000, High: 30000}, v.Controls.Payload)
	assert.True(t, v.PieNoData)
	assert.Empty(t, v.Points)
}

func TestSites(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var opts []launches.SiteOption
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/sites?q=ccafs", &opts))
	assert.Equal(t, []launches.SiteOption{
		{Label: "All Sites", Value: "ALL"},
		{Label: "CCAFS LC-40", Value: "CCAFS LC-40"},
		{Label: "CCAFS SLC-40", Value: "CCAFS SLC-40"},
	}, opts)
}

func TestDataset(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var d DatasetResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/dataset", &d))
	assert.Equal(t, 6, d.Records)
	assert.Equal(t, 9600.0, d.MaxPayload)
	assert.Equal(t, 1000.0, d.SliderStep)
	assert.Equal(t, map[string]string{"0": "0", "9600": "9600"}, d.Marks)
	assert.Equal(t, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}, d.Sites)
}

func TestIndexAndCharts(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := string(body)
	assert.Contains(t, html, "SpaceX Launch Records Dashboard")
	assert.Contains(t, html, `<option value="ALL" selected>All Sites</option>`)
	assert.Contains(t, html, "9,600")
	assert.Contains(t, html, "<svg")

	resp, err = http.Get(ts.URL + "/charts/pie.svg?site=VAFB+SLC-4E")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "Success and Failure Launches for VAFB SLC-4E")

	resp, err = http.Get(ts.URL + "/fragments/charts?site=KSC+LC-39A&min=5000")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.HasPrefix(string(body), `<div id="charts">`))
	assert.Contains(t, string(body), `data-no-data="true"`)
}

func TestReload(t *testing.T) {
	loader := &stubLoader{records: testRecords()[:2]}
	s, ts := newTestServer(t, loader)

	resp, err := http.Post(ts.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, s.Dataset().Len())

	loader.err = errors.New("source offline")
	resp, err = http.Post(ts.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, 2, s.Dataset().Len(), "failed reload keeps the previous dataset")
}

func TestReload_NoLoader(t *testing.T) {
	s, _ := newTestServer(t, nil)
	require.Error(t, s.Reload(context.Background()))
}

func TestWebSocket(t *testing.T) {
	_, ts := newTestServer(t, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/controls"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	roundTrip := func(in any) Message {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		require.NoError(t, conn.WriteJSON(in))
		var out Message
		require.NoError(t, conn.ReadJSON(&out))
		return out
	}

	msg := roundTrip(ControlMessage{Type: "view", Controls: &launches.ControlState{
		Site:    "VAFB SLC-4E",
		Payload: launches.PayloadRange{Low: 0, High: 5000},
	}})
	require.Equal(t, "view", msg.Event)
	require.NotNil(t, msg.Data)
	assert.Equal(t, launches.OutcomeSummary{"Success": 1}, msg.Data.Summary)
	assert.Contains(t, msg.PieSVG, "<svg")
	assert.Contains(t, msg.ScatterSVG, "<svg")

	msg = roundTrip(ControlMessage{Type: "search", Search: "vafb"})
	assert.Equal(t, "options", msg.Event)
	assert.Equal(t, []launches.SiteOption{
		{Label: "All Sites", Value: "ALL"},
		{Label: "VAFB SLC-4E", Value: "VAFB SLC-4E"},
	}, msg.Options)

	msg = roundTrip(ControlMessage{Type: "view", Controls: &launches.ControlState{
		Site:    launches.AllSites,
		Payload: launches.PayloadRange{Low: 9000, High: 100},
	}})
	assert.Equal(t, "error", msg.Event)
	assert.Contains(t, msg.Error, "invalid payload range")

	msg = roundTrip(map[string]string{"type": "teleport"})
	assert.Equal(t, "error", msg.Event)
}
