package launches

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_DropsIncompleteRows(t *testing.T) {
	f, err := os.Open("testdata/launches.csv")
	require.NoError(t, err)
	defer f.Close()

	records, stats, err := ReadCSV(f)
	require.NoError(t, err)

	assert.Equal(t, 10, stats.Rows)
	assert.Equal(t, 3, stats.Dropped, "empty payload, empty site and NaN class")
	assert.Equal(t, 1, stats.Malformed, "non-numeric class")
	assert.Equal(t, 6, stats.Kept)
	require.Len(t, records, 6)

	first := records[0]
	assert.Equal(t, 1, first.FlightNumber)
	assert.Equal(t, "CCAFS SLC 40", first.LaunchSite)
	assert.Equal(t, "Falcon 9", first.BoosterVersion)
	assert.Equal(t, "LEO", first.Orbit)
	assert.Equal(t, Failure, first.Class)
	assert.InDelta(t, 6104.959, first.PayloadMass, 0.001)

	assert.Equal(t, "KSC LC 39A", records[5].LaunchSite)
	assert.Equal(t, Success, records[5].Class)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("PayloadMass,LaunchSite,BoosterVersion\n1,A,B\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Class")
}

func TestReadCSV_FloatClassAndBOM(t *testing.T) {
	in := "\ufeffPayloadMass,LaunchSite,Class,BoosterVersion\n500,CCAFS LC-40,1.0,F9 v1.0 B0003\n"
	records, _, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Success, records[0].Class)
	assert.Equal(t, "F9 v1.0 B0003", records[0].BoosterVersion)
}

func TestReadCSV_NonFinitePayloadIsMalformed(t *testing.T) {
	in := "PayloadMass,LaunchSite,Class,BoosterVersion\n" +
		"NAN,CCAFS LC-40,1,F9 v1.0 B0003\n" +
		"500,CCAFS LC-40,0,F9 v1.0 B0004\n" +
		"9600,VAFB SLC-4E,1,F9 B5 B1048.2\n" +
		"inf,VAFB SLC-4E,1,F9 B5 B1049.1\n" +
		"-Infinity,KSC LC-39A,0,F9 FT B1031.1\n"
	records, stats, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, 3, stats.Malformed)

	ds, err := NewDataset(records)
	require.NoError(t, err)
	assert.Equal(t, 500.0, ds.MinPayload())
	assert.Equal(t, 9600.0, ds.MaxPayload())
	assert.Len(t, FilterByPayload(ds.Records(), ds.FullRange()), 2)
}

func TestFetchCSV_Remote(t *testing.T) {
	body, err := os.ReadFile("testdata/launches.csv")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/launches.csv" {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	records, _, err := FetchCSV(context.Background(), srv.Client(), srv.URL+"/launches.csv")
	require.NoError(t, err)
	assert.Len(t, records, 6)

	_, _, err = FetchCSV(context.Background(), srv.Client(), srv.URL+"/missing.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchCSV_MissingFile(t *testing.T) {
	_, _, err := FetchCSV(context.Background(), nil, "testdata/nope.csv")
	require.ErrorIs(t, err, os.ErrNotExist)
}
