package launches

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Column names expected in the launch CSV header.
const (
	ColPayloadMass    = "PayloadMass"
	ColLaunchSite     = "LaunchSite"
	ColClass          = "Class"
	ColBoosterVersion = "BoosterVersion"
	ColFlightNumber   = "FlightNumber"
	ColOrbit          = "Orbit"
)

// ErrMissingColumn is returned when a required header column is absent.
var ErrMissingColumn = errors.New("missing required column")

var requiredColumns = []string{ColPayloadMass, ColLaunchSite, ColClass, ColBoosterVersion}

// naTokens are the cell values treated as missing, the same set pandas uses by default.
var naTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true, "N/A": true,
	"NA": true, "NULL": true, "NaN": true, "None": true, "n/a": true, "nan": true, "null": true,
}

func isNA(v string) bool { return naTokens[strings.TrimSpace(v)] }

// LoadStats describes what happened to the rows of one CSV read.
type LoadStats struct {
	Columns   []string `json:"columns"`
	Rows      int      `json:"rows"`
	Kept      int      `json:"kept"`
	Dropped   int      `json:"dropped"`   // a critical field was missing
	Malformed int      `json:"malformed"` // a critical field did not parse
}

// ReadCSV parses launch records from r. Rows missing PayloadMass, LaunchSite or
// Class are dropped and counted; they never fail the read.
func ReadCSV(r io.Reader) ([]LaunchRecord, LoadStats, error) {
	var stats LoadStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	stats.Columns = header

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, stats, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []LaunchRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read csv row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		payload, site, class := cell(row, ColPayloadMass), cell(row, ColLaunchSite), cell(row, ColClass)
		if isNA(payload) || isNA(site) || isNA(class) {
			stats.Dropped++
			continue
		}

		rec, ok := parseRecord(payload, site, class)
		if !ok {
			stats.Malformed++
			continue
		}
		if v := cell(row, ColBoosterVersion); !isNA(v) {
			rec.BoosterVersion = v
		}
		if v := cell(row, ColOrbit); !isNA(v) {
			rec.Orbit = v
		}
		if v := cell(row, ColFlightNumber); !isNA(v) {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				rec.FlightNumber = int(n)
			}
		}
		records = append(records, rec)
	}

	stats.Kept = len(records)
	return records, stats, nil
}

func parseRecord(payload, site, class string) (LaunchRecord, bool) {
	mass, err := strconv.ParseFloat(payload, 64)
	if err != nil || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return LaunchRecord{}, false
	}
	c, err := strconv.ParseFloat(class, 64)
	if err != nil {
		return LaunchRecord{}, false
	}
	var outcome Outcome
	switch c {
	case 0:
		outcome = Failure
	case 1:
		outcome = Success
	default:
		return LaunchRecord{}, false
	}
	return LaunchRecord{PayloadMass: mass, LaunchSite: site, Class: outcome}, true
}

// IsRemote reports whether source names an http(s) URL rather than a file.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// FetchCSV reads launch records from a local path or an http(s) URL.
func FetchCSV(ctx context.Context, client *http.Client, source string) ([]LaunchRecord, LoadStats, error) {
	if !IsRemote(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, LoadStats{}, fmt.Errorf("open %q: %w", source, err)
		}
		defer f.Close()
		return ReadCSV(f)
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("fetch %q: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, LoadStats{}, fmt.Errorf("fetch %q: unexpected status %s", source, resp.Status)
	}
	return ReadCSV(resp.Body)
}
