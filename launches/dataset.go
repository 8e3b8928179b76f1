package launches

import (
	"errors"
	"slices"
)

// ErrEmptyDataset is returned when no usable records survive loading.
var ErrEmptyDataset = errors.New("dataset has no records")

// Dataset is the immutable launch table with its payload bounds.
type Dataset struct {
	records    []LaunchRecord
	sites      []string
	minPayload float64
	maxPayload float64
}

// NewDataset copies records and computes the payload bounds and unique sites once.
func NewDataset(records []LaunchRecord) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	ds := &Dataset{
		records:    slices.Clone(records),
		minPayload: records[0].PayloadMass,
		maxPayload: records[0].PayloadMass,
	}

	seen := make(map[string]bool)
	for _, r := range ds.records {
		if r.PayloadMass < ds.minPayload {
			ds.minPayload = r.PayloadMass
		}
		if r.PayloadMass > ds.maxPayload {
			ds.maxPayload = r.PayloadMass
		}
		if !seen[r.LaunchSite] {
			seen[r.LaunchSite] = true
			ds.sites = append(ds.sites, r.LaunchSite)
		}
	}
	return ds, nil
}

// Records returns the records in load order. The slice is shared and must not be modified.
func (d *Dataset) Records() []LaunchRecord { return d.records }

func (d *Dataset) Len() int { return len(d.records) }

func (d *Dataset) MinPayload() float64 { return d.minPayload }

func (d *Dataset) MaxPayload() float64 { return d.maxPayload }

// FullRange is the payload range covering every record.
func (d *Dataset) FullRange() PayloadRange {
	return PayloadRange{Low: d.minPayload, High: d.maxPayload}
}

// Sites returns the unique launch sites in first-appearance order.
func (d *Dataset) Sites() []string { return slices.Clone(d.sites) }
