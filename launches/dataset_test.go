package launches

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataset(t *testing.T) {
	records := sampleRecords()
	ds, err := NewDataset(records)
	require.NoError(t, err)

	assert.Equal(t, len(records), ds.Len())
	assert.Equal(t, 0.0, ds.MinPayload())
	assert.Equal(t, 9600.0, ds.MaxPayload())
	assert.Equal(t, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}, ds.Sites())

	records[0].LaunchSite = "mutated"
	assert.Equal(t, "CCAFS LC-40", ds.Records()[0].LaunchSite, "dataset must not alias its input")

	sites := ds.Sites()
	sites[0] = "mutated"
	assert.Equal(t, "CCAFS LC-40", ds.Sites()[0])
}

func TestNewDataset_Empty(t *testing.T) {
	_, err := NewDataset(nil)
	require.ErrorIs(t, err, ErrEmptyDataset)
}
