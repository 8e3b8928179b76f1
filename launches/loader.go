package launches

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// SQLitePrefix marks a source that is read from the record archive instead of a CSV.
const SQLitePrefix = "sqlite://"

// RecordStore persists a snapshot of the launch table.
type RecordStore interface {
	ReplaceRecords(ctx context.Context, records []LaunchRecord) error
	LoadRecords(ctx context.Context) ([]LaunchRecord, error)
}

// Loader builds a Dataset from its configured source.
//
// When Archive is set, every successful CSV load is snapshotted into it and a
// failed CSV load falls back to the last snapshot.
type Loader struct {
	Source  string
	Client  *http.Client
	Archive RecordStore
	Cache   *FetchCache
	Log     *zap.Logger
}

func (l *Loader) logger() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}

// Load reads the source and returns a fresh Dataset.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	log := l.logger()

	if strings.HasPrefix(l.Source, SQLitePrefix) {
		if l.Archive == nil {
			return nil, fmt.Errorf("source %q needs an archive", l.Source)
		}
		records, err := l.Archive.LoadRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("load archive: %w", err)
		}
		log.Info("dataset loaded from archive", zap.String("source", l.Source), zap.Int("records", len(records)))
		return NewDataset(records)
	}

	records, stats, cached, err := l.Cache.Fetch(ctx, l.Client, l.Source)
	if err != nil {
		if l.Archive == nil {
			return nil, err
		}
		log.Warn("csv load failed, falling back to archive", zap.String("source", l.Source), zap.Error(err))
		records, aerr := l.Archive.LoadRecords(ctx)
		if aerr != nil {
			return nil, fmt.Errorf("%w (archive fallback: %v)", err, aerr)
		}
		return NewDataset(records)
	}

	if cached {
		log.Debug("dataset served from fetch cache", zap.String("source", l.Source))
		return NewDataset(records)
	}

	log.Debug("csv columns", zap.Strings("columns", stats.Columns))
	log.Info("dataset loaded",
		zap.String("source", l.Source),
		zap.Int("rows", stats.Rows),
		zap.Int("kept", stats.Kept),
		zap.Int("dropped", stats.Dropped),
		zap.Int("malformed", stats.Malformed),
	)

	ds, err := NewDataset(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Source, err)
	}

	if l.Archive != nil {
		if err := l.Archive.ReplaceRecords(ctx, records); err != nil {
			log.Warn("archive snapshot failed", zap.Error(err))
		}
	}
	return ds, nil
}
