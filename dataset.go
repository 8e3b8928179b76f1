package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"spacex-dash/config"
	"spacex-dash/launches"
	"spacex-dash/store"
)

// volumeEnv names a mounted volume that relative archive paths are moved onto,
// so deployments keep the archive across restarts.
const volumeEnv = "RAILWAY_VOLUME_MOUNT_PATH"

func resolveArchivePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if mount := os.Getenv(volumeEnv); mount != "" {
		return filepath.Join(mount, filepath.Base(p))
	}
	return p
}

// newLoader builds the dataset loader for dc. The returned close func releases
// the archive, if one was opened.
func newLoader(dc config.DataConfig, log *zap.Logger) (*launches.Loader, func(), error) {
	l := &launches.Loader{
		Source: dc.Source,
		Client: &http.Client{Timeout: dc.FetchTimeout},
		Cache:  launches.NewFetchCache(dc.CacheTTL),
		Log:    log,
	}

	path := resolveArchivePath(dc.ArchivePath())
	if path == "" {
		return l, func() {}, nil
	}

	archive, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	l.Archive = archive
	log.Debug("launch archive opened", zap.String("path", path))
	return l, func() { archive.Close() }, nil
}

// loadDataset opens the configured source and loads it once.
func loadDataset(ctx context.Context, dc config.DataConfig, log *zap.Logger) (*launches.Dataset, *launches.Loader, func(), error) {
	l, closeFn, err := newLoader(dc, log)
	if err != nil {
		return nil, nil, nil, err
	}
	ds, err := l.Load(ctx)
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, l, closeFn, nil
}
