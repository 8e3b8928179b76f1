package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spacex-dash/launches"
	"spacex-dash/store"
)

var importFlags struct {
	archive string
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Snapshot the CSV source into a sqlite archive",
	Long: `Reads the configured CSV source and replaces the contents of the sqlite
archive with it. Serve the archive later with --source=sqlite://<path>.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFlags.archive, "archive", "", "Archive path (default: data.archive or "+store.DefaultPath+")")
}

func runImport(cmd *cobra.Command, _ []string) error {
	if strings.HasPrefix(cfg.Data.Source, launches.SQLitePrefix) {
		return fmt.Errorf("import needs a CSV source, got %q", cfg.Data.Source)
	}

	path := importFlags.archive
	if path == "" {
		path = cfg.Data.Archive
	}
	if path == "" {
		path = store.DefaultPath
	}
	path = resolveArchivePath(path)

	archive, err := store.Open(path)
	if err != nil {
		return err
	}
	defer archive.Close()

	records, stats, err := launches.FetchCSV(cmd.Context(), &http.Client{Timeout: cfg.Data.FetchTimeout}, cfg.Data.Source)
	if err != nil {
		return err
	}
	ds, err := launches.NewDataset(records)
	if err != nil {
		return err
	}
	if err := archive.ReplaceRecords(cmd.Context(), records); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	logger.Debug("csv read", zap.Int("rows", stats.Rows), zap.Int("dropped", stats.Dropped), zap.Int("malformed", stats.Malformed))

	n, err := archive.Count(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("archive updated", zap.String("path", path), zap.Int("records", n))
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s launch records into %s (payload %s – %s kg)\n",
		humanize.Comma(int64(n)), path,
		humanize.Commaf(ds.MinPayload()), humanize.Commaf(ds.MaxPayload()))
	return nil
}
