// spacex-dash serves the SpaceX launch records dashboard and offers a few
// offline views of the same data.
//
// Usage:
//
//	spacex-dash serve   [--config=config.yaml] [--addr=:8050] [--source=<csv|url|sqlite://path>]
//	spacex-dash summary [--site=ALL] [--min=N] [--max=N]
//	spacex-dash sites   [query]
//	spacex-dash import  --archive=<path>
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spacex-dash/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	sourceFlag string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spacex-dash",
	Short: "SpaceX launch records dashboard",
	Long: `spacex-dash loads SpaceX launch records from a CSV file or URL and serves a
dashboard with a success pie chart and a payload-versus-outcome scatter plot
that recompute as the site and payload controls change.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if sourceFlag != "" {
			cfg.Data.Source = sourceFlag
		}

		logger, err = newLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "config.yaml", "Config file path (optional)")
	pf.StringVar(&sourceFlag, "source", "", "Launch data source: CSV path, http(s) URL or sqlite://<path>")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sitesCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
