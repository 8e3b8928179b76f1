package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"spacex-dash/charts"
	"spacex-dash/launches"
	"spacex-dash/server"
)

var serveFlags struct {
	addr  string
	watch bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the launch dashboard",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", "", "Listen address (overrides config)")
	f.BoolVar(&serveFlags.watch, "watch", false, "Reload when the local CSV source changes")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveFlags.addr != "" {
		cfg.Server.Addr = serveFlags.addr
	}
	if serveFlags.watch {
		cfg.Data.Watch = true
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ds, loader, closeData, err := loadDataset(ctx, cfg.Data, logger)
	if err != nil {
		return err
	}
	defer closeData()

	srv := server.New(ds, loader, server.Options{
		Policy:         cfg.Engine.Policy(),
		Charts:         charts.Options{Width: cfg.Dashboard.ChartWidth, Height: cfg.Dashboard.ChartHeight},
		SliderStep:     cfg.Dashboard.SliderStep,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("dashboard listening",
			zap.String("addr", cfg.Server.Addr),
			zap.Int("records", ds.Len()),
			zap.String("site_match", cfg.Engine.SiteMatch),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Data.Watch && isLocalCSV(cfg.Data.Source) {
		g.Go(func() error {
			return launches.Watch(gctx, cfg.Data.Source, logger, func() {
				_ = srv.Reload(gctx)
			})
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("dashboard shutting down")
		srv.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func isLocalCSV(source string) bool {
	return !launches.IsRemote(source) && !strings.HasPrefix(source, launches.SQLitePrefix)
}
