package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/tagspc/tagspc/internal/config"
	"github.com/tagspc/tagspc/internal/historian"
	"github.com/tagspc/tagspc/internal/history"
	"github.com/tagspc/tagspc/internal/serve"
)

func cmdServe(args []string) {
	fs := pflag.NewFlagSet("serve", pflag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args) //nolint:errcheck

	initLogger(os.Stdout)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if len(cfg.Serve.Tags) == 0 {
		slog.Error("no watch tags configured", "config", *configPath)
		os.Exit(1)
	}

	slog.Info("tagspc serve starting",
		"listen_addr", cfg.Serve.ListenAddr,
		"tags", len(cfg.Serve.Tags),
		"interval", cfg.Serve.Interval,
		"window", cfg.Serve.Window,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := historian.New(cfg.Historian)
	hub := serve.NewHub()
	metrics := serve.NewMetrics()

	// Report archive with background retention pruning; optional.
	var store *history.Store
	if cfg.Storage.Path != "" {
		store, err = history.Open(cfg.Storage.Path)
		if err != nil {
			slog.Error("failed to open report store", "path", cfg.Storage.Path, "err", err)
			os.Exit(1)
		}
		defer store.Close()
		go store.Run(ctx, cfg.Storage.Retention)
		slog.Info("report store open", "path", cfg.Storage.Path, "retention", cfg.Storage.Retention)
	}

	var archive serve.Archiver
	if store != nil {
		archive = store
	}
	monitor := serve.NewMonitor(cfg.Serve, client, hub, metrics, archive)
	go monitor.Run(ctx)

	// Live reload of the watch list on config file changes.
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			monitor.UpdateConfig(next.Serve)
		})
		if err != nil {
			slog.Warn("config watch disabled", "err", err)
		}
	}()

	var src serve.ReportSource
	if store != nil {
		src = store
	}
	mux := http.NewServeMux()
	serve.NewAPI(src, hub, len(cfg.Serve.Tags), time.Now()).Register(mux)
	mux.Handle("/ws/reports", hub)
	mux.Handle("/metrics", metrics)

	srv := &http.Server{
		Addr:    cfg.Serve.ListenAddr,
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.Serve.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("tagspc serve shutting down")
	hub.CloseAll()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx) //nolint:errcheck
}
