package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/couchcryptid/quake-threat-map/internal/adapter/geojson"
	"github.com/couchcryptid/quake-threat-map/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/quake-threat-map/internal/adapter/kafka"
	"github.com/couchcryptid/quake-threat-map/internal/adapter/locator"
	"github.com/couchcryptid/quake-threat-map/internal/adapter/screen"
	"github.com/couchcryptid/quake-threat-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-threat-map/internal/config"
	"github.com/couchcryptid/quake-threat-map/internal/domain"
	"github.com/couchcryptid/quake-threat-map/internal/interaction"
	"github.com/couchcryptid/quake-threat-map/internal/observability"
	"github.com/couchcryptid/quake-threat-map/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("quakemap failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	files := geojson.Files{Cities: cfg.CityFile, Countries: cfg.CountryFile}
	sources := pipeline.Sources{
		Quakes:    quakeSource(cfg.QuakeFeedURL, cfg.QuakeFeedTimeout, logger),
		Cities:    files,
		Countries: files,
	}

	// Publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	newLocator := func(b []domain.Boundary) domain.Locator {
		return locator.NewCachedLocator(domain.NewBoundaryLocator(b), cfg.LocatorCacheSize, metrics)
	}
	loader := pipeline.New(sources, newLocator, publisher, logger, metrics, cfg.LoadMaxAttempts)

	ctrl := httpadapter.NewController(cfg.ReportSize, metrics, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, loader, ctrl, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server; /readyz reports 503 until the load completes.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// The JSON log stream owns stdout.
	loadErr := load(ctx, cfg, loader, ctrl, os.Stderr)
	if loadErr == nil {
		<-ctx.Done()
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	if errors.Is(loadErr, context.Canceled) {
		return nil
	}
	return loadErr
}

// load builds the markers, prints the console report to report, and attaches
// a fresh session to the controller.
func load(ctx context.Context, cfg *config.Config, loader *pipeline.Loader, ctrl *httpadapter.Controller, report io.Writer) error {
	res, err := loader.Run(ctx)
	if err != nil {
		return err
	}

	top := pipeline.ReportSize(cfg.ReportSize, len(res.Markers.Cities))
	if err := pipeline.WriteReport(report, res.Markers, res.Boundaries, top, cfg.CountryTally); err != nil {
		return err
	}

	ctrl.Attach(interaction.NewSession(res.Markers, screen.DefaultViewport()), res.Boundaries)
	return nil
}

// quakeSource fetches over HTTP for http(s) URLs and reads a local file otherwise.
func quakeSource(feed string, timeout time.Duration, logger *slog.Logger) pipeline.QuakeSource {
	if strings.HasPrefix(feed, "http://") || strings.HasPrefix(feed, "https://") {
		return usgs.NewClient(feed, timeout, logger)
	}
	return geojson.Files{Quakes: feed}
}
