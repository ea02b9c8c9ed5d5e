// Command swpd is the daemon variant of swp: it re-renders charts on a
// refresh interval, caches historical DONKI responses, and serves the
// artifacts plus health and Prometheus metrics endpoints over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/space-weather-plotter/internal/adapter/chart"
	"github.com/couchcryptid/space-weather-plotter/internal/adapter/donki"
	httpadapter "github.com/couchcryptid/space-weather-plotter/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/space-weather-plotter/internal/adapter/kafka"
	"github.com/couchcryptid/space-weather-plotter/internal/config"
	"github.com/couchcryptid/space-weather-plotter/internal/observability"
	"github.com/couchcryptid/space-weather-plotter/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	charts, err := config.LoadCharts(cfg.ChartsFile)
	if err != nil {
		slog.Error("failed to load chart specs", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := donki.NewClient(cfg, metrics, logger)
	fetcher := donki.NewCachedFetcher(client, cfg.CacheSize, metrics)
	renderer := chart.NewRenderer(cfg, metrics, logger)

	var publisher pipeline.Publisher
	var kp *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		kp = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kp
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(fetcher, renderer, publisher, charts, cfg, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.OutputDir, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("refresh loop error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kp != nil {
		if err := kp.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
