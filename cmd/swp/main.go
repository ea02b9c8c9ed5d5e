// Command swp fetches space-weather events from the NASA DONKI API for the
// configured date range, aggregates them, and writes one PNG chart per
// configured chart spec. It runs once and exits non-zero on any failure.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/space-weather-plotter/internal/adapter/chart"
	"github.com/couchcryptid/space-weather-plotter/internal/adapter/donki"
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
	renderer := chart.NewRenderer(cfg, metrics, logger)

	var publisher pipeline.Publisher
	var kp *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		kp = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kp
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(client, renderer, publisher, charts, cfg, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := p.RunOnce(ctx)

	// Close explicitly rather than defer: os.Exit below skips deferred calls.
	if kp != nil {
		if err := kp.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("run failed", "error", runErr)
		os.Exit(1)
	}
}
