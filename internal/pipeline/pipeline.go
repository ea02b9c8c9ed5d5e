// Package pipeline orchestrates the fetch-aggregate-render cycle.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/space-weather-plotter/internal/config"
	"github.com/couchcryptid/space-weather-plotter/internal/domain"
	"github.com/couchcryptid/space-weather-plotter/internal/observability"
)

// Fetcher retrieves events for one catalog over a date range.
type Fetcher interface {
	FetchEvents(ctx context.Context, catalog domain.Catalog, start, end time.Time) (domain.Table, error)
}

// Renderer draws one chart from an aggregate series and returns the output path.
type Renderer interface {
	Render(spec config.ChartSpec, series []domain.Point) (string, error)
}

// Publisher forwards fetched events to downstream consumers. Optional.
type Publisher interface {
	PublishBatch(ctx context.Context, events domain.Table) error
}

// Pipeline runs fetch, aggregate, and render for a set of chart specs.
type Pipeline struct {
	fetcher   Fetcher
	renderer  Renderer
	publisher Publisher
	charts    []config.ChartSpec
	start     time.Time
	end       time.Time
	refresh   time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline. A nil publisher disables event publishing. Zero
// start/end dates mean the current year up to today, resolved freshly on
// every run so a long-lived daemon tracks the calendar.
func New(f Fetcher, r Renderer, pub Publisher, charts []config.ChartSpec, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   f,
		renderer:  r,
		publisher: pub,
		charts:    charts,
		start:     cfg.StartDate,
		end:       cfg.EndDate,
		refresh:   cfg.RefreshInterval,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one run has completed, or an
// error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no complete render run yet")
	}
	return nil
}

// RunOnce executes a single fetch-aggregate-render cycle. Each catalog is
// fetched exactly once even when several charts share it. A failed fetch
// aborts the run before any chart is rendered, leaving previous artifacts
// untouched.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	began := time.Now()

	start, end := p.dateRange()
	p.logger.Info("run started",
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly),
		"charts", len(p.charts),
	)

	tables, err := p.fetchAll(ctx, start, end)
	if err != nil {
		return err
	}

	if p.publisher != nil {
		if err := p.publishAll(ctx, tables); err != nil {
			p.logger.Error("publish failed", "error", err)
			return err
		}
	}

	for _, spec := range p.charts {
		agg := domain.AggregateEvents(tables[domain.Catalog(spec.Catalog)], domain.Bucket(spec.Bucket))
		series := agg.Series(spec.Catalog)

		path, err := p.renderer.Render(spec, series)
		if err != nil {
			p.logger.Error("render failed", "chart", spec.Name, "error", err)
			return err
		}
		p.logger.Info("chart rendered", "chart", spec.Name, "path", path, "points", len(series))
	}

	p.metrics.RunDuration.Observe(time.Since(began).Seconds())
	p.metrics.LastRunSuccess.SetToCurrentTime()
	p.ready.Store(true)
	p.logger.Info("run complete", "duration", time.Since(began).Round(time.Millisecond))
	return nil
}

// Run repeats RunOnce every refresh interval until the context is cancelled.
// Transient failures retry with exponential backoff rather than waiting a
// full interval.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("refresh loop started", "interval", p.refresh)
	p.metrics.RefreshRunning.Set(1)
	defer p.metrics.RefreshRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		if ctx.Err() != nil {
			p.logger.Info("refresh loop stopping", "reason", ctx.Err())
			return nil
		}

		if err := p.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}

		backoff = 200 * time.Millisecond
		if !sleepWithContext(ctx, p.refresh) {
			return nil
		}
	}
}

// dateRange resolves the window to fetch. Explicit configuration wins;
// otherwise the window is January 1st of the current year through today.
func (p *Pipeline) dateRange() (time.Time, time.Time) {
	if !p.start.IsZero() {
		return p.start, p.end
	}
	return domain.CurrentYearRange()
}

// fetchAll retrieves each catalog referenced by the chart specs exactly once.
func (p *Pipeline) fetchAll(ctx context.Context, start, end time.Time) (map[domain.Catalog]domain.Table, error) {
	tables := make(map[domain.Catalog]domain.Table)
	for _, spec := range p.charts {
		catalog := domain.Catalog(spec.Catalog)
		if _, done := tables[catalog]; done {
			continue
		}
		events, err := p.fetcher.FetchEvents(ctx, catalog, start, end)
		if err != nil {
			p.logger.Error("fetch failed", "catalog", catalog, "error", err)
			return nil, err
		}
		tables[catalog] = events
	}
	return tables, nil
}

func (p *Pipeline) publishAll(ctx context.Context, tables map[domain.Catalog]domain.Table) error {
	for _, catalog := range domain.Catalogs {
		events, ok := tables[catalog]
		if !ok || len(events) == 0 {
			continue
		}
		if err := p.publisher.PublishBatch(ctx, events); err != nil {
			return err
		}
		p.logger.Debug("events published", "catalog", catalog, "count", len(events))
	}
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
