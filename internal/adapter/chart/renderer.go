// Package chart renders aggregate series into PNG chart artifacts.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/space-weather-plotter/internal/config"
	"github.com/couchcryptid/space-weather-plotter/internal/domain"
	"github.com/couchcryptid/space-weather-plotter/internal/observability"
)

// Chart canvas size, matching the 10x5 inch figures of the original tool.
const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 5 * vg.Inch
)

var palette = map[string]color.RGBA{
	"red":    {R: 0xd6, G: 0x2b, B: 0x2b, A: 0xff},
	"green":  {R: 0x2e, G: 0x8b, B: 0x57, A: 0xff},
	"blue":   {R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	"orange": {R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	"gray":   {R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
}

// Renderer draws one PNG file per chart spec into the output directory.
type Renderer struct {
	outputDir  string
	allowEmpty bool
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewRenderer creates a chart renderer from configuration.
func NewRenderer(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Renderer {
	return &Renderer{
		outputDir:  cfg.OutputDir,
		allowEmpty: cfg.AllowEmpty,
		metrics:    metrics,
		logger:     logger,
	}
}

// Render draws the series according to the spec and writes
// <output_dir>/<name>.png, returning the written path. An empty series is a
// *domain.RenderError unless allow-empty is configured, in which case an
// empty chart with title and axes is still produced. Output is a pure
// function of spec and series.
func (r *Renderer) Render(spec config.ChartSpec, series []domain.Point) (string, error) {
	began := time.Now()
	path, err := r.render(spec, series)
	r.metrics.RenderDuration.Observe(time.Since(began).Seconds())
	if err != nil {
		r.metrics.ChartsRendered.WithLabelValues(spec.Name, "error").Inc()
		return "", err
	}
	r.metrics.ChartsRendered.WithLabelValues(spec.Name, "success").Inc()
	return path, nil
}

func (r *Renderer) render(spec config.ChartSpec, series []domain.Point) (string, error) {
	if len(series) == 0 && !r.allowEmpty {
		return "", &domain.RenderError{Chart: spec.Name, Err: errors.New("empty aggregate")}
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", &domain.RenderError{Chart: spec.Name, Err: fmt.Errorf("create output dir: %w", err)}
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.Add(plotter.NewGrid())

	col, ok := palette[spec.Color]
	if !ok {
		col = palette["gray"]
	}

	if len(series) > 0 {
		if err := addSeries(p, spec, series, col); err != nil {
			return "", &domain.RenderError{Chart: spec.Name, Err: err}
		}
	}

	path := filepath.Join(r.outputDir, spec.Name+".png")
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return "", &domain.RenderError{Chart: spec.Name, Err: fmt.Errorf("save: %w", err)}
	}

	r.logger.Debug("chart written", "chart", spec.Name, "path", path, "points", len(series))
	return path, nil
}

func addSeries(p *plot.Plot, spec config.ChartSpec, series []domain.Point, col color.RGBA) error {
	switch spec.Kind {
	case "bar":
		return addBars(p, spec, series, col)
	case "line", "line_dot":
		return addLine(p, spec, series, col)
	}
	return fmt.Errorf("unknown chart kind %q", spec.Kind)
}

// addLine plots the series against a continuous time axis, optionally with
// a glyph per point (line_dot).
func addLine(p *plot.Plot, spec config.ChartSpec, series []domain.Point, col color.RGBA) error {
	p.X.Tick.Marker = plot.TimeTicks{Format: bucketLabelFormat(spec.Bucket)}

	xys := make(plotter.XYs, len(series))
	for i, pt := range series {
		xys[i].X = float64(pt.Bucket.Unix())
		xys[i].Y = metricValue(spec.Metric, pt)
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return err
	}
	line.Color = col

	p.Add(line)
	if spec.Kind == "line_dot" {
		points.Shape = draw.CircleGlyph{}
		points.Color = col
		p.Add(points)
	}
	return nil
}

// addBars plots one bar per bucket with nominal labels; a continuous time
// axis makes no sense for discrete count bars.
func addBars(p *plot.Plot, spec config.ChartSpec, series []domain.Point, col color.RGBA) error {
	values := make(plotter.Values, len(series))
	labels := make([]string, len(series))
	format := bucketLabelFormat(spec.Bucket)
	for i, pt := range series {
		values[i] = metricValue(spec.Metric, pt)
		labels[i] = pt.Bucket.Format(format)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return err
	}
	bars.Color = col
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = -0.785 // ~45° to keep date labels readable
	p.X.Tick.Label.XAlign = draw.XLeft
	return nil
}

func metricValue(metric string, pt domain.Point) float64 {
	switch metric {
	case "max":
		return pt.Max
	case "mean":
		return pt.Mean
	default:
		return float64(pt.Count)
	}
}

func bucketLabelFormat(bucket string) string {
	switch domain.Bucket(bucket) {
	case domain.BucketHour:
		return "01-02 15:04"
	case domain.BucketMonth:
		return "2006-01"
	default:
		return "2006-01-02"
	}
}
