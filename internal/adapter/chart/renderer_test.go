package chart

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/space-weather-plotter/internal/config"
	"github.com/couchcryptid/space-weather-plotter/internal/domain"
	"github.com/couchcryptid/space-weather-plotter/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer(t *testing.T, allowEmpty bool) *Renderer {
	t.Helper()
	return &Renderer{
		outputDir:  t.TempDir(),
		allowEmpty: allowEmpty,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func sampleSeries() []domain.Point {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Point{
		{Bucket: base, Count: 3, Max: 5, Mean: 4},
		{Bucket: base.AddDate(0, 0, 1), Count: 1, Max: 7, Mean: 7},
		{Bucket: base.AddDate(0, 0, 2), Count: 5, Max: 6, Mean: 5.5},
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), data[:8], "output should be a PNG file")
}

func TestRenderer_Kinds(t *testing.T) {
	tests := []struct {
		name string
		kind string
	}{
		{"line chart", "line"},
		{"line with dots", "line_dot"},
		{"bar chart", "bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRenderer(t, false)
			spec := config.ChartSpec{
				Name:    "test_chart",
				Catalog: "GST",
				Title:   "Test",
				Kind:    tt.kind,
				Metric:  "max",
				Bucket:  "day",
				Color:   "blue",
				XLabel:  "Time",
				YLabel:  "Kp",
			}

			path, err := r.Render(spec, sampleSeries())
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(r.outputDir, "test_chart.png"), path)
			assertPNG(t, path)
		})
	}
}

func TestRenderer_EmptySeriesFails(t *testing.T) {
	r := testRenderer(t, false)
	spec := config.ChartSpec{Name: "empty", Catalog: "FLR", Kind: "bar", Metric: "count", Bucket: "week"}

	_, err := r.Render(spec, nil)

	var renderErr *domain.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "empty", renderErr.Chart)
}

func TestRenderer_EmptySeriesAllowed(t *testing.T) {
	r := testRenderer(t, true)
	spec := config.ChartSpec{
		Name: "empty", Catalog: "FLR", Title: "No data",
		Kind: "line", Metric: "count", Bucket: "day",
	}

	path, err := r.Render(spec, nil)
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestRenderer_EmptyBehaviorIsDeterministic(t *testing.T) {
	// Same input, same configuration: the outcome must not flip between runs.
	spec := config.ChartSpec{Name: "empty", Catalog: "FLR", Kind: "line", Metric: "count", Bucket: "day"}

	strict := testRenderer(t, false)
	for i := 0; i < 3; i++ {
		_, err := strict.Render(spec, nil)
		var renderErr *domain.RenderError
		require.ErrorAs(t, err, &renderErr)
	}

	lenient := testRenderer(t, true)
	for i := 0; i < 3; i++ {
		_, err := lenient.Render(spec, nil)
		require.NoError(t, err)
	}
}

func TestRenderer_UnknownColorFallsBack(t *testing.T) {
	r := testRenderer(t, false)
	spec := config.ChartSpec{
		Name: "odd_color", Catalog: "FLR", Kind: "line",
		Metric: "count", Bucket: "day", Color: "chartreuse",
	}

	path, err := r.Render(spec, sampleSeries())
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestRenderer_CreatesOutputDir(t *testing.T) {
	r := testRenderer(t, false)
	r.outputDir = filepath.Join(r.outputDir, "nested", "charts")
	spec := config.ChartSpec{Name: "deep", Catalog: "FLR", Kind: "line", Metric: "count", Bucket: "day"}

	path, err := r.Render(spec, sampleSeries())
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestRenderer_SinglePoint(t *testing.T) {
	r := testRenderer(t, false)
	spec := config.ChartSpec{Name: "single", Catalog: "GST", Kind: "line_dot", Metric: "max", Bucket: "day"}

	path, err := r.Render(spec, sampleSeries()[:1])
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestNewRenderer_FromConfig(t *testing.T) {
	cfg := &config.Config{OutputDir: t.TempDir(), AllowEmpty: true}
	r := NewRenderer(cfg, observability.NewMetricsForTesting(), slog.Default())

	assert.Equal(t, cfg.OutputDir, r.outputDir)
	assert.True(t, r.allowEmpty)
}

func TestMetricValue(t *testing.T) {
	pt := domain.Point{Count: 4, Max: 9, Mean: 6.5}

	assert.Equal(t, 4.0, metricValue("count", pt))
	assert.Equal(t, 9.0, metricValue("max", pt))
	assert.Equal(t, 6.5, metricValue("mean", pt))
	assert.Equal(t, 4.0, metricValue("", pt), "unknown metric defaults to count")
}
