package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.nasa.gov/DONKI", cfg.DONKIBaseURL)
	assert.Equal(t, "DEMO_KEY", cfg.DONKIAPIKey)
	assert.Equal(t, 30*time.Second, cfg.DONKITimeout)
	assert.True(t, cfg.StartDate.IsZero())
	assert.True(t, cfg.EndDate.IsZero())
	assert.Equal(t, "charts", cfg.OutputDir)
	assert.False(t, cfg.AllowEmpty)
	assert.Empty(t, cfg.ChartsFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 32, cfg.CacheSize)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DONKI_BASE_URL", "http://localhost:9999/DONKI")
	t.Setenv("DONKI_API_KEY", "test-key")
	t.Setenv("DONKI_TIMEOUT", "5s")
	t.Setenv("START_DATE", "2024-01-01")
	t.Setenv("END_DATE", "2024-12-12")
	t.Setenv("OUTPUT_DIR", "/tmp/charts")
	t.Setenv("ALLOW_EMPTY", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CACHE_SIZE", "64")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "space-weather-events")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/DONKI", cfg.DONKIBaseURL)
	assert.Equal(t, "test-key", cfg.DONKIAPIKey)
	assert.Equal(t, 5*time.Second, cfg.DONKITimeout)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.StartDate)
	assert.Equal(t, time.Date(2024, 12, 12, 0, 0, 0, 0, time.UTC), cfg.EndDate)
	assert.Equal(t, "/tmp/charts", cfg.OutputDir)
	assert.True(t, cfg.AllowEmpty)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "space-weather-events", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoad_EmptyEnvValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("DONKI_BASE_URL", "")
	t.Setenv("OUTPUT_DIR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.nasa.gov/DONKI", cfg.DONKIBaseURL)
	assert.Equal(t, "charts", cfg.OutputDir)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("DONKI_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DONKI_TIMEOUT")
}

func TestLoad_NegativeRefreshInterval(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "-5m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
}

func TestLoad_StartDateWithoutEndDate(t *testing.T) {
	t.Setenv("START_DATE", "2024-01-01")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "END_DATE")
}

func TestLoad_EndBeforeStart(t *testing.T) {
	t.Setenv("START_DATE", "2024-06-01")
	t.Setenv("END_DATE", "2024-01-01")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before START_DATE")
}

func TestLoad_InvalidStartDate(t *testing.T) {
	t.Setenv("START_DATE", "01/01/2024")
	t.Setenv("END_DATE", "2024-12-12")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "START_DATE")
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	t.Setenv("CACHE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_SIZE")
}

func TestLoad_TopicWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_TOPIC", "space-weather-events")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestDefaultCharts(t *testing.T) {
	charts := DefaultCharts()
	require.Len(t, charts, 3)

	assert.Equal(t, "solar_flares", charts[0].Name)
	assert.Equal(t, "FLR", charts[0].Catalog)
	assert.Equal(t, "bar", charts[0].Kind)
	assert.Equal(t, "count", charts[0].Metric)
	assert.Equal(t, "week", charts[0].Bucket)

	assert.Equal(t, "geomagnetic_storms", charts[1].Name)
	assert.Equal(t, "line_dot", charts[1].Kind)
	assert.Equal(t, "max", charts[1].Metric)

	assert.Equal(t, "solar_wind", charts[2].Name)
	assert.Equal(t, "WSAEnlilSimulations", charts[2].Catalog)
	assert.Equal(t, "line", charts[2].Kind)
}

func TestLoadCharts_EmptyPathUsesDefaults(t *testing.T) {
	charts, err := LoadCharts("")
	require.NoError(t, err)
	assert.Len(t, charts, 3)
}

func TestLoadCharts_FromYAML(t *testing.T) {
	path := writeChartsFile(t, `
charts:
  - name: flares_daily
    catalog: FLR
    kind: bar
    bucket: day
  - name: storms
    catalog: GST
    metric: max
    y_label: Kp
`)

	charts, err := LoadCharts(path)
	require.NoError(t, err)
	require.Len(t, charts, 2)

	assert.Equal(t, "flares_daily", charts[0].Name)
	assert.Equal(t, "count", charts[0].Metric, "metric defaults to count")
	assert.Equal(t, "flares_daily", charts[0].Title, "title defaults to name")

	assert.Equal(t, "line", charts[1].Kind, "kind defaults to line")
	assert.Equal(t, "day", charts[1].Bucket, "bucket defaults to day")
	assert.Equal(t, "Kp", charts[1].YLabel)
}

func TestLoadCharts_InvalidCatalog(t *testing.T) {
	path := writeChartsFile(t, `
charts:
  - name: bad
    catalog: CME
`)
	_, err := LoadCharts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog")
}

func TestLoadCharts_InvalidKind(t *testing.T) {
	path := writeChartsFile(t, `
charts:
  - name: bad
    catalog: FLR
    kind: scatter3d
`)
	_, err := LoadCharts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind")
}

func TestLoadCharts_DuplicateName(t *testing.T) {
	path := writeChartsFile(t, `
charts:
  - name: dup
    catalog: FLR
  - name: dup
    catalog: GST
`)
	_, err := LoadCharts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadCharts_NoCharts(t *testing.T) {
	path := writeChartsFile(t, "charts: []\n")
	_, err := LoadCharts(path)
	require.Error(t, err)
}

func TestLoadCharts_MissingFile(t *testing.T) {
	_, err := LoadCharts(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func writeChartsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "charts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
