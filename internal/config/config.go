package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all tool settings, populated from environment variables.
type Config struct {
	// DONKI API access.
	DONKIBaseURL string
	DONKIAPIKey  string
	DONKITimeout time.Duration

	// Query period. Zero values mean "current year", resolved at run time
	// so a long-running daemon follows the calendar.
	StartDate time.Time
	EndDate   time.Time

	// Chart output.
	OutputDir  string
	AllowEmpty bool
	ChartsFile string

	LogLevel  string
	LogFormat string

	// Daemon settings (swpd only).
	HTTPAddr        string
	RefreshInterval time.Duration
	ShutdownTimeout time.Duration
	CacheSize       int

	// Optional Kafka publishing of fetched events.
	KafkaBrokers []string
	KafkaTopic   string
}

// KafkaEnabled reports whether fetched events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaTopic != ""
}

// dateLayout is the format for START_DATE/END_DATE, matching the DONKI
// query parameter format.
const dateLayout = "2006-01-02"

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	timeout, err := parseDuration("DONKI_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	refresh, err := parseDuration("REFRESH_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	start, end, err := parseDateRange()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DONKIBaseURL: envOrDefault("DONKI_BASE_URL", "https://api.nasa.gov/DONKI"),
		DONKIAPIKey:  envOrDefault("DONKI_API_KEY", "DEMO_KEY"),
		DONKITimeout: timeout,

		StartDate: start,
		EndDate:   end,

		OutputDir:  envOrDefault("OUTPUT_DIR", "charts"),
		AllowEmpty: os.Getenv("ALLOW_EMPTY") == "true",
		ChartsFile: os.Getenv("CHARTS_FILE"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		RefreshInterval: refresh,
		ShutdownTimeout: shutdownTimeout,
		CacheSize:       cacheSize,

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   os.Getenv("KAFKA_TOPIC"),
	}

	if cfg.KafkaTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_TOPIC is set but KAFKA_BROKERS is not")
	}

	return cfg, nil
}

// parseDateRange reads START_DATE and END_DATE. Both must be set together;
// leaving both unset selects the current-year default downstream.
func parseDateRange() (time.Time, time.Time, error) {
	startStr := os.Getenv("START_DATE")
	endStr := os.Getenv("END_DATE")

	if startStr == "" && endStr == "" {
		return time.Time{}, time.Time{}, nil
	}
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, errors.New("START_DATE and END_DATE must be set together")
	}

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid START_DATE: %w", err)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid END_DATE: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("END_DATE is before START_DATE")
	}
	return start, end, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("CACHE_SIZE")
	if s == "" {
		return 32, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid CACHE_SIZE")
	}
	return n, nil
}

func parseBrokers(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
