package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/space-weather-plotter/internal/domain"
)

// ChartSpec describes one chart artifact: which catalog to plot, how to
// bucket it, and how to draw it.
type ChartSpec struct {
	Name    string `yaml:"name"`    // output file basename
	Catalog string `yaml:"catalog"` // DONKI catalog: FLR, GST, WSAEnlilSimulations
	Title   string `yaml:"title"`
	Kind    string `yaml:"kind"`   // line, line_dot, bar
	Metric  string `yaml:"metric"` // count, max, mean
	Bucket  string `yaml:"bucket"` // hour, day, week, month
	Color   string `yaml:"color"`  // red, green, blue, orange, gray
	XLabel  string `yaml:"x_label"`
	YLabel  string `yaml:"y_label"`
}

type chartsFile struct {
	Charts []ChartSpec `yaml:"charts"`
}

// DefaultCharts mirrors the three views of the original plotter: weekly
// flare counts as bars, storm Kp index as a dotted line, solar-wind speed
// as a line.
func DefaultCharts() []ChartSpec {
	return []ChartSpec{
		{
			Name:    "solar_flares",
			Catalog: string(domain.CatalogFlare),
			Title:   "Solar flare counts",
			Kind:    "bar",
			Metric:  "count",
			Bucket:  "week",
			Color:   "red",
			XLabel:  "Time",
			YLabel:  "Count",
		},
		{
			Name:    "geomagnetic_storms",
			Catalog: string(domain.CatalogStorm),
			Title:   "Geomagnetic storm Kp index",
			Kind:    "line_dot",
			Metric:  "max",
			Bucket:  "day",
			Color:   "blue",
			XLabel:  "Start time",
			YLabel:  "Kp index",
		},
		{
			Name:    "solar_wind",
			Catalog: string(domain.CatalogSolarWind),
			Title:   "Solar wind speeds",
			Kind:    "line",
			Metric:  "max",
			Bucket:  "day",
			Color:   "green",
			XLabel:  "Time",
			YLabel:  "Speed (km/s)",
		},
	}
}

// LoadCharts returns the chart specs from the given YAML file, or the
// defaults when path is empty. Every spec is validated and normalized.
func LoadCharts(path string) ([]ChartSpec, error) {
	if path == "" {
		return DefaultCharts(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read charts file: %w", err)
	}

	var f chartsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse charts file: %w", err)
	}
	if len(f.Charts) == 0 {
		return nil, fmt.Errorf("charts file %s defines no charts", path)
	}

	seen := make(map[string]bool, len(f.Charts))
	for i := range f.Charts {
		if err := normalizeChart(&f.Charts[i]); err != nil {
			return nil, fmt.Errorf("chart %d: %w", i, err)
		}
		if seen[f.Charts[i].Name] {
			return nil, fmt.Errorf("duplicate chart name %q", f.Charts[i].Name)
		}
		seen[f.Charts[i].Name] = true
	}
	return f.Charts, nil
}

func normalizeChart(c *ChartSpec) error {
	if c.Name == "" {
		return fmt.Errorf("missing name")
	}
	if !domain.Catalog(c.Catalog).Valid() {
		return fmt.Errorf("invalid catalog %q", c.Catalog)
	}

	if c.Kind == "" {
		c.Kind = "line"
	}
	switch c.Kind {
	case "line", "line_dot", "bar":
	default:
		return fmt.Errorf("invalid kind %q", c.Kind)
	}

	if c.Metric == "" {
		c.Metric = "count"
	}
	switch c.Metric {
	case "count", "max", "mean":
	default:
		return fmt.Errorf("invalid metric %q", c.Metric)
	}

	if c.Bucket == "" {
		c.Bucket = "day"
	}
	if _, err := domain.ParseBucket(c.Bucket); err != nil {
		return err
	}

	if c.Title == "" {
		c.Title = c.Name
	}
	if c.XLabel == "" {
		c.XLabel = "Time"
	}
	if c.YLabel == "" {
		c.YLabel = c.Metric
	}
	return nil
}
