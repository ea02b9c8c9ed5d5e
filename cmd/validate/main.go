// Command validate checks saved DONKI response dumps for integrity before
// they are used as fixtures or replayed into charts. It parses each dump
// through the real parsing path, then verifies IDs, physical bounds, and
// aggregation consistency.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -flr data/mock/donki_240510_flr.json \
//	  -gst data/mock/donki_240510_gst.json \
//	  -wsa data/mock/donki_240510_wsa.json
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/space-weather-plotter/internal/domain"
)

// Physical sanity bounds per catalog. Values outside these ranges indicate
// corrupted dumps, not record-setting space weather.
const (
	maxFlux    = 1e-2 // W/m², an order above the strongest flare ever recorded
	maxKp      = 9    // Kp scale ceiling
	maxSpeedKm = 5000 // km/s, beyond any observed CME
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	flr := flag.String("flr", "", "path to a saved FLR response dump")
	gst := flag.String("gst", "", "path to a saved GST response dump")
	wsa := flag.String("wsa", "", "path to a saved WSAEnlilSimulations response dump")
	flag.Parse()

	if *flr == "" && *gst == "" && *wsa == "" {
		flag.Usage()
		os.Exit(1)
	}

	dumps := map[domain.Catalog]string{}
	if *flr != "" {
		dumps[domain.CatalogFlare] = *flr
	}
	if *gst != "" {
		dumps[domain.CatalogStorm] = *gst
	}
	if *wsa != "" {
		dumps[domain.CatalogSolarWind] = *wsa
	}

	os.Exit(run(dumps))
}

func run(dumps map[domain.Catalog]string) int {
	fmt.Println("=== DONKI Dump Validation ===")
	fmt.Println()

	tables := map[domain.Catalog]domain.Table{}
	parsePhase := &phase{name: "Phase 1: Parse (schema)"}
	for _, catalog := range domain.Catalogs {
		path, ok := dumps[catalog]
		if !ok {
			continue
		}
		body, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read %s: %v\n", path, err)
			return 1
		}
		events, err := domain.ParseEvents(catalog, body)
		if err != nil {
			parsePhase.errorf("%s: %v", catalog, err)
			continue
		}
		tables[catalog] = events
		fmt.Printf("  %s: %d events from %s\n", catalog, len(events), path)
	}

	phases := []*phase{
		parsePhase,
		validateIDs(tables),
		validateBounds(tables),
		validateAggregation(tables),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-38s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateIDs checks that event IDs are present, unique across all dumps,
// and carry the lowercase catalog prefix.
func validateIDs(tables map[domain.Catalog]domain.Table) *phase {
	p := &phase{name: "Phase 2: Event IDs"}

	seen := map[string]domain.Catalog{}
	for catalog, events := range tables {
		prefix := strings.ToLower(string(catalog)) + "-"
		for i := range events {
			id := events[i].ID
			if id == "" {
				p.errorf("%s record %d: missing ID", catalog, i)
				continue
			}
			if !strings.HasPrefix(id, prefix) {
				p.errorf("%s record %d: ID %q lacks prefix %q", catalog, i, id, prefix)
			}
			if prev, dup := seen[id]; dup {
				p.errorf("%s record %d: ID %q duplicates one in %s", catalog, i, id, prev)
			}
			seen[id] = catalog
		}
	}
	return p
}

// validateBounds checks physical plausibility and field consistency.
func validateBounds(tables map[domain.Catalog]domain.Table) *phase {
	p := &phase{name: "Phase 3: Physical bounds"}

	units := map[domain.Catalog]string{
		domain.CatalogFlare:     "w/m2",
		domain.CatalogStorm:     "kp",
		domain.CatalogSolarWind: "km/s",
	}
	ceilings := map[domain.Catalog]float64{
		domain.CatalogFlare:     maxFlux,
		domain.CatalogStorm:     maxKp,
		domain.CatalogSolarWind: maxSpeedKm,
	}
	severities := map[string]bool{"": true, "minor": true, "moderate": true, "severe": true, "extreme": true}

	for catalog, events := range tables {
		for i := range events {
			e := &events[i]
			if e.BeginTime.IsZero() {
				p.errorf("%s record %d: zero begin time", catalog, i)
			}
			if !e.EndTime.IsZero() && e.EndTime.Before(e.BeginTime) {
				p.errorf("%s record %d: end %s before begin %s", catalog, i, e.EndTime, e.BeginTime)
			}
			if e.Magnitude < 0 || e.Magnitude > ceilings[catalog] {
				p.errorf("%s record %d: magnitude %g outside [0, %g]", catalog, i, e.Magnitude, ceilings[catalog])
			}
			if e.Unit != units[catalog] {
				p.errorf("%s record %d: unit %q, want %q", catalog, i, e.Unit, units[catalog])
			}
			if !severities[e.Severity] {
				p.errorf("%s record %d: unknown severity %q", catalog, i, e.Severity)
			}
			if e.Magnitude > 0 && e.Severity == "" {
				p.errorf("%s record %d: magnitude %g but no severity", catalog, i, e.Magnitude)
			}
			if catalog == domain.CatalogFlare && e.Class == "" {
				p.errorf("%s record %d: missing flare class", catalog, i)
			}
		}
	}
	return p
}

// validateAggregation checks that daily aggregation preserves event counts
// and produces sorted, single-category series.
func validateAggregation(tables map[domain.Catalog]domain.Table) *phase {
	p := &phase{name: "Phase 4: Aggregation consistency"}

	for catalog, events := range tables {
		agg := domain.AggregateEvents(events, domain.BucketDay)
		series := agg.Series(string(catalog))

		var total int
		for _, pt := range series {
			total += pt.Count
		}
		if total != len(events) {
			p.errorf("%s: aggregate counts sum to %d, want %d", catalog, total, len(events))
		}

		for i := 1; i < len(series); i++ {
			if !series[i-1].Bucket.Before(series[i].Bucket) {
				p.errorf("%s: series not strictly sorted at index %d", catalog, i)
			}
		}
	}
	return p
}
