// Command genmock writes mock DONKI API responses covering the May 2024
// solar storm period. The raw fixtures run through the actual parsing path
// with a fixed clock and the resulting stats are printed for updating test
// assertions.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/space-weather-plotter/internal/domain"
)

// Raw DONKI record shapes, mirroring the API response schema.

type flareRecord struct {
	FlareID        string `json:"flrID"`
	BeginTime      string `json:"beginTime"`
	PeakTime       string `json:"peakTime"`
	EndTime        string `json:"endTime"`
	ClassType      string `json:"classType"`
	SourceLocation string `json:"sourceLocation"`
	Link           string `json:"link"`
}

type kpObservation struct {
	ObservedTime string  `json:"observedTime"`
	KpIndex      float64 `json:"kpIndex"`
	Source       string  `json:"source"`
}

type stormRecord struct {
	StormID    string          `json:"gstID"`
	StartTime  string          `json:"startTime"`
	AllKpIndex []kpObservation `json:"allKpIndex"`
	Link       string          `json:"link"`
}

type cmeInput struct {
	CMEStartTime string  `json:"cmeStartTime"`
	Speed        float64 `json:"speed"`
}

type simulationRecord struct {
	SimulationID string     `json:"simulationID"`
	Time215      string     `json:"time21_5"`
	CMEInputs    []cmeInput `json:"cmeInputs"`
	Link         string     `json:"link"`
}

func donkiLink(catalog string, id int) string {
	return fmt.Sprintf("https://webtools.ccmc.gsfc.nasa.gov/DONKI/view/%s/%d/-1", catalog, id)
}

func flares() []flareRecord {
	return []flareRecord{
		{FlareID: "2024-05-08T04:40:00-FLR-001", BeginTime: "2024-05-08T04:40Z", PeakTime: "2024-05-08T05:09Z", EndTime: "2024-05-08T05:32Z", ClassType: "X1.0", SourceLocation: "S19W24", Link: donkiLink("FLR", 30412)},
		{FlareID: "2024-05-09T08:45:00-FLR-001", BeginTime: "2024-05-09T08:45Z", PeakTime: "2024-05-09T09:13Z", EndTime: "2024-05-09T09:36Z", ClassType: "X2.2", SourceLocation: "S17W27", Link: donkiLink("FLR", 30438)},
		{FlareID: "2024-05-10T06:27:00-FLR-001", BeginTime: "2024-05-10T06:27Z", PeakTime: "2024-05-10T06:54Z", EndTime: "2024-05-10T07:06Z", ClassType: "X3.9", SourceLocation: "S18W41", Link: donkiLink("FLR", 30457)},
		{FlareID: "2024-05-11T01:10:00-FLR-001", BeginTime: "2024-05-11T01:10Z", PeakTime: "2024-05-11T01:23Z", EndTime: "2024-05-11T01:39Z", ClassType: "X5.8", SourceLocation: "S18W51", Link: donkiLink("FLR", 30474)},
		{FlareID: "2024-05-12T16:11:00-FLR-001", BeginTime: "2024-05-12T16:11Z", PeakTime: "2024-05-12T16:26Z", EndTime: "", ClassType: "M6.6", SourceLocation: "S19W68", Link: donkiLink("FLR", 30496)},
		{FlareID: "2024-05-13T02:04:00-FLR-001", BeginTime: "2024-05-13T02:04Z", PeakTime: "2024-05-13T02:11Z", EndTime: "2024-05-13T02:19Z", ClassType: "C9.2", SourceLocation: "S20W75", Link: donkiLink("FLR", 30508)},
		{FlareID: "2024-05-14T16:46:00-FLR-001", BeginTime: "2024-05-14T16:46Z", PeakTime: "2024-05-14T16:51Z", EndTime: "2024-05-14T17:02Z", ClassType: "X8.7", SourceLocation: "S17W89", Link: donkiLink("FLR", 30531)},
	}
}

func storms() []stormRecord {
	return []stormRecord{
		{
			StormID:   "2024-05-10T17:00:00-GST-001",
			StartTime: "2024-05-10T17:00Z",
			AllKpIndex: []kpObservation{
				{ObservedTime: "2024-05-10T18:00Z", KpIndex: 7.67, Source: "NOAA"},
				{ObservedTime: "2024-05-10T21:00Z", KpIndex: 8.67, Source: "NOAA"},
				{ObservedTime: "2024-05-11T00:00Z", KpIndex: 9, Source: "NOAA"},
				{ObservedTime: "2024-05-11T06:00Z", KpIndex: 8.33, Source: "NOAA"},
			},
			Link: donkiLink("GST", 30482),
		},
		{
			StormID:   "2024-05-17T12:00:00-GST-001",
			StartTime: "2024-05-17T12:00Z",
			AllKpIndex: []kpObservation{
				{ObservedTime: "2024-05-17T15:00Z", KpIndex: 5.67, Source: "NOAA"},
				{ObservedTime: "2024-05-17T18:00Z", KpIndex: 6.33, Source: "NOAA"},
			},
			Link: donkiLink("GST", 30560),
		},
	}
}

func simulations() []simulationRecord {
	return []simulationRecord{
		{
			SimulationID: "WSA-ENLIL/28263/1",
			Time215:      "2024-05-08T09:00Z",
			CMEInputs: []cmeInput{
				{CMEStartTime: "2024-05-08T05:36Z", Speed: 712},
				{CMEStartTime: "2024-05-08T12:24Z", Speed: 998},
			},
			Link: donkiLink("WSA-ENLIL", 28263),
		},
		{
			SimulationID: "WSA-ENLIL/28290/1",
			Time215:      "2024-05-10T12:00Z",
			CMEInputs: []cmeInput{
				{CMEStartTime: "2024-05-10T07:24Z", Speed: 1350},
				{CMEStartTime: "2024-05-10T09:12Z", Speed: 1820},
			},
			Link: donkiLink("WSA-ENLIL", 28290),
		},
		{
			SimulationID: "WSA-ENLIL/28315/1",
			Time215:      "2024-05-14T18:00Z",
			CMEInputs: []cmeInput{
				{CMEStartTime: "2024-05-14T17:12Z", Speed: 2217},
			},
			Link: donkiLink("WSA-ENLIL", 28315),
		},
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "output directory for mock fixtures")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}

	// Fix the clock so FetchedAt, and with it the printed stats, stays
	// reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.May, 20, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rawSets := []struct {
		file    string
		catalog domain.Catalog
		records any
	}{
		{file: "donki_240510_flr.json", catalog: domain.CatalogFlare, records: flares()},
		{file: "donki_240510_gst.json", catalog: domain.CatalogStorm, records: storms()},
		{file: "donki_240510_wsa.json", catalog: domain.CatalogSolarWind, records: simulations()},
	}

	var allEvents domain.Table
	for _, set := range rawSets {
		path := filepath.Join(*outDir, set.file)
		if err := writeJSON(path, set.records); err != nil {
			return fmt.Errorf("writing %s: %w", set.file, err)
		}

		// Round-trip through the real parser to verify the fixture.
		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		events, err := domain.ParseEvents(set.catalog, body)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", set.file, err)
		}
		allEvents = append(allEvents, events...)
		log.Printf("%s: %d records", set.catalog, len(events))
	}

	printStats(allEvents)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(events domain.Table) {
	typeCounts := map[string]int{}
	severityCounts := map[string]int{}
	maxMagnitude := map[string]float64{}
	for i := range events {
		e := &events[i]
		typeCounts[e.EventType]++
		severityCounts[e.Severity]++
		if e.Magnitude > maxMagnitude[e.EventType] {
			maxMagnitude[e.EventType] = e.Magnitude
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(events))
	fmt.Printf("By catalog: FLR=%d, GST=%d, WSAEnlilSimulations=%d\n",
		typeCounts["FLR"], typeCounts["GST"], typeCounts["WSAEnlilSimulations"])
	fmt.Printf("By severity: minor=%d, moderate=%d, severe=%d, extreme=%d\n",
		severityCounts["minor"], severityCounts["moderate"],
		severityCounts["severe"], severityCounts["extreme"])
	fmt.Printf("Max magnitudes: FLR=%g w/m2, GST=%g kp, wind=%g km/s\n",
		maxMagnitude["FLR"], maxMagnitude["GST"], maxMagnitude["WSAEnlilSimulations"])

	for i := range events {
		if events[i].Class == "X8.7" {
			fmt.Printf("\nStrongest flare:\n")
			fmt.Printf("  ID: %s\n", events[i].ID)
			fmt.Printf("  Magnitude: %g %s\n", events[i].Magnitude, events[i].Unit)
			fmt.Printf("  Severity: %s\n", events[i].Severity)
			fmt.Printf("  BeginTime: %s\n", events[i].BeginTime.Format(time.RFC3339))
			break
		}
	}
}
