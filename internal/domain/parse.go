package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// donkiTimeLayout is the minute-resolution timestamp format used by most
// DONKI fields, e.g. "2024-01-01T15:04Z".
const donkiTimeLayout = "2006-01-02T15:04Z"

// classTypeRe parses a GOES X-ray class string: a flux-decade letter
// followed by an optional multiplier, e.g. "M1.5" -> letter=M, mult=1.5.
var classTypeRe = regexp.MustCompile(`^([ABCMX])(\d+(?:\.\d+)?)?$`)

// Raw DONKI response records. Only the fields the plotter consumes are
// decoded; the rest of the payload is ignored.

type rawFlare struct {
	FlareID        string `json:"flrID"`
	BeginTime      string `json:"beginTime"`
	PeakTime       string `json:"peakTime"`
	EndTime        string `json:"endTime"`
	ClassType      string `json:"classType"`
	SourceLocation string `json:"sourceLocation"`
	Link           string `json:"link"`
}

type rawKpIndex struct {
	ObservedTime string  `json:"observedTime"`
	KpIndex      float64 `json:"kpIndex"`
	Source       string  `json:"source"`
}

type rawStorm struct {
	StormID    string       `json:"gstID"`
	StartTime  string       `json:"startTime"`
	AllKpIndex []rawKpIndex `json:"allKpIndex"`
	Link       string       `json:"link"`
}

type rawCMEInput struct {
	CMEStartTime string  `json:"cmeStartTime"`
	Speed        float64 `json:"speed"`
}

type rawSimulation struct {
	SimulationID string        `json:"simulationID"`
	Time215      string        `json:"time21_5"`
	CMEInputs    []rawCMEInput `json:"cmeInputs"`
	Link         string        `json:"link"`
}

// ParseEvents decodes a raw DONKI response body for the given catalog into
// validated events, preserving response order. Schema validation happens
// here, once, at the API boundary: any malformed element fails the whole
// response with a *ParseError rather than producing a silently short table.
func ParseEvents(catalog Catalog, body []byte) (Table, error) {
	if !catalog.Valid() {
		return nil, &ParseError{Catalog: catalog, Err: fmt.Errorf("unknown catalog %q", catalog)}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, &ParseError{Catalog: catalog, Err: err}
	}

	fetchedAt := clock.Now().UTC()
	events := make(Table, 0, len(elems))
	for i, elem := range elems {
		event, err := parseEvent(catalog, elem)
		if err != nil {
			return nil, &ParseError{Catalog: catalog, Err: fmt.Errorf("record %d: %w", i, err)}
		}
		event.FetchedAt = fetchedAt
		events = append(events, event)
	}
	return events, nil
}

func parseEvent(catalog Catalog, elem json.RawMessage) (Event, error) {
	switch catalog {
	case CatalogFlare:
		return parseFlare(elem)
	case CatalogStorm:
		return parseStorm(elem)
	case CatalogSolarWind:
		return parseSimulation(elem)
	}
	return Event{}, fmt.Errorf("unknown catalog %q", catalog)
}

func parseFlare(elem json.RawMessage) (Event, error) {
	var rec rawFlare
	if err := json.Unmarshal(elem, &rec); err != nil {
		return Event{}, err
	}
	if rec.BeginTime == "" {
		return Event{}, fmt.Errorf("flare missing beginTime")
	}
	if rec.ClassType == "" {
		return Event{}, fmt.Errorf("flare missing classType")
	}

	begin, err := ParseTime(rec.BeginTime)
	if err != nil {
		return Event{}, fmt.Errorf("beginTime: %w", err)
	}
	end, err := parseOptionalTime(rec.EndTime)
	if err != nil {
		return Event{}, fmt.Errorf("endTime: %w", err)
	}
	if !end.IsZero() && end.Before(begin) {
		return Event{}, fmt.Errorf("endTime %s before beginTime %s", rec.EndTime, rec.BeginTime)
	}

	magnitude, err := parseFlareClass(rec.ClassType)
	if err != nil {
		return Event{}, err
	}

	event := Event{
		EventType: string(CatalogFlare),
		BeginTime: begin,
		EndTime:   end,
		Magnitude: magnitude,
		Unit:      "w/m2",
		Class:     rec.ClassType,
		Source:    rec.FlareID,
		Link:      rec.Link,
	}
	event.Severity = deriveSeverity(CatalogFlare, magnitude)
	event.ID = generateID(CatalogFlare, rec.FlareID, begin, magnitude)
	return event, nil
}

func parseStorm(elem json.RawMessage) (Event, error) {
	var rec rawStorm
	if err := json.Unmarshal(elem, &rec); err != nil {
		return Event{}, err
	}
	if rec.StartTime == "" {
		return Event{}, fmt.Errorf("storm missing startTime")
	}

	begin, err := ParseTime(rec.StartTime)
	if err != nil {
		return Event{}, fmt.Errorf("startTime: %w", err)
	}

	// A storm carries a series of Kp observations over its lifetime; the
	// storm magnitude is the maximum, and the last observation closes the
	// event window.
	var maxKp float64
	var end time.Time
	for i, kp := range rec.AllKpIndex {
		if kp.KpIndex < 0 || kp.KpIndex > 9 {
			return Event{}, fmt.Errorf("allKpIndex[%d]: kpIndex %g out of range", i, kp.KpIndex)
		}
		if kp.KpIndex > maxKp {
			maxKp = kp.KpIndex
		}
		observed, err := parseOptionalTime(kp.ObservedTime)
		if err != nil {
			return Event{}, fmt.Errorf("allKpIndex[%d]: %w", i, err)
		}
		if observed.After(end) {
			end = observed
		}
	}
	if !end.IsZero() && end.Before(begin) {
		end = begin
	}

	event := Event{
		EventType: string(CatalogStorm),
		BeginTime: begin,
		EndTime:   end,
		Magnitude: maxKp,
		Unit:      "kp",
		Source:    rec.StormID,
		Link:      rec.Link,
	}
	event.Severity = deriveSeverity(CatalogStorm, maxKp)
	event.ID = generateID(CatalogStorm, rec.StormID, begin, maxKp)
	return event, nil
}

func parseSimulation(elem json.RawMessage) (Event, error) {
	var rec rawSimulation
	if err := json.Unmarshal(elem, &rec); err != nil {
		return Event{}, err
	}
	if rec.Time215 == "" {
		return Event{}, fmt.Errorf("simulation missing time21_5")
	}

	begin, err := ParseTime(rec.Time215)
	if err != nil {
		return Event{}, fmt.Errorf("time21_5: %w", err)
	}

	// The event magnitude is the fastest CME feeding the model run.
	var maxSpeed float64
	for i, cme := range rec.CMEInputs {
		if cme.Speed < 0 {
			return Event{}, fmt.Errorf("cmeInputs[%d]: negative speed %g", i, cme.Speed)
		}
		if cme.Speed > maxSpeed {
			maxSpeed = cme.Speed
		}
	}

	event := Event{
		EventType: string(CatalogSolarWind),
		BeginTime: begin,
		Magnitude: maxSpeed,
		Unit:      "km/s",
		Source:    rec.SimulationID,
		Link:      rec.Link,
	}
	event.Severity = deriveSeverity(CatalogSolarWind, maxSpeed)
	event.ID = generateID(CatalogSolarWind, rec.SimulationID, begin, maxSpeed)
	return event, nil
}

// ParseTime parses a DONKI timestamp. Most fields use minute resolution
// ("2024-01-01T15:04Z"); a few use full RFC 3339. The result is in UTC.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(donkiTimeLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
	}
	return t.UTC(), nil
}

func parseOptionalTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return ParseTime(value)
}

// parseFlareClass converts a GOES class string to absolute peak X-ray flux
// in W/m². The letter selects the flux decade (A=1e-8 .. X=1e-4) and the
// suffix multiplies within it: "M1.5" -> 1.5e-5. A missing suffix means 1.
func parseFlareClass(classType string) (float64, error) {
	matches := classTypeRe.FindStringSubmatch(strings.TrimSpace(classType))
	if matches == nil {
		return 0, fmt.Errorf("invalid classType %q", classType)
	}

	var decade float64
	switch matches[1] {
	case "A":
		decade = 1e-8
	case "B":
		decade = 1e-7
	case "C":
		decade = 1e-6
	case "M":
		decade = 1e-5
	case "X":
		decade = 1e-4
	}

	mult := 1.0
	if matches[2] != "" {
		v, err := strconv.ParseFloat(matches[2], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid classType %q", classType)
		}
		mult = v
	}
	return decade * mult, nil
}

// deriveSeverity maps magnitude to a severity label using NOAA scale
// boundaries, reduced to four levels:
//   - FLR: below C-class minor, C moderate, M severe, X extreme
//   - GST: Kp<5 minor, Kp<7 moderate, Kp<9 severe, Kp 9 extreme
//   - solar wind: <500 km/s minor, <1000 moderate, <2000 severe, else extreme
//
// Returns "" when magnitude is 0 (unmeasured) or the catalog is unknown.
func deriveSeverity(catalog Catalog, magnitude float64) string {
	if magnitude == 0 {
		return ""
	}

	switch catalog {
	case CatalogFlare:
		switch {
		case magnitude < 1e-6:
			return "minor"
		case magnitude < 1e-5:
			return "moderate"
		case magnitude < 1e-4:
			return "severe"
		default:
			return "extreme"
		}
	case CatalogStorm:
		switch {
		case magnitude < 5:
			return "minor"
		case magnitude < 7:
			return "moderate"
		case magnitude < 9:
			return "severe"
		default:
			return "extreme"
		}
	case CatalogSolarWind:
		switch {
		case magnitude < 500:
			return "minor"
		case magnitude < 1000:
			return "moderate"
		case magnitude < 2000:
			return "severe"
		default:
			return "extreme"
		}
	}
	return ""
}

// generateID produces a deterministic ID from the event's key fields, so
// refetching the same range reproduces the same IDs and downstream
// consumers can deduplicate on replay.
func generateID(catalog Catalog, activityID string, begin time.Time, magnitude float64) string {
	input := fmt.Sprintf("%s|%s|%s|%g", catalog, activityID, begin.Format(time.RFC3339), magnitude)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	return strings.ToLower(string(catalog)) + "-" + short
}

// FilterRange returns the events whose begin time falls on or after start
// and before the end of the end date (the DONKI date range is inclusive of
// both dates). Response order is preserved.
func FilterRange(events Table, start, end time.Time) Table {
	cutoff := end.AddDate(0, 0, 1)
	kept := make(Table, 0, len(events))
	for _, e := range events {
		if e.BeginTime.Before(start) || !e.BeginTime.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
