package domain

import (
	"fmt"
	"sort"
	"time"
)

// Bucket is a time-bucket granularity for aggregation.
type Bucket string

const (
	BucketHour  Bucket = "hour"
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

// ParseBucket validates a bucket name from configuration.
func ParseBucket(value string) (Bucket, error) {
	switch b := Bucket(value); b {
	case BucketHour, BucketDay, BucketWeek, BucketMonth:
		return b, nil
	}
	return "", fmt.Errorf("invalid bucket %q", value)
}

// Start truncates t to the beginning of its bucket in UTC. Weeks start on
// Monday; months on the first of the month.
func (b Bucket) Start(t time.Time) time.Time {
	t = t.UTC()
	switch b {
	case BucketHour:
		return t.Truncate(time.Hour)
	case BucketDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case BucketWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday=0
		return day.AddDate(0, 0, -offset)
	case BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// Key identifies one aggregate cell: a category and a bucket start time.
type Key struct {
	EventType string
	Bucket    time.Time
}

// Cell accumulates counts and magnitudes for one key.
type Cell struct {
	Count int
	Sum   float64
	Max   float64
}

// Mean returns the average magnitude for the cell, 0 for an empty cell.
func (c Cell) Mean() float64 {
	if c.Count == 0 {
		return 0
	}
	return c.Sum / float64(c.Count)
}

// Aggregate maps (category, bucket) to accumulated counts and magnitudes.
type Aggregate map[Key]Cell

// AggregateEvents groups events by category and time bucket. An empty or
// nil table produces an empty aggregate, never an error. The result is a
// pure function of its input: aggregating the same table twice yields
// identical results.
func AggregateEvents(events Table, bucket Bucket) Aggregate {
	agg := make(Aggregate, len(events))
	for _, e := range events {
		key := Key{EventType: e.EventType, Bucket: bucket.Start(e.BeginTime)}
		cell := agg[key]
		cell.Count++
		cell.Sum += e.Magnitude
		if e.Magnitude > cell.Max {
			cell.Max = e.Magnitude
		}
		agg[key] = cell
	}
	return agg
}

// Point is one aggregate cell flattened for plotting.
type Point struct {
	Bucket time.Time
	Count  int
	Sum    float64
	Max    float64
	Mean   float64
}

// Series returns the points for one category sorted by bucket time. Map
// iteration order never leaks out, so repeated calls are identical.
func (a Aggregate) Series(eventType string) []Point {
	points := make([]Point, 0, len(a))
	for key, cell := range a {
		if key.EventType != eventType {
			continue
		}
		points = append(points, Point{
			Bucket: key.Bucket,
			Count:  cell.Count,
			Sum:    cell.Sum,
			Max:    cell.Max,
			Mean:   cell.Mean(),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Bucket.Before(points[j].Bucket) })
	return points
}
