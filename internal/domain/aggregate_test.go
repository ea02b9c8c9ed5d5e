package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketStart(t *testing.T) {
	// Wednesday afternoon.
	input := time.Date(2024, 4, 24, 15, 45, 30, 0, time.UTC)

	tests := []struct {
		name     string
		bucket   Bucket
		expected time.Time
	}{
		{"hour", BucketHour, time.Date(2024, 4, 24, 15, 0, 0, 0, time.UTC)},
		{"day", BucketDay, time.Date(2024, 4, 24, 0, 0, 0, 0, time.UTC)},
		{"week starts Monday", BucketWeek, time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC)},
		{"month", BucketMonth, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.bucket.Start(input))
		})
	}

	t.Run("sunday belongs to previous monday", func(t *testing.T) {
		sunday := time.Date(2024, 4, 28, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC), BucketWeek.Start(sunday))
	})

	t.Run("non-UTC input normalized", func(t *testing.T) {
		est := time.Date(2024, 4, 24, 22, 30, 0, 0, time.FixedZone("EST", -5*3600))
		assert.Equal(t, time.Date(2024, 4, 25, 0, 0, 0, 0, time.UTC), BucketDay.Start(est))
	})
}

func TestParseBucket(t *testing.T) {
	for _, valid := range []string{"hour", "day", "week", "month"} {
		b, err := ParseBucket(valid)
		require.NoError(t, err)
		assert.Equal(t, Bucket(valid), b)
	}

	_, err := ParseBucket("fortnight")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fortnight")
}

func TestAggregateEvents_DailyCounts(t *testing.T) {
	// Two flares on consecutive days must land in two distinct daily cells.
	events := Table{
		{EventType: "FLR", BeginTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{EventType: "FLR", BeginTime: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	agg := AggregateEvents(events, BucketDay)

	require.Len(t, agg, 2)
	day1 := Key{EventType: "FLR", Bucket: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	day2 := Key{EventType: "FLR", Bucket: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 1, agg[day1].Count)
	assert.Equal(t, 1, agg[day2].Count)
}

func TestAggregateEvents_MagnitudeStats(t *testing.T) {
	day := time.Date(2024, 3, 23, 0, 0, 0, 0, time.UTC)
	events := Table{
		{EventType: "GST", BeginTime: day.Add(2 * time.Hour), Magnitude: 5},
		{EventType: "GST", BeginTime: day.Add(8 * time.Hour), Magnitude: 7},
		{EventType: "GST", BeginTime: day.Add(14 * time.Hour), Magnitude: 6},
	}

	agg := AggregateEvents(events, BucketDay)

	cell := agg[Key{EventType: "GST", Bucket: day}]
	assert.Equal(t, 3, cell.Count)
	assert.Equal(t, 18.0, cell.Sum)
	assert.Equal(t, 7.0, cell.Max)
	assert.Equal(t, 6.0, cell.Mean())
}

func TestAggregateEvents_SeparatesCategories(t *testing.T) {
	day := time.Date(2024, 3, 23, 0, 0, 0, 0, time.UTC)
	events := Table{
		{EventType: "FLR", BeginTime: day, Magnitude: 1e-5},
		{EventType: "GST", BeginTime: day, Magnitude: 5},
	}

	agg := AggregateEvents(events, BucketDay)

	require.Len(t, agg, 2)
	assert.Equal(t, 1, agg[Key{EventType: "FLR", Bucket: day}].Count)
	assert.Equal(t, 1, agg[Key{EventType: "GST", Bucket: day}].Count)
}

func TestAggregateEvents_EmptyInput(t *testing.T) {
	assert.Empty(t, AggregateEvents(nil, BucketDay))
	assert.Empty(t, AggregateEvents(Table{}, BucketWeek))
}

func TestAggregateEvents_Idempotent(t *testing.T) {
	events := Table{
		{EventType: "FLR", BeginTime: time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC), Magnitude: 1e-6},
		{EventType: "FLR", BeginTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Magnitude: 2e-6},
		{EventType: "GST", BeginTime: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Magnitude: 6},
	}

	first := AggregateEvents(events, BucketDay)
	second := AggregateEvents(events, BucketDay)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("aggregation not deterministic (-first +second):\n%s", diff)
	}
}

func TestSeries_SortedByBucket(t *testing.T) {
	events := Table{
		{EventType: "FLR", BeginTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{EventType: "FLR", BeginTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{EventType: "FLR", BeginTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{EventType: "GST", BeginTime: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	agg := AggregateEvents(events, BucketMonth)
	series := agg.Series("FLR")

	require.Len(t, series, 3)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), series[0].Bucket)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), series[1].Bucket)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), series[2].Bucket)

	// Repeated calls must not depend on map iteration order.
	again := agg.Series("FLR")
	if diff := cmp.Diff(series, again); diff != "" {
		t.Fatalf("series not stable (-first +second):\n%s", diff)
	}
}

func TestSeries_UnknownCategory(t *testing.T) {
	agg := AggregateEvents(Table{{EventType: "FLR", BeginTime: time.Now()}}, BucketDay)
	assert.Empty(t, agg.Series("GST"))
}
