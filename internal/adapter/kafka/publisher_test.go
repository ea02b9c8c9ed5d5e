package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/space-weather-plotter/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	event := domain.Event{
		ID:        "flr-abc123",
		EventType: "FLR",
		BeginTime: time.Date(2024, 5, 10, 6, 54, 0, 0, time.UTC),
		Magnitude: 5.8e-4,
		Unit:      "w/m2",
		Class:     "X5.8",
		Severity:  "extreme",
		Source:    "FLR",
		FetchedAt: time.Date(2024, 11, 23, 10, 0, 0, 0, time.UTC),
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("flr-abc123"), msg.Key)

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.Magnitude, decoded.Magnitude)
	assert.Equal(t, event.Class, decoded.Class)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "FLR", headers["event_type"])
	assert.Equal(t, "2024-11-23T10:00:00Z", headers["fetched_at"])
}
