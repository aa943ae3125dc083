package api

import (
	"encoding/json"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampRoundTrip(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-15T10:00:00"`), &ts))
	assert.Equal(t, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC), ts.Time)

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-15T10:00:00"`, string(out))
}

func TestTimestampRejectsOtherLayouts(t *testing.T) {
	for _, raw := range []string{`"2026-01-15"`, `"2026-01-15T10:00:00Z"`, `"15.01.2026 10:00"`, `12345`} {
		var ts Timestamp
		assert.Error(t, json.Unmarshal([]byte(raw), &ts), raw)
	}
}

func TestDurationDays(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	assert.EqualValues(t, 2, durationDays(start, start.Add(48*time.Hour)))
	assert.EqualValues(t, 1, durationDays(start, start.Add(47*time.Hour)))
	assert.EqualValues(t, 0, durationDays(start, start.Add(time.Hour)))
}

func TestToBookingResponse(t *testing.T) {
	b := &models.Booking{
		ID:     7,
		Start:  time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		End:    time.Date(2026, 1, 17, 10, 0, 0, 0, time.UTC),
		Status: models.StatusWaiting,
		Booker: &models.User{ID: 2, Name: "B", Email: "b@example.com"},
		Item:   &models.Item{ID: 1, Name: "X", OwnerID: 3},
	}

	out, err := json.Marshal(toBookingResponse(b))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"start":"2026-01-15T10:00:00","end":"2026-01-17T10:00:00",
		"status":"WAITING","booker":{"id":2,"name":"B"},"item":{"id":1,"name":"X"},"durationDays":2}`, string(out))
}

func TestToItemViewResponse(t *testing.T) {
	view := &models.ItemView{
		Item: &models.Item{ID: 1, Name: "X", Description: "d", Available: true},
		LastBooking: &models.Booking{
			ID: 4, ItemID: 1, BookerID: 2,
			Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		Comments: []*models.Comment{{
			ID: 9, Text: "nice", Author: &models.User{Name: "B"},
			Created: time.Date(2026, 1, 3, 8, 30, 0, 0, time.UTC),
		}},
	}

	out, err := json.Marshal(toItemViewResponse(view))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"X","description":"d","available":true,"requestId":null,
		"lastBooking":{"id":4,"start":"2026-01-01T00:00:00","end":"2026-01-02T00:00:00","itemId":1,"bookerId":2},
		"nextBooking":null,
		"comments":[{"id":9,"text":"nice","authorName":"B","created":"2026-01-03T08:30:00"}]}`, string(out))
}
