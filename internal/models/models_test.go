package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBookingState(t *testing.T) {
	tests := []struct {
		raw   string
		want  BookingState
		valid bool
	}{
		{"", StateAll, true},
		{"ALL", StateAll, true},
		{"CURRENT", StateCurrent, true},
		{"PAST", StatePast, true},
		{"FUTURE", StateFuture, true},
		{"WAITING", StateWaiting, true},
		{"REJECTED", StateRejected, true},
		{"UNSUPPORTED_STATUS", "", false},
		{"all", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseBookingState(tt.raw)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBookingQueryMatches(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	b := &Booking{
		ID:       1,
		ItemID:   10,
		BookerID: 2,
		Start:    now.Add(-time.Hour),
		End:      now.Add(time.Hour),
		Status:   StatusApproved,
	}

	tests := []struct {
		name  string
		query BookingQuery
		want  bool
	}{
		{"Empty", BookingQuery{}, true},
		{"Booker", BookingQuery{BookerID: 2}, true},
		{"OtherBooker", BookingQuery{BookerID: 3}, false},
		{"Owner", BookingQuery{OwnerID: 5}, true},
		{"OtherOwner", BookingQuery{OwnerID: 6}, false},
		{"Item", BookingQuery{ItemID: 11}, false},
		{"Status", BookingQuery{Status: StatusWaiting}, false},
		{"Current", BookingQuery{StartNotAfter: now, EndNotBefore: now}, true},
		{"Past", BookingQuery{EndBefore: now}, false},
		{"Future", BookingQuery{StartAfter: now}, false},
		{"StartBoundaryInclusive", BookingQuery{StartNotAfter: b.Start}, true},
		{"StartAfterBoundaryExclusive", BookingQuery{StartAfter: b.Start}, false},
		{"EndBoundaryInclusive", BookingQuery{EndNotBefore: b.End}, true},
		{"EndBeforeBoundaryExclusive", BookingQuery{EndBefore: b.End}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Matches(b, 5))
		})
	}
}

func TestBookingOwnerID(t *testing.T) {
	b := &Booking{}
	assert.Equal(t, int64(0), b.OwnerID())

	b.Item = &Item{OwnerID: 9}
	assert.Equal(t, int64(9), b.OwnerID())
}
