package service

import (
	"testing"

	"shareit/internal/failure"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingService_ListStates(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	booker := f.user(t, "booker")
	other := f.user(t, "other")
	drill := f.item(t, owner.ID, "Drill", true)
	ladder := f.item(t, other.ID, "Ladder", true)

	past := f.booking(t, drill.ID, booker.ID, testNow.Add(-days(5)), testNow.Add(-days(3)), models.StatusApproved)
	current := f.booking(t, drill.ID, booker.ID, testNow.Add(-days(1)), testNow.Add(days(1)), models.StatusApproved)
	future := f.booking(t, drill.ID, booker.ID, testNow.Add(days(3)), testNow.Add(days(4)), models.StatusWaiting)
	rejected := f.booking(t, drill.ID, booker.ID, testNow.Add(days(6)), testNow.Add(days(7)), models.StatusRejected)
	foreign := f.booking(t, ladder.ID, booker.ID, testNow.Add(days(2)), testNow.Add(days(3)), models.StatusWaiting)
	edge := f.booking(t, drill.ID, booker.ID, testNow, testNow.Add(days(2)), models.StatusApproved)

	bookerTests := []struct {
		state string
		want  []int64
	}{
		{"", []int64{rejected.ID, future.ID, foreign.ID, edge.ID, current.ID, past.ID}},
		{"ALL", []int64{rejected.ID, future.ID, foreign.ID, edge.ID, current.ID, past.ID}},
		{"CURRENT", []int64{edge.ID, current.ID}},
		{"PAST", []int64{past.ID}},
		{"FUTURE", []int64{rejected.ID, future.ID, foreign.ID}},
		{"WAITING", []int64{future.ID, foreign.ID}},
		{"REJECTED", []int64{rejected.ID}},
	}
	for _, tt := range bookerTests {
		t.Run("Booker_"+tt.state, func(t *testing.T) {
			got, err := f.bookings.ListForBooker(f.ctx, booker.ID, tt.state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, bookingIDs(got))
		})
	}

	ownerTests := []struct {
		state string
		want  []int64
	}{
		{"ALL", []int64{rejected.ID, future.ID, edge.ID, current.ID, past.ID}},
		{"CURRENT", []int64{edge.ID, current.ID}},
		{"FUTURE", []int64{rejected.ID, future.ID}},
		{"WAITING", []int64{future.ID}},
	}
	for _, tt := range ownerTests {
		t.Run("Owner_"+tt.state, func(t *testing.T) {
			got, err := f.bookings.ListForOwner(f.ctx, owner.ID, tt.state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, bookingIDs(got))
		})
	}

	t.Run("CurrentPredicateHolds", func(t *testing.T) {
		got, err := f.bookings.ListForBooker(f.ctx, booker.ID, "CURRENT")
		require.NoError(t, err)
		for _, b := range got {
			assert.False(t, b.Start.After(testNow))
			assert.False(t, b.End.Before(testNow))
		}
	})

	t.Run("OtherOwnerSeesOnlyTheirItems", func(t *testing.T) {
		got, err := f.bookings.ListForOwner(f.ctx, other.ID, "ALL")
		require.NoError(t, err)
		assert.Equal(t, []int64{foreign.ID}, bookingIDs(got))
	})

	t.Run("NoBookings", func(t *testing.T) {
		got, err := f.bookings.ListForBooker(f.ctx, owner.ID, "ALL")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("UnknownState", func(t *testing.T) {
		_, err := f.bookings.ListForBooker(f.ctx, booker.ID, "SOMETIMES")
		require.True(t, failure.IsInvalidRequest(err))
		assert.Equal(t, "Unknown state: UNSUPPORTED_STATUS", err.Error())

		_, err = f.bookings.ListForOwner(f.ctx, owner.ID, "SOMETIMES")
		assert.True(t, failure.IsInvalidRequest(err))
	})

	t.Run("StateCheckedBeforeUser", func(t *testing.T) {
		_, err := f.bookings.ListForOwner(f.ctx, 999, "SOMETIMES")
		assert.True(t, failure.IsInvalidRequest(err))
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := f.bookings.ListForBooker(f.ctx, 999, "ALL")
		assert.True(t, failure.IsNotFound(err))

		_, err = f.bookings.ListForOwner(f.ctx, 999, "ALL")
		assert.True(t, failure.IsNotFound(err))
	})
}

func TestQueryForState(t *testing.T) {
	assert.Equal(t, models.BookingQuery{}, QueryForState(models.StateAll, testNow))
	assert.Equal(t, models.BookingQuery{StartNotAfter: testNow, EndNotBefore: testNow}, QueryForState(models.StateCurrent, testNow))
	assert.Equal(t, models.BookingQuery{EndBefore: testNow}, QueryForState(models.StatePast, testNow))
	assert.Equal(t, models.BookingQuery{StartAfter: testNow}, QueryForState(models.StateFuture, testNow))
	assert.Equal(t, models.BookingQuery{Status: models.StatusWaiting}, QueryForState(models.StateWaiting, testNow))
	assert.Equal(t, models.BookingQuery{Status: models.StatusRejected}, QueryForState(models.StateRejected, testNow))
}

func bookingIDs(bookings []*models.Booking) []int64 {
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	return ids
}
