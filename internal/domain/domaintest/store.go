// Package domaintest holds the behavioral checks every domain.Store must pass.
package domaintest

import (
	"context"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreSuite exercises a fresh store returned by newStore for every subtest.
func RunStoreSuite(t *testing.T, newStore func(t *testing.T) domain.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("UsersAssignIncrementingIDs", func(t *testing.T) {
		s := newStore(t)
		a := &models.User{Name: "A", Email: "a@example.com"}
		b := &models.User{Name: "B", Email: "b@example.com"}
		require.NoError(t, s.CreateUser(ctx, a))
		require.NoError(t, s.CreateUser(ctx, b))
		assert.Equal(t, int64(1), a.ID)
		assert.Equal(t, int64(2), b.ID)

		got, err := s.GetUserByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "B", got.Name)
		assert.Equal(t, "b@example.com", got.Email)

		all, err := s.GetAllUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetUserByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, s.DeleteUser(ctx, 99), domain.ErrNotFound)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateUser(ctx, &models.User{Name: "A", Email: "a@example.com"}))
		err := s.CreateUser(ctx, &models.User{Name: "A2", Email: "a@example.com"})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

		taken, err := s.EmailTaken(ctx, "a@example.com", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = s.EmailTaken(ctx, "a@example.com", 1)
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("UpdateAndDeleteUser", func(t *testing.T) {
		s := newStore(t)
		u := &models.User{Name: "A", Email: "a@example.com"}
		require.NoError(t, s.CreateUser(ctx, u))

		u.Name = "Renamed"
		require.NoError(t, s.UpdateUser(ctx, u))
		got, err := s.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)

		require.NoError(t, s.DeleteUser(ctx, u.ID))
		_, err = s.GetUserByID(ctx, u.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ItemsByOwnerAndSearch", func(t *testing.T) {
		s := newStore(t)
		owner := mustUser(t, s, "owner@example.com")
		other := mustUser(t, s, "other@example.com")

		drill := &models.Item{OwnerID: owner.ID, Name: "Drill", Description: "Cordless drill", Available: true}
		saw := &models.Item{OwnerID: owner.ID, Name: "Saw", Description: "Hand saw", Available: false}
		ladder := &models.Item{OwnerID: other.ID, Name: "Ladder", Description: "Tall, fits a DRILL bag", Available: true}
		for _, it := range []*models.Item{drill, saw, ladder} {
			require.NoError(t, s.CreateItem(ctx, it))
		}

		owned, err := s.GetItemsByOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, owned, 2)
		assert.Equal(t, drill.ID, owned[0].ID)
		assert.Equal(t, saw.ID, owned[1].ID)

		found, err := s.SearchItems(ctx, "drill")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, drill.ID, found[0].ID)
		assert.Equal(t, ladder.ID, found[1].ID)

		found, err = s.SearchItems(ctx, "saw")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("SearchMatchesTextLiterally", func(t *testing.T) {
		s := newStore(t)
		owner := mustUser(t, s, "owner@example.com")

		drill := &models.Item{OwnerID: owner.ID, Name: "Drill", Description: "Cordless drill", Available: true}
		bits := &models.Item{OwnerID: owner.ID, Name: "Bit set", Description: "100% steel, size_6", Available: true}
		for _, it := range []*models.Item{drill, bits} {
			require.NoError(t, s.CreateItem(ctx, it))
		}

		for _, text := range []string{"%", "_", "d%l", "dr_ll"} {
			found, err := s.SearchItems(ctx, text)
			require.NoError(t, err)
			if text == "%" || text == "_" {
				require.Len(t, found, 1, text)
				assert.Equal(t, bits.ID, found[0].ID, text)
				continue
			}
			assert.Empty(t, found, text)
		}

		found, err := s.SearchItems(ctx, "SIZE_6")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, bits.ID, found[0].ID)
	})

	t.Run("UpdateAndDeleteItem", func(t *testing.T) {
		s := newStore(t)
		owner := mustUser(t, s, "owner@example.com")
		it := &models.Item{OwnerID: owner.ID, Name: "Drill", Description: "d", Available: true}
		require.NoError(t, s.CreateItem(ctx, it))

		it.Available = false
		require.NoError(t, s.UpdateItem(ctx, it))
		got, err := s.GetItemByID(ctx, it.ID)
		require.NoError(t, err)
		assert.False(t, got.Available)

		require.NoError(t, s.DeleteItem(ctx, it.ID))
		_, err = s.GetItemByID(ctx, it.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("BookingRoundTripAndStatus", func(t *testing.T) {
		s := newStore(t)
		owner := mustUser(t, s, "owner@example.com")
		booker := mustUser(t, s, "booker@example.com")
		it := mustItem(t, s, owner.ID, "Drill")

		b := &models.Booking{ItemID: it.ID, BookerID: booker.ID, Start: base, End: base.Add(48 * time.Hour), Status: models.StatusWaiting}
		require.NoError(t, s.CreateBooking(ctx, b))
		assert.Equal(t, int64(1), b.ID)

		got, err := s.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, base.Equal(got.Start))
		assert.True(t, base.Add(48*time.Hour).Equal(got.End))
		assert.Equal(t, models.StatusWaiting, got.Status)
		require.NotNil(t, got.Item)
		require.NotNil(t, got.Booker)
		assert.Equal(t, owner.ID, got.OwnerID())
		assert.Equal(t, "Drill", got.Item.Name)

		require.NoError(t, s.UpdateBookingStatus(ctx, b.ID, models.StatusWaiting, models.StatusApproved))
		err = s.UpdateBookingStatus(ctx, b.ID, models.StatusWaiting, models.StatusRejected)
		assert.ErrorIs(t, err, domain.ErrConcurrentModification)

		got, err = s.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)

		_, err = s.GetBooking(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("FindBookingsFiltersAndOrders", func(t *testing.T) {
		s := newStore(t)
		owner := mustUser(t, s, "owner@example.com")
		booker := mustUser(t, s, "booker@example.com")
		stranger := mustUser(t, s, "stranger@example.com")
		drill := mustItem(t, s, owner.ID, "Drill")
		saw := mustItem(t, s, stranger.ID, "Saw")

		past := &models.Booking{ItemID: drill.ID, BookerID: booker.ID, Start: base.Add(-72 * time.Hour), End: base.Add(-48 * time.Hour), Status: models.StatusApproved}
		current := &models.Booking{ItemID: drill.ID, BookerID: booker.ID, Start: base.Add(-time.Hour), End: base.Add(time.Hour), Status: models.StatusWaiting}
		future := &models.Booking{ItemID: saw.ID, BookerID: booker.ID, Start: base.Add(24 * time.Hour), End: base.Add(48 * time.Hour), Status: models.StatusRejected}
		for _, b := range []*models.Booking{past, current, future} {
			require.NoError(t, s.CreateBooking(ctx, b))
		}

		all, err := s.FindBookings(ctx, models.BookingQuery{BookerID: booker.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{future.ID, current.ID, past.ID}, ids(all))

		byOwner, err := s.FindBookings(ctx, models.BookingQuery{OwnerID: owner.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{current.ID, past.ID}, ids(byOwner))

		cur, err := s.FindBookings(ctx, models.BookingQuery{BookerID: booker.ID, StartNotAfter: base, EndNotBefore: base})
		require.NoError(t, err)
		assert.Equal(t, []int64{current.ID}, ids(cur))

		ended, err := s.FindBookings(ctx, models.BookingQuery{BookerID: booker.ID, EndBefore: base})
		require.NoError(t, err)
		assert.Equal(t, []int64{past.ID}, ids(ended))

		upcoming, err := s.FindBookings(ctx, models.BookingQuery{BookerID: booker.ID, StartAfter: base})
		require.NoError(t, err)
		assert.Equal(t, []int64{future.ID}, ids(upcoming))

		rejected, err := s.FindBookings(ctx, models.BookingQuery{BookerID: booker.ID, Status: models.StatusRejected})
		require.NoError(t, err)
		assert.Equal(t, []int64{future.ID}, ids(rejected))

		forItem, err := s.FindBookings(ctx, models.BookingQuery{BookerID: booker.ID, ItemID: drill.ID, Status: models.StatusApproved, EndBefore: base})
		require.NoError(t, err)
		assert.Equal(t, []int64{past.ID}, ids(forItem))

		none, err := s.FindBookings(ctx, models.BookingQuery{BookerID: stranger.ID})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Comments", func(t *testing.T) {
		s := newStore(t)
		owner := mustUser(t, s, "owner@example.com")
		author := mustUser(t, s, "author@example.com")
		drill := mustItem(t, s, owner.ID, "Drill")
		saw := mustItem(t, s, owner.ID, "Saw")

		c := &models.Comment{Text: "Great drill", ItemID: drill.ID, AuthorID: author.ID, Created: base}
		require.NoError(t, s.CreateComment(ctx, c))
		assert.NotZero(t, c.ID)

		got, err := s.GetCommentsByItems(ctx, []int64{drill.ID, saw.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Great drill", got[0].Text)
		require.NotNil(t, got[0].Author)
		assert.Equal(t, author.Name, got[0].Author.Name)

		got, err = s.GetCommentsByItems(ctx, []int64{saw.ID})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ItemRequests", func(t *testing.T) {
		s := newStore(t)
		alice := mustUser(t, s, "alice@example.com")
		bob := mustUser(t, s, "bob@example.com")

		older := &models.ItemRequest{Description: "Need a drill", RequesterID: alice.ID, Created: base}
		newer := &models.ItemRequest{Description: "Need a saw", RequesterID: alice.ID, Created: base.Add(time.Hour)}
		bobs := &models.ItemRequest{Description: "Need a ladder", RequesterID: bob.ID, Created: base}
		for _, r := range []*models.ItemRequest{older, newer, bobs} {
			require.NoError(t, s.CreateRequest(ctx, r))
		}

		own, err := s.GetRequestsByRequester(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, own, 2)
		assert.Equal(t, newer.ID, own[0].ID)
		assert.Equal(t, older.ID, own[1].ID)

		others, err := s.GetRequestsExcept(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, others, 1)
		assert.Equal(t, bobs.ID, others[0].ID)

		answer := &models.Item{OwnerID: bob.ID, Name: "Drill", Description: "d", Available: true, RequestID: &older.ID}
		require.NoError(t, s.CreateItem(ctx, answer))
		items, err := s.GetItemsByRequests(ctx, []int64{older.ID, newer.ID})
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].RequestID)
		assert.Equal(t, older.ID, *items[0].RequestID)

		got, err := s.GetRequest(ctx, newer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Need a saw", got.Description)

		_, err = s.GetRequest(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func mustUser(t *testing.T, s domain.Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: email, Email: email}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func mustItem(t *testing.T, s domain.Store, ownerID int64, name string) *models.Item {
	t.Helper()
	it := &models.Item{OwnerID: ownerID, Name: name, Description: name, Available: true}
	require.NoError(t, s.CreateItem(context.Background(), it))
	return it
}

func ids(bookings []*models.Booking) []int64 {
	out := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ID)
	}
	return out
}
