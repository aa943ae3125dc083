package models

import "time"

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// Booking is a request by a booker to use an item over [Start, End).
// Item and Booker are filled in by the store on reads.
type Booking struct {
	ID        int64         `json:"id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	ItemID    int64         `json:"item_id"`
	BookerID  int64         `json:"booker_id"`
	Status    BookingStatus `json:"status"`
	Version   int64         `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Item   *Item `json:"-"`
	Booker *User `json:"-"`
}

// OwnerID returns the owner of the booked item, or 0 when the item is not loaded.
func (b *Booking) OwnerID() int64 {
	if b.Item == nil {
		return 0
	}
	return b.Item.OwnerID
}

// BookingQuery selects bookings. Zero-valued fields do not constrain the result.
// Stores return matches ordered by Start descending.
type BookingQuery struct {
	BookerID int64
	OwnerID  int64
	ItemID   int64
	Status   BookingStatus

	StartNotAfter time.Time // Start <= t
	StartAfter    time.Time // Start > t
	EndNotBefore  time.Time // End >= t
	EndBefore     time.Time // End < t
}

// Matches reports whether b satisfies q. ownerID is the owner of b's item.
func (q BookingQuery) Matches(b *Booking, ownerID int64) bool {
	if q.BookerID != 0 && b.BookerID != q.BookerID {
		return false
	}
	if q.OwnerID != 0 && ownerID != q.OwnerID {
		return false
	}
	if q.ItemID != 0 && b.ItemID != q.ItemID {
		return false
	}
	if q.Status != "" && b.Status != q.Status {
		return false
	}
	if !q.StartNotAfter.IsZero() && b.Start.After(q.StartNotAfter) {
		return false
	}
	if !q.StartAfter.IsZero() && !b.Start.After(q.StartAfter) {
		return false
	}
	if !q.EndNotBefore.IsZero() && b.End.Before(q.EndNotBefore) {
		return false
	}
	if !q.EndBefore.IsZero() && !b.End.Before(q.EndBefore) {
		return false
	}
	return true
}
