package models

import "time"

type Item struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	RequestID   *int64    `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemView is an item prepared for listing: its comments and, for the owner,
// the closest approved bookings around now.
type ItemView struct {
	Item        *Item
	LastBooking *Booking
	NextBooking *Booking
	Comments    []*Comment
}

type Comment struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	ItemID   int64     `json:"item_id"`
	AuthorID int64     `json:"author_id"`
	Created  time.Time `json:"created"`

	Author *User `json:"-"`
}

type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	Created     time.Time `json:"created"`

	Items []*Item `json:"-"`
}
