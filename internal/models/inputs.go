package models

import "time"

type BookingRequest struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

type ItemInput struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// ItemPatch carries a partial item update. Blank strings and nil fields are left unchanged.
type ItemPatch struct {
	Name        string
	Description string
	Available   *bool
}

// UserPatch carries a partial user update. A blank name or nil email is left unchanged.
type UserPatch struct {
	Name  string
	Email *string
}
