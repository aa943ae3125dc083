package models

// BookingState names a view over a user's bookings.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState maps a raw query value to a state. An empty value means ALL.
func ParseBookingState(raw string) (BookingState, bool) {
	switch BookingState(raw) {
	case "", StateAll:
		return StateAll, true
	case StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return BookingState(raw), true
	default:
		return "", false
	}
}

const (
	// TimestampLayout is the wire format of booking timestamps (yyyy-MM-ddTHH:mm:ss).
	TimestampLayout = "2006-01-02T15:04:05"

	// DefaultUserHeader carries the acting user's id on every request.
	DefaultUserHeader = "X-Sharer-User-Id"

	// DefaultItemCacheTTL is how long item lookups stay in redis, in seconds.
	DefaultItemCacheTTL = 10 * 60
)
