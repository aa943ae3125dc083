package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/failure"
	"shareit/internal/models"
)

// ListForBooker returns the bookings made by bookerID in the given state, newest start first.
func (s *BookingService) ListForBooker(ctx context.Context, bookerID int64, state string) ([]*models.Booking, error) {
	q, err := s.stateQuery(state)
	if err != nil {
		return nil, err
	}
	if _, err := getUser(ctx, s.store, bookerID); err != nil {
		return nil, err
	}

	q.BookerID = bookerID
	return s.find(ctx, q)
}

// ListForOwner returns the bookings of items owned by ownerID in the given state, newest start first.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, state string) ([]*models.Booking, error) {
	q, err := s.stateQuery(state)
	if err != nil {
		return nil, err
	}
	if _, err := getUser(ctx, s.store, ownerID); err != nil {
		return nil, err
	}

	q.OwnerID = ownerID
	return s.find(ctx, q)
}

func (s *BookingService) stateQuery(raw string) (models.BookingQuery, error) {
	state, ok := models.ParseBookingState(raw)
	if !ok {
		return models.BookingQuery{}, failure.InvalidRequest("Unknown state: UNSUPPORTED_STATUS")
	}
	return QueryForState(state, s.clock.Now()), nil
}

// QueryForState maps a state onto a booking predicate evaluated at now.
func QueryForState(state models.BookingState, now time.Time) models.BookingQuery {
	switch state {
	case models.StateCurrent:
		return models.BookingQuery{StartNotAfter: now, EndNotBefore: now}
	case models.StatePast:
		return models.BookingQuery{EndBefore: now}
	case models.StateFuture:
		return models.BookingQuery{StartAfter: now}
	case models.StateWaiting:
		return models.BookingQuery{Status: models.StatusWaiting}
	case models.StateRejected:
		return models.BookingQuery{Status: models.StatusRejected}
	default:
		return models.BookingQuery{}
	}
}

func (s *BookingService) find(ctx context.Context, q models.BookingQuery) ([]*models.Booking, error) {
	bookings, err := s.store.FindBookings(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return bookings, nil
}
