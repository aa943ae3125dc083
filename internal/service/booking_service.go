package service

import (
	"context"
	"errors"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/failure"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type bookingStore interface {
	domain.UserRepository
	domain.ItemRepository
	domain.BookingRepository
}

// BookingService owns every booking status change.
type BookingService struct {
	store    bookingStore
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewBookingService(store bookingStore, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *BookingService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &BookingService{
		store:    store,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

// Create validates the request and stores a WAITING booking.
func (s *BookingService) Create(ctx context.Context, req models.BookingRequest, requesterID int64) (*models.Booking, error) {
	booker, err := getUser(ctx, s.store, requesterID)
	if err != nil {
		return nil, err
	}

	item, err := getItem(ctx, s.store, req.ItemID)
	if err != nil {
		return nil, err
	}

	// An owner booking their own item is reported as a missing item.
	if item.OwnerID == requesterID {
		return nil, failure.NotFound("item %d cannot be booked by its owner %d", item.ID, requesterID)
	}

	if !item.Available {
		return nil, failure.InvalidRequest("item %d is not available", item.ID)
	}

	if !req.End.After(req.Start) {
		return nil, failure.InvalidRequest("booking end %s must be after start %s",
			req.End.Format(models.TimestampLayout), req.Start.Format(models.TimestampLayout))
	}

	booking := &models.Booking{
		ItemID:   item.ID,
		BookerID: booker.ID,
		Start:    req.Start,
		End:      req.End,
		Status:   models.StatusWaiting,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	booking.Item = item
	booking.Booker = booker

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", item.ID).
		Int64("booker_id", booker.ID).
		Msg("Booking created")
	s.publishEvent(events.EventBookingCreated, booking, requesterID)

	return booking, nil
}

// Approve moves a WAITING booking to APPROVED or REJECTED on behalf of the item owner.
func (s *BookingService) Approve(ctx context.Context, bookingID, actingUserID int64, approved bool) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.OwnerID() != actingUserID {
		return nil, failure.InvalidRequest("user %d is not the owner of the item in booking %d", actingUserID, bookingID)
	}

	if booking.Status != models.StatusWaiting {
		return nil, failure.InvalidRequest("booking %d has already been decided: %s", bookingID, booking.Status)
	}

	next := models.StatusRejected
	if approved {
		next = models.StatusApproved
	}

	err = s.store.UpdateBookingStatus(ctx, bookingID, models.StatusWaiting, next)
	switch {
	case errors.Is(err, domain.ErrConcurrentModification):
		return nil, failure.InvalidRequest("booking %d has already been decided", bookingID)
	case errors.Is(err, domain.ErrNotFound):
		return nil, failure.NotFound("booking not found: %d", bookingID)
	case err != nil:
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = next
	booking.Version++

	eventType := events.EventBookingRejected
	if approved {
		eventType = events.EventBookingApproved
	}
	s.logger.Info().
		Int64("booking_id", bookingID).
		Int64("owner_id", actingUserID).
		Str("status", string(next)).
		Msg("Booking decided")
	s.publishEvent(eventType, booking, actingUserID)

	return booking, nil
}

// GetByID returns the booking to its booker or the item owner.
func (s *BookingService) GetByID(ctx context.Context, bookingID, requestingUserID int64) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Strangers are told the booking does not exist.
	if booking.BookerID != requestingUserID && booking.OwnerID() != requestingUserID {
		return nil, failure.NotFound("booking not found: %d", bookingID)
	}
	return booking, nil
}

func (s *BookingService) getBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, storeErr(err, "get booking", "booking not found: %d", id)
	}
	return booking, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, changedByID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		ItemID:      booking.ItemID,
		BookerID:    booking.BookerID,
		OwnerID:     booking.OwnerID(),
		Status:      string(booking.Status),
		Start:       booking.Start,
		End:         booking.End,
		ChangedByID: changedByID,
	}
	if booking.Item != nil {
		payload.ItemName = booking.Item.Name
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
