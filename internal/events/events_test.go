package events

import (
	"errors"
	"testing"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	handler := func(event *Event) error {
		received = event
		callCount++
		return nil
	}

	bus.Subscribe(handler, EventBookingCreated)

	err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 7, Status: "WAITING"})
	if err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}

	if received.Type != EventBookingCreated {
		t.Errorf("expected type %s, got %s", EventBookingCreated, received.Type)
	}
	if received.CreatedAt.IsZero() {
		t.Errorf("expected CreatedAt to be set")
	}

	var decoded BookingEventPayload
	if err := received.Decode(&decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}

	if decoded.BookingID != 7 || decoded.Status != "WAITING" {
		t.Errorf("unexpected payload %+v", decoded)
	}
}

func TestEventBusMultipleTypes(t *testing.T) {
	bus := NewEventBus()
	var count int

	bus.Subscribe(func(_ *Event) error { count++; return nil }, BookingEventTypes...)

	for _, eventType := range BookingEventTypes {
		_ = bus.Publish(&Event{Type: eventType})
	}
	_ = bus.Publish(&Event{Type: EventCommentCreated})

	if count != len(BookingEventTypes) {
		t.Errorf("expected %d calls, got %d", len(BookingEventTypes), count)
	}
}

func TestEventBusHandlerErrors(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	var secondCalled bool

	bus.Subscribe(func(_ *Event) error { return boom }, EventCommentCreated)
	bus.Subscribe(func(_ *Event) error { secondCalled = true; return nil }, EventCommentCreated)

	err := bus.Publish(&Event{Type: EventCommentCreated})
	if !errors.Is(err, boom) {
		t.Errorf("expected joined handler error, got %v", err)
	}
	if !secondCalled {
		t.Errorf("expected second handler to run after the first failed")
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	if err := bus.Publish(&Event{Type: "unknown"}); err != nil {
		t.Errorf("Publish failed: %v", err)
	}
	if err := bus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("PublishJSON failed: %v", err)
	}

	var nilBus *EventBus
	if err := nilBus.PublishJSON(EventBookingCreated, nil); err != nil {
		t.Errorf("nil bus should be a no-op, got %v", err)
	}
}
