package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// recorder collects published event types.
type recorder struct {
	mu    sync.Mutex
	types []string
}

func (r *recorder) handle(e *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, e.Type)
	return nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

type fixture struct {
	ctx      context.Context
	store    *repository.MemoryStore
	events   *recorder
	bookings *BookingService
	items    *ItemService
	users    *UserService
	requests *RequestService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	bus := events.NewEventBus()
	rec := &recorder{}
	bus.Subscribe(rec.handle, events.BookingEventTypes...)
	bus.Subscribe(rec.handle, events.EventCommentCreated)

	logger := zerolog.Nop()
	clock := fixedClock{now: testNow}
	return &fixture{
		ctx:      context.Background(),
		store:    store,
		events:   rec,
		bookings: NewBookingService(store, bus, clock, &logger),
		items:    NewItemService(store, bus, clock, &logger),
		users:    NewUserService(store, &logger),
		requests: NewRequestService(store, clock, &logger),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.users.Create(f.ctx, &models.User{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func (f *fixture) item(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	it, err := f.items.Create(f.ctx, ownerID, models.ItemInput{Name: name, Description: name + " for rent", Available: available})
	require.NoError(t, err)
	return it
}

// booking stores a booking directly, bypassing the engine, so tests can place it anywhere in time.
func (f *fixture) booking(t *testing.T, itemID, bookerID int64, start, end time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	b := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: status}
	require.NoError(t, f.store.CreateBooking(f.ctx, b))
	return b
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
