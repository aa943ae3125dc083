package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

var (
	ErrNotFound               = domain.ErrNotFound
	ErrConcurrentModification = domain.ErrConcurrentModification
)

// MemoryStore keeps every entity in per-kind arenas keyed by an incrementing id.
// Values are copied on the way in and out so callers never share state with the arena.
type MemoryStore struct {
	mu sync.RWMutex

	users    map[int64]models.User
	items    map[int64]models.Item
	bookings map[int64]models.Booking
	comments map[int64]models.Comment
	requests map[int64]models.ItemRequest

	nextUserID    int64
	nextItemID    int64
	nextBookingID int64
	nextCommentID int64
	nextRequestID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]models.User),
		items:    make(map[int64]models.Item),
		bookings: make(map[int64]models.Booking),
		comments: make(map[int64]models.Comment),
		requests: make(map[int64]models.ItemRequest),
	}
}

func (s *MemoryStore) Close() error {
	return nil
}

// Users

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTakenLocked(user.Email, 0) {
		return domain.ErrDuplicateEmail
	}

	s.nextUserID++
	now := time.Now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	if s.emailTakenLocked(user.Email, user.ID) {
		return domain.ErrDuplicateEmail
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailTakenLocked(email, exceptID), nil
}

func (s *MemoryStore) emailTakenLocked(email string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// Items

func (s *MemoryStore) CreateItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextItemID++
	now := time.Now()
	item.ID = s.nextItemID
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &it, nil
}

func (s *MemoryStore) GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error) {
	return s.filterItems(func(it *models.Item) bool { return it.OwnerID == ownerID }), nil
}

func (s *MemoryStore) GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	wanted := make(map[int64]struct{}, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = struct{}{}
	}
	return s.filterItems(func(it *models.Item) bool {
		if it.RequestID == nil {
			return false
		}
		_, ok := wanted[*it.RequestID]
		return ok
	}), nil
}

func (s *MemoryStore) SearchItems(ctx context.Context, text string) ([]*models.Item, error) {
	needle := strings.ToLower(text)
	return s.filterItems(func(it *models.Item) bool {
		return it.Available &&
			(strings.Contains(strings.ToLower(it.Name), needle) ||
				strings.Contains(strings.ToLower(it.Description), needle))
	}), nil
}

func (s *MemoryStore) filterItems(keep func(*models.Item) bool) []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []*models.Item
	for _, it := range s.items {
		it := it
		if keep(&it) {
			items = append(items, &it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (s *MemoryStore) UpdateItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return ErrNotFound
	}
	item.UpdatedAt = time.Now()
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) DeleteItem(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Bookings

func (s *MemoryStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextBookingID++
	now := time.Now()
	booking.ID = s.nextBookingID
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now

	stored := *booking
	stored.Item, stored.Booker = nil, nil
	s.bookings[booking.ID] = stored
	return nil
}

func (s *MemoryStore) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.hydrateLocked(b), nil
}

func (s *MemoryStore) UpdateBookingStatus(ctx context.Context, id int64, from, to models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != from {
		return ErrConcurrentModification
	}
	b.Status = to
	b.Version++
	b.UpdatedAt = time.Now()
	s.bookings[id] = b
	return nil
}

func (s *MemoryStore) FindBookings(ctx context.Context, q models.BookingQuery) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Booking
	for _, b := range s.bookings {
		var ownerID int64
		if it, ok := s.items[b.ItemID]; ok {
			ownerID = it.OwnerID
		}
		if q.Matches(&b, ownerID) {
			result = append(result, s.hydrateLocked(b))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Start.Equal(result[j].Start) {
			return result[i].ID > result[j].ID
		}
		return result[i].Start.After(result[j].Start)
	})
	return result, nil
}

func (s *MemoryStore) hydrateLocked(b models.Booking) *models.Booking {
	if it, ok := s.items[b.ItemID]; ok {
		b.Item = &it
	}
	if u, ok := s.users[b.BookerID]; ok {
		b.Booker = &u
	}
	return &b
}

// Comments

func (s *MemoryStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCommentID++
	comment.ID = s.nextCommentID
	if comment.Created.IsZero() {
		comment.Created = time.Now()
	}
	stored := *comment
	stored.Author = nil
	s.comments[comment.ID] = stored
	if u, ok := s.users[comment.AuthorID]; ok {
		comment.Author = &u
	}
	return nil
}

func (s *MemoryStore) GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}

	var result []*models.Comment
	for _, c := range s.comments {
		if _, ok := wanted[c.ItemID]; !ok {
			continue
		}
		c := c
		if u, ok := s.users[c.AuthorID]; ok {
			c.Author = &u
		}
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Item requests

func (s *MemoryStore) CreateRequest(ctx context.Context, req *models.ItemRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRequestID++
	req.ID = s.nextRequestID
	if req.Created.IsZero() {
		req.Created = time.Now()
	}
	stored := *req
	stored.Items = nil
	s.requests[req.ID] = stored
	return nil
}

func (s *MemoryStore) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	return s.filterRequests(func(r *models.ItemRequest) bool { return r.RequesterID == requesterID }), nil
}

func (s *MemoryStore) GetRequestsExcept(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	return s.filterRequests(func(r *models.ItemRequest) bool { return r.RequesterID != requesterID }), nil
}

func (s *MemoryStore) filterRequests(keep func(*models.ItemRequest) bool) []*models.ItemRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.ItemRequest
	for _, r := range s.requests {
		r := r
		if keep(&r) {
			result = append(result, &r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Created.Equal(result[j].Created) {
			return result[i].ID > result[j].ID
		}
		return result[i].Created.After(result[j].Created)
	})
	return result
}

var _ domain.Store = (*MemoryStore)(nil)
