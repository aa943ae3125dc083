package domain

import (
	"context"
	"errors"
	"time"

	"shareit/internal/models"
)

var (
	// ErrNotFound is returned by stores when no row matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrConcurrentModification is returned when a conditional update matched no row.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrDuplicateEmail is returned when a user's email is already taken.
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	// UpdateBookingStatus moves a booking from one status to another and fails
	// with ErrConcurrentModification when the booking is no longer in from.
	UpdateBookingStatus(ctx context.Context, id int64, from, to models.BookingStatus) error
	FindBookings(ctx context.Context, q models.BookingQuery) ([]*models.Booking, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, req *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetRequestsExcept(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
}

// Store is the full persistence surface. Both the in-memory arena and the
// sqlite database implement it.
type Store interface {
	UserRepository
	ItemRepository
	BookingRepository
	CommentRepository
	RequestRepository
	Close() error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type Clock interface {
	Now() time.Time
}

type BookingService interface {
	Create(ctx context.Context, req models.BookingRequest, requesterID int64) (*models.Booking, error)
	Approve(ctx context.Context, bookingID, actingUserID int64, approved bool) (*models.Booking, error)
	GetByID(ctx context.Context, bookingID, requestingUserID int64) (*models.Booking, error)
	ListForBooker(ctx context.Context, bookerID int64, state string) ([]*models.Booking, error)
	ListForOwner(ctx context.Context, ownerID int64, state string) ([]*models.Booking, error)
}

type ItemService interface {
	Create(ctx context.Context, ownerID int64, in models.ItemInput) (*models.Item, error)
	Update(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error)
	Delete(ctx context.Context, itemID, userID int64) error
	GetByID(ctx context.Context, itemID, userID int64) (*models.ItemView, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]*models.ItemView, error)
	Search(ctx context.Context, text string) ([]*models.Item, error)
	AddComment(ctx context.Context, itemID, authorID int64, text string) (*models.Comment, error)
}

type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type RequestService interface {
	Create(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error)
	ListOwn(ctx context.Context, userID int64) ([]*models.ItemRequest, error)
	ListOthers(ctx context.Context, userID int64) ([]*models.ItemRequest, error)
	GetByID(ctx context.Context, requestID, userID int64) (*models.ItemRequest, error)
}
