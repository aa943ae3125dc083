package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/failure"
	"shareit/internal/models"
)

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// storeErr turns a store ErrNotFound into a NotFound failure with the given message
// and wraps anything else.
func storeErr(err error, op, format string, args ...any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return failure.NotFound(format, args...)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func getUser(ctx context.Context, users domain.UserRepository, id int64) (*models.User, error) {
	user, err := users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "get user", "user not found: %d", id)
	}
	return user, nil
}

func getItem(ctx context.Context, items domain.ItemRepository, id int64) (*models.Item, error) {
	item, err := items.GetItemByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "get item", "item not found: %d", id)
	}
	return item, nil
}

var (
	_ domain.BookingService = (*BookingService)(nil)
	_ domain.ItemService    = (*ItemService)(nil)
	_ domain.UserService    = (*UserService)(nil)
	_ domain.RequestService = (*RequestService)(nil)
)
