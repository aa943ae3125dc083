package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/failure"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type itemStore interface {
	domain.UserRepository
	domain.ItemRepository
	domain.BookingRepository
	domain.CommentRepository
	domain.RequestRepository
}

type ItemService struct {
	store    itemStore
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewItemService(store itemStore, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *ItemService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ItemService{
		store:    store,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, in models.ItemInput) (*models.Item, error) {
	if _, err := getUser(ctx, s.store, ownerID); err != nil {
		return nil, err
	}

	if in.RequestID != nil {
		if _, err := s.store.GetRequest(ctx, *in.RequestID); err != nil {
			return nil, storeErr(err, "get item request", "item request not found: %d", *in.RequestID)
		}
	}

	item := &models.Item{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		RequestID:   in.RequestID,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("Item created")
	return item, nil
}

// Update patches the item. Anyone but the owner is told the item does not exist.
func (s *ItemService) Update(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.ownedItem(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(patch.Name) != "" {
		item.Name = patch.Name
	}
	if strings.TrimSpace(patch.Description) != "" {
		item.Description = patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, storeErr(err, "update item", "item not found: %d", itemID)
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, itemID, userID int64) error {
	if _, err := s.ownedItem(ctx, itemID, userID); err != nil {
		return err
	}
	if err := s.checkNoOpenBookings(ctx, itemID); err != nil {
		return err
	}
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return storeErr(err, "delete item", "item not found: %d", itemID)
	}
	s.logger.Info().Int64("item_id", itemID).Int64("owner_id", userID).Msg("Item deleted")
	return nil
}

// checkNoOpenBookings refuses deletion while the item has a WAITING booking or an
// APPROVED one that has not ended. Finished and rejected bookings stay with the booker.
func (s *ItemService) checkNoOpenBookings(ctx context.Context, itemID int64) error {
	bookings, err := s.store.FindBookings(ctx, models.BookingQuery{ItemID: itemID})
	if err != nil {
		return fmt.Errorf("failed to find bookings of item %d: %w", itemID, err)
	}

	now := s.clock.Now()
	for _, b := range bookings {
		open := b.Status == models.StatusWaiting ||
			(b.Status == models.StatusApproved && !b.End.Before(now))
		if open {
			return failure.InvalidRequest("item %d has open booking %d (%s)", itemID, b.ID, b.Status)
		}
	}
	return nil
}

func (s *ItemService) ownedItem(ctx context.Context, itemID, userID int64) (*models.Item, error) {
	item, err := getItem(ctx, s.store, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, failure.NotFound("item %d not found for user %d", itemID, userID)
	}
	return item, nil
}

// GetByID returns the item with its comments. The owner also sees the last and next approved booking.
func (s *ItemService) GetByID(ctx context.Context, itemID, userID int64) (*models.ItemView, error) {
	item, err := getItem(ctx, s.store, itemID)
	if err != nil {
		return nil, err
	}

	views := []*models.ItemView{{Item: item}}
	if err := s.attachComments(ctx, views); err != nil {
		return nil, err
	}
	if item.OwnerID == userID {
		q := models.BookingQuery{ItemID: itemID, Status: models.StatusApproved}
		if err := s.enrich(ctx, q, views); err != nil {
			return nil, err
		}
	}
	return views[0], nil
}

func (s *ItemService) ListForOwner(ctx context.Context, ownerID int64) ([]*models.ItemView, error) {
	if _, err := getUser(ctx, s.store, ownerID); err != nil {
		return nil, err
	}

	items, err := s.store.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	views := make([]*models.ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, &models.ItemView{Item: item})
	}
	if len(views) == 0 {
		return views, nil
	}

	q := models.BookingQuery{OwnerID: ownerID, Status: models.StatusApproved}
	if err := s.enrich(ctx, q, views); err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *ItemService) enrich(ctx context.Context, q models.BookingQuery, views []*models.ItemView) error {
	approved, err := s.store.FindBookings(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to load approved bookings: %w", err)
	}
	EnrichItems(views, approved, s.clock.Now())
	return nil
}

func (s *ItemService) attachComments(ctx context.Context, views []*models.ItemView) error {
	ids := make([]int64, 0, len(views))
	byID := make(map[int64]*models.ItemView, len(views))
	for _, v := range views {
		ids = append(ids, v.Item.ID)
		byID[v.Item.ID] = v
		v.Comments = []*models.Comment{}
	}

	comments, err := s.store.GetCommentsByItems(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}
	for _, c := range comments {
		if v, ok := byID[c.ItemID]; ok {
			v.Comments = append(v.Comments, c)
		}
	}
	return nil
}

// Search finds available items by name or description. Blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, text string) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	items, err := s.store.SearchItems(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}
