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

type requestStore interface {
	domain.UserRepository
	domain.ItemRepository
	domain.RequestRepository
}

type RequestService struct {
	store  requestStore
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewRequestService(store requestStore, clock domain.Clock, logger *zerolog.Logger) *RequestService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &RequestService{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, failure.InvalidRequest("item request description must not be blank")
	}
	if _, err := getUser(ctx, s.store, requesterID); err != nil {
		return nil, err
	}

	req := &models.ItemRequest{
		Description: description,
		RequesterID: requesterID,
		Created:     s.clock.Now(),
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create item request: %w", err)
	}
	req.Items = []*models.Item{}

	s.logger.Info().Int64("request_id", req.ID).Int64("requester_id", requesterID).Msg("Item request created")
	return req, nil
}

// ListOwn returns the user's requests, newest first.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]*models.ItemRequest, error) {
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	reqs, err := s.store.GetRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return s.withItems(ctx, reqs)
}

// ListOthers returns everyone else's requests, newest first.
func (s *RequestService) ListOthers(ctx context.Context, userID int64) ([]*models.ItemRequest, error) {
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	reqs, err := s.store.GetRequestsExcept(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return s.withItems(ctx, reqs)
}

func (s *RequestService) GetByID(ctx context.Context, requestID, userID int64) (*models.ItemRequest, error) {
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, storeErr(err, "get item request", "item request not found: %d", requestID)
	}

	reqs, err := s.withItems(ctx, []*models.ItemRequest{req})
	if err != nil {
		return nil, err
	}
	return reqs[0], nil
}

// withItems loads the answering items of every request in one query.
func (s *RequestService) withItems(ctx context.Context, reqs []*models.ItemRequest) ([]*models.ItemRequest, error) {
	if len(reqs) == 0 {
		return []*models.ItemRequest{}, nil
	}

	ids := make([]int64, 0, len(reqs))
	byID := make(map[int64]*models.ItemRequest, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
		byID[r.ID] = r
		r.Items = []*models.Item{}
	}

	items, err := s.store.GetItemsByRequests(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load request items: %w", err)
	}
	for _, item := range items {
		if item.RequestID == nil {
			continue
		}
		if r, ok := byID[*item.RequestID]; ok {
			r.Items = append(r.Items, item)
		}
	}
	return reqs, nil
}
