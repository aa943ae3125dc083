package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// ItemCache is a best-effort cache in front of item lookups.
type ItemCache interface {
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	SetItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
}

const cacheRetryAfter = time.Minute

// CachedStore serves item reads from the cache and writes through to the store.
// When the cache fails it is bypassed for a minute before being retried. Keys whose
// invalidation failed are deleted before the cache is used again.
type CachedStore struct {
	domain.Store
	cache  ItemCache
	logger *zerolog.Logger

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
	stale     map[int64]struct{}

	// fillMu orders cache fills after reads against item writes.
	fillMu sync.Mutex
	writes uint64
}

func NewCachedStore(store domain.Store, cache ItemCache, logger *zerolog.Logger) *CachedStore {
	return &CachedStore{
		Store:  store,
		cache:  cache,
		logger: logger,
		stale:  make(map[int64]struct{}),
	}
}

func (s *CachedStore) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	if s.cacheUsable(ctx) {
		item, err := s.cache.GetItem(ctx, id)
		if err == nil && item != nil {
			return item, nil
		}
		if err != nil {
			s.markDown(err)
		}
	}

	s.fillMu.Lock()
	seen := s.writes
	s.fillMu.Unlock()

	item, err := s.Store.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, item, seen)
	return item, nil
}

// fill caches item unless an item write landed after it was read.
func (s *CachedStore) fill(ctx context.Context, item *models.Item, seen uint64) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()

	if s.writes != seen || !s.cacheUsable(ctx) {
		return
	}
	if err := s.cache.SetItem(ctx, item); err != nil {
		s.markDown(err)
	}
}

func (s *CachedStore) UpdateItem(ctx context.Context, item *models.Item) error {
	if err := s.Store.UpdateItem(ctx, item); err != nil {
		return err
	}

	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.writes++
	if err := s.cache.SetItem(ctx, item); err != nil {
		s.markStale(item.ID, err)
	}
	return nil
}

func (s *CachedStore) DeleteItem(ctx context.Context, id int64) error {
	if err := s.Store.DeleteItem(ctx, id); err != nil {
		return err
	}

	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.writes++
	if err := s.cache.DeleteItem(ctx, id); err != nil {
		s.markStale(id, err)
	}
	return nil
}

func (s *CachedStore) cacheUsable(ctx context.Context) bool {
	if !s.isDown.Load() {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Since(s.lastCheck) <= cacheRetryAfter {
		return false
	}

	for id := range s.stale {
		if err := s.cache.DeleteItem(ctx, id); err != nil {
			s.lastCheck = time.Now()
			s.logger.Warn().Err(err).Int64("item_id", id).Msg("Item cache still failing")
			return false
		}
		delete(s.stale, id)
	}

	s.isDown.Store(false)
	s.logger.Info().Msg("Retrying item cache")
	return true
}

func (s *CachedStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("Item cache failed, reading from store")
	s.mu.Lock()
	s.lastCheck = time.Now()
	s.mu.Unlock()
	s.isDown.Store(true)
}

// markStale bypasses the cache until the old entry for id is gone.
func (s *CachedStore) markStale(id int64, err error) {
	s.logger.Error().Err(err).Int64("item_id", id).Msg("Item cache write failed, bypassing cache")
	s.mu.Lock()
	s.stale[id] = struct{}{}
	s.lastCheck = time.Now()
	s.mu.Unlock()
	s.isDown.Store(true)
}
