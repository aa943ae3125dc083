package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockCache) SetItem(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockCache) DeleteItem(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newCachedStore(t *testing.T) (*CachedStore, *MemoryStore, *mockCache) {
	t.Helper()
	store := NewMemoryStore()
	cache := new(mockCache)
	logger := zerolog.New(io.Discard)
	return NewCachedStore(store, cache, &logger), store, cache
}

func TestCachedStore_GetItemByID(t *testing.T) {
	ctx := context.Background()

	t.Run("CacheHit", func(t *testing.T) {
		cs, _, cache := newCachedStore(t)
		cached := &models.Item{ID: 1, Name: "Drill"}
		cache.On("GetItem", ctx, int64(1)).Return(cached, nil).Once()

		got, err := cs.GetItemByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, cached, got)
		cache.AssertExpectations(t)
	})

	t.Run("MissFillsCache", func(t *testing.T) {
		cs, store, cache := newCachedStore(t)
		item := &models.Item{OwnerID: 1, Name: "Drill", Available: true}
		require.NoError(t, store.CreateItem(ctx, item))

		cache.On("GetItem", ctx, item.ID).Return(nil, nil).Once()
		cache.On("SetItem", ctx, mock.MatchedBy(func(it *models.Item) bool { return it.ID == item.ID })).Return(nil).Once()

		got, err := cs.GetItemByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Drill", got.Name)
		cache.AssertExpectations(t)
	})

	t.Run("CacheDownFallsBackToStore", func(t *testing.T) {
		cs, store, cache := newCachedStore(t)
		item := &models.Item{OwnerID: 1, Name: "Saw"}
		require.NoError(t, store.CreateItem(ctx, item))

		cache.On("GetItem", ctx, item.ID).Return(nil, errors.New("connection refused")).Once()

		got, err := cs.GetItemByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Saw", got.Name)
		assert.True(t, cs.isDown.Load())

		// While down the cache is not consulted.
		got, err = cs.GetItemByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Saw", got.Name)
		cache.AssertNumberOfCalls(t, "GetItem", 1)
	})

	t.Run("RecoversAfterRetryWindow", func(t *testing.T) {
		cs, store, cache := newCachedStore(t)
		item := &models.Item{OwnerID: 1, Name: "Ladder"}
		require.NoError(t, store.CreateItem(ctx, item))

		cs.isDown.Store(true)
		cs.lastCheck = time.Now().Add(-2 * cacheRetryAfter)

		cache.On("GetItem", ctx, item.ID).Return(item, nil).Once()

		got, err := cs.GetItemByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ladder", got.Name)
		assert.False(t, cs.isDown.Load())
		cache.AssertExpectations(t)
	})

	t.Run("StoreNotFound", func(t *testing.T) {
		cs, _, cache := newCachedStore(t)
		cache.On("GetItem", ctx, int64(42)).Return(nil, nil).Once()

		_, err := cs.GetItemByID(ctx, 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCachedStore_WritesRefreshCache(t *testing.T) {
	ctx := context.Background()
	cs, store, cache := newCachedStore(t)
	item := &models.Item{OwnerID: 1, Name: "Drill", Available: true}
	require.NoError(t, store.CreateItem(ctx, item))

	cache.On("SetItem", ctx, mock.MatchedBy(func(it *models.Item) bool { return it.Name == "Hammer drill" })).Return(nil).Once()
	cache.On("DeleteItem", ctx, item.ID).Return(nil).Once()

	item.Name = "Hammer drill"
	require.NoError(t, cs.UpdateItem(ctx, item))
	require.NoError(t, cs.DeleteItem(ctx, item.ID))
	cache.AssertExpectations(t)
	assert.False(t, cs.isDown.Load())

	err := cs.DeleteItem(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func newRedisCachedStore(t *testing.T, store domain.Store) (*CachedStore, *miniredis.Miniredis, *RedisItemCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisItemCache(client, 10*time.Minute)
	logger := zerolog.New(io.Discard)
	return NewCachedStore(store, cache, &logger), mr, cache
}

func TestCachedStore_FailedWriteIsNotServedAfterRecovery(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cs, mr, cache := newRedisCachedStore(t, store)

	item := &models.Item{OwnerID: 1, Name: "Kayak", Available: true}
	require.NoError(t, store.CreateItem(ctx, item))

	got, err := cs.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, got.Available)
	require.True(t, mr.Exists(itemKey(item.ID)))

	mr.SetError("LOADING redis is loading the dataset in memory")
	updated := *item
	updated.Available = false
	require.NoError(t, cs.UpdateItem(ctx, &updated))
	assert.True(t, cs.isDown.Load())

	// still inside the retry window: the store answers
	got, err = cs.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)

	mr.SetError("")
	cs.lastCheck = time.Now().Add(-2 * cacheRetryAfter)

	got, err = cs.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.False(t, cs.isDown.Load())
	assert.Empty(t, cs.stale)

	cached, err := cache.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.False(t, cached.Available)
}

func TestCachedStore_StaysDownWhileStaleKeyRemains(t *testing.T) {
	ctx := context.Background()
	cs, store, cache := newCachedStore(t)
	item := &models.Item{OwnerID: 1, Name: "Tent", Available: true}
	require.NoError(t, store.CreateItem(ctx, item))

	cache.On("DeleteItem", ctx, item.ID).Return(errors.New("connection refused"))
	require.NoError(t, cs.DeleteItem(ctx, item.ID))
	require.Contains(t, cs.stale, item.ID)

	cs.lastCheck = time.Now().Add(-2 * cacheRetryAfter)
	_, err := cs.GetItemByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.True(t, cs.isDown.Load())
	assert.Contains(t, cs.stale, item.ID)
	cache.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything)
	cache.AssertNumberOfCalls(t, "DeleteItem", 2)
}

// racingStore runs onGet after reading the item and before returning it.
type racingStore struct {
	*MemoryStore
	onGet func()
}

func (s *racingStore) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.MemoryStore.GetItemByID(ctx, id)
	if s.onGet != nil {
		hook := s.onGet
		s.onGet = nil
		hook()
	}
	return item, err
}

func TestCachedStore_ReadRacingUpdateDoesNotRecacheOldRow(t *testing.T) {
	ctx := context.Background()
	store := &racingStore{MemoryStore: NewMemoryStore()}
	cs, _, cache := newRedisCachedStore(t, store)

	item := &models.Item{OwnerID: 1, Name: "Ladder", Available: true}
	require.NoError(t, store.CreateItem(ctx, item))

	store.onGet = func() {
		updated := *item
		updated.Available = false
		require.NoError(t, cs.UpdateItem(ctx, &updated))
	}

	got, err := cs.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Available, "the racing read returns the row it saw")

	cached, err := cache.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.False(t, cached.Available)

	got, err = cs.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
}
