package service

import (
	"testing"
	"time"

	"shareit/internal/failure"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestService(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	first, err := f.requests.Create(f.ctx, alice.ID, "Need a drill")
	require.NoError(t, err)
	assert.True(t, testNow.Equal(first.Created))
	assert.NotNil(t, first.Items)

	f.requests.clock = fixedClock{now: testNow.Add(time.Hour)}
	second, err := f.requests.Create(f.ctx, alice.ID, "Need a ladder")
	require.NoError(t, err)
	bobs, err := f.requests.Create(f.ctx, bob.ID, "Need a tent")
	require.NoError(t, err)

	drill, err := f.items.Create(f.ctx, bob.ID, models.ItemInput{Name: "Drill", Description: "d", Available: true, RequestID: &first.ID})
	require.NoError(t, err)

	t.Run("Validation", func(t *testing.T) {
		_, err := f.requests.Create(f.ctx, alice.ID, "  ")
		assert.True(t, failure.IsInvalidRequest(err))
		_, err = f.requests.Create(f.ctx, 999, "Need a saw")
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("ListOwnNewestFirst", func(t *testing.T) {
		reqs, err := f.requests.ListOwn(f.ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, reqs, 2)
		assert.Equal(t, second.ID, reqs[0].ID)
		assert.Equal(t, first.ID, reqs[1].ID)
		assert.Empty(t, reqs[0].Items)
		require.Len(t, reqs[1].Items, 1)
		assert.Equal(t, drill.ID, reqs[1].Items[0].ID)
	})

	t.Run("ListOthers", func(t *testing.T) {
		reqs, err := f.requests.ListOthers(f.ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, reqs, 2)

		reqs, err = f.requests.ListOthers(f.ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, bobs.ID, reqs[0].ID)
	})

	t.Run("GetByID", func(t *testing.T) {
		req, err := f.requests.GetByID(f.ctx, first.ID, bob.ID)
		require.NoError(t, err)
		require.Len(t, req.Items, 1)
		assert.Equal(t, "Drill", req.Items[0].Name)

		_, err = f.requests.GetByID(f.ctx, 999, bob.ID)
		assert.True(t, failure.IsNotFound(err))
		_, err = f.requests.GetByID(f.ctx, first.ID, 999)
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := f.requests.ListOwn(f.ctx, 999)
		assert.True(t, failure.IsNotFound(err))
		_, err = f.requests.ListOthers(f.ctx, 999)
		assert.True(t, failure.IsNotFound(err))
	})
}
