package service

import (
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEnrichItems(t *testing.T) {
	item := &models.ItemView{Item: &models.Item{ID: 1}}
	bare := &models.ItemView{Item: &models.Item{ID: 2}}

	older := &models.Booking{ID: 10, ItemID: 1, Start: testNow.Add(-days(9)), End: testNow.Add(-days(8)), Status: models.StatusApproved}
	past := &models.Booking{ID: 11, ItemID: 1, Start: testNow.Add(-days(2)), End: testNow.Add(-days(1)), Status: models.StatusApproved}
	future := &models.Booking{ID: 12, ItemID: 1, Start: testNow.Add(days(1)), End: testNow.Add(days(2)), Status: models.StatusApproved}
	later := &models.Booking{ID: 13, ItemID: 1, Start: testNow.Add(days(5)), End: testNow.Add(days(6)), Status: models.StatusApproved}
	waiting := &models.Booking{ID: 14, ItemID: 1, Start: testNow.Add(-days(1)), End: testNow.Add(days(1)), Status: models.StatusWaiting}
	startsNow := &models.Booking{ID: 15, ItemID: 1, Start: testNow, End: testNow.Add(days(1)), Status: models.StatusApproved}

	EnrichItems([]*models.ItemView{item, bare}, []*models.Booking{later, past, waiting, older, future, startsNow}, testNow)

	assert.Equal(t, past, item.LastBooking)
	assert.Equal(t, future, item.NextBooking)
	assert.Nil(t, bare.LastBooking)
	assert.Nil(t, bare.NextBooking)
}

func TestEnrichItems_SinglePastAndFuture(t *testing.T) {
	item := &models.ItemView{Item: &models.Item{ID: 1}}
	p := &models.Booking{ID: 1, ItemID: 1, Start: testNow.Add(-days(2)), End: testNow.Add(-days(1)), Status: models.StatusApproved}
	f := &models.Booking{ID: 2, ItemID: 1, Start: testNow.Add(days(1)), End: testNow.Add(days(2)), Status: models.StatusApproved}

	EnrichItems([]*models.ItemView{item}, []*models.Booking{p, f}, testNow)

	assert.Equal(t, p, item.LastBooking)
	assert.Equal(t, f, item.NextBooking)
}

func TestEnrichItems_Empty(t *testing.T) {
	item := &models.ItemView{Item: &models.Item{ID: 1}}
	EnrichItems([]*models.ItemView{item}, nil, testNow)
	assert.Nil(t, item.LastBooking)
	assert.Nil(t, item.NextBooking)
}
