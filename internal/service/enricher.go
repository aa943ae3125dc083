package service

import (
	"time"

	"shareit/internal/models"
)

// EnrichItems sets LastBooking and NextBooking on every view from the pre-fetched
// approved bookings. LastBooking is the latest start before now, NextBooking the
// earliest start after now. Bookings that are not APPROVED are skipped.
func EnrichItems(items []*models.ItemView, approved []*models.Booking, now time.Time) {
	byItem := make(map[int64][]*models.Booking, len(items))
	for _, b := range approved {
		if b.Status != models.StatusApproved {
			continue
		}
		byItem[b.ItemID] = append(byItem[b.ItemID], b)
	}

	for _, view := range items {
		view.LastBooking, view.NextBooking = nil, nil
		for _, b := range byItem[view.Item.ID] {
			switch {
			case b.Start.Before(now):
				if view.LastBooking == nil || b.Start.After(view.LastBooking.Start) {
					view.LastBooking = b
				}
			case b.Start.After(now):
				if view.NextBooking == nil || b.Start.Before(view.NextBooking.Start) {
					view.NextBooking = b
				}
			}
		}
	}
}
