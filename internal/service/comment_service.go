package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/events"
	"shareit/internal/failure"
	"shareit/internal/models"
)

// AddComment lets a user comment on an item after an approved rental of it has ended.
func (s *ItemService) AddComment(ctx context.Context, itemID, authorID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, failure.InvalidRequest("comment text must not be blank")
	}

	author, err := getUser(ctx, s.store, authorID)
	if err != nil {
		return nil, err
	}
	item, err := getItem(ctx, s.store, itemID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	finished, err := s.store.FindBookings(ctx, models.BookingQuery{
		BookerID:  authorID,
		ItemID:    item.ID,
		Status:    models.StatusApproved,
		EndBefore: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check rentals: %w", err)
	}
	if len(finished) == 0 {
		return nil, failure.InvalidRequest("item %d has not been rented by user %d or the rental has not ended yet", itemID, authorID)
	}

	comment := &models.Comment{
		Text:     text,
		ItemID:   item.ID,
		AuthorID: author.ID,
		Created:  now,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.Author = author

	if s.eventBus != nil {
		payload := events.CommentEventPayload{
			CommentID: comment.ID,
			ItemID:    comment.ItemID,
			AuthorID:  comment.AuthorID,
			Text:      comment.Text,
		}
		if err := s.eventBus.PublishJSON(events.EventCommentCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}
	return comment, nil
}
