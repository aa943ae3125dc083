package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.Created.IsZero() {
		comment.Created = time.Now()
	}
	query := `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query, comment.Text, comment.ItemID, comment.AuthorID, toNanos(comment.Created))
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id

	if author, err := db.GetUserByID(ctx, comment.AuthorID); err == nil {
		comment.Author = author
	}
	return nil
}

func (db *DB) GetCommentsByItems(ctx context.Context, itemIDs []int64) ([]*models.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := `SELECT c.id, c.text, c.item_id, c.author_id, c.created, u.name
              FROM comments c LEFT JOIN users u ON u.id = c.author_id
              WHERE c.item_id IN (` + placeholders(len(itemIDs)) + `)
              ORDER BY c.id`
	rows, err := db.QueryContext(ctx, query, int64Args(itemIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var (
			c          models.Comment
			created    int64
			authorName sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &created, &authorName); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Created = fromNanos(created)
		if authorName.Valid {
			c.Author = &models.User{ID: c.AuthorID, Name: authorName.String}
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
