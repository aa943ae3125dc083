package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

const requestColumns = `id, description, requester_id, created`

func (db *DB) CreateRequest(ctx context.Context, req *models.ItemRequest) error {
	if req.Created.IsZero() {
		req.Created = time.Now()
	}
	query := `INSERT INTO item_requests (description, requester_id, created) VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query, req.Description, req.RequesterID, toNanos(req.Created))
	if err != nil {
		return fmt.Errorf("failed to create item request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	req.ID = id
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var (
		req     models.ItemRequest
		created int64
	)
	query := `SELECT ` + requestColumns + ` FROM item_requests WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(&req.ID, &req.Description, &req.RequesterID, &created)
	if err != nil {
		return nil, notFoundOr(err, "failed to get item request: %w")
	}
	req.Created = fromNanos(created)
	return &req, nil
}

func (db *DB) GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM item_requests WHERE requester_id = ? ORDER BY created DESC, id DESC`
	return db.queryRequests(ctx, query, requesterID)
}

func (db *DB) GetRequestsExcept(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM item_requests WHERE requester_id != ? ORDER BY created DESC, id DESC`
	return db.queryRequests(ctx, query, requesterID)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...any) ([]*models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query item requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.ItemRequest
	for rows.Next() {
		var (
			req     models.ItemRequest
			created int64
		)
		if err := rows.Scan(&req.ID, &req.Description, &req.RequesterID, &created); err != nil {
			return nil, fmt.Errorf("failed to scan item request: %w", err)
		}
		req.Created = fromNanos(created)
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}
