package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

// bookingSelect joins the booked item and the booker so reads come back hydrated.
const bookingSelect = `SELECT b.id, b.item_id, b.booker_id, b.start_at, b.end_at, b.status, b.version,
       b.created_at, b.updated_at,
       i.id, i.owner_id, i.name, i.description, i.available, i.request_id, i.created_at, i.updated_at,
       u.id, u.name, u.email, u.created_at, u.updated_at
FROM bookings b
LEFT JOIN items i ON i.id = b.item_id
LEFT JOIN users u ON u.id = b.booker_id`

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b          models.Booking
		start, end int64
		status     string

		itemID, ownerID, requestID sql.NullInt64
		itemName, itemDesc         sql.NullString
		itemAvailable              sql.NullBool
		itemCreated, itemUpdated   sql.NullTime
		userID                     sql.NullInt64
		userName, userEmail        sql.NullString
		userCreated, userUpdated   sql.NullTime
	)
	err := row.Scan(
		&b.ID, &b.ItemID, &b.BookerID, &start, &end, &status, &b.Version, &b.CreatedAt, &b.UpdatedAt,
		&itemID, &ownerID, &itemName, &itemDesc, &itemAvailable, &requestID, &itemCreated, &itemUpdated,
		&userID, &userName, &userEmail, &userCreated, &userUpdated,
	)
	if err != nil {
		return nil, err
	}

	b.Start = fromNanos(start)
	b.End = fromNanos(end)
	b.Status = models.BookingStatus(status)

	if itemID.Valid {
		b.Item = &models.Item{
			ID:          itemID.Int64,
			OwnerID:     ownerID.Int64,
			Name:        itemName.String,
			Description: itemDesc.String,
			Available:   itemAvailable.Bool,
			CreatedAt:   itemCreated.Time,
			UpdatedAt:   itemUpdated.Time,
		}
		if requestID.Valid {
			id := requestID.Int64
			b.Item.RequestID = &id
		}
	}
	if userID.Valid {
		b.Booker = &models.User{
			ID:        userID.Int64,
			Name:      userName.String,
			Email:     userEmail.String,
			CreatedAt: userCreated.Time,
			UpdatedAt: userUpdated.Time,
		}
	}
	return &b, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_at, end_at, status, version, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		toNanos(booking.Start),
		toNanos(booking.End),
		string(booking.Status),
		1,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if err != nil {
		return nil, notFoundOr(err, "failed to get booking: %w")
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, from, to models.BookingStatus) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, string(to), time.Now(), id, string(from))
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var exists int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check booking: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return ErrConcurrentModification
}

func (db *DB) FindBookings(ctx context.Context, q models.BookingQuery) ([]*models.Booking, error) {
	where, args := bookingWhere(q)
	query := bookingSelect
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY b.start_at DESC, b.id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// bookingWhere translates q into the same predicate models.BookingQuery.Matches applies.
func bookingWhere(q models.BookingQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}

	if q.BookerID != 0 {
		add("b.booker_id = ?", q.BookerID)
	}
	if q.OwnerID != 0 {
		add("i.owner_id = ?", q.OwnerID)
	}
	if q.ItemID != 0 {
		add("b.item_id = ?", q.ItemID)
	}
	if q.Status != "" {
		add("b.status = ?", string(q.Status))
	}
	if !q.StartNotAfter.IsZero() {
		add("b.start_at <= ?", toNanos(q.StartNotAfter))
	}
	if !q.StartAfter.IsZero() {
		add("b.start_at > ?", toNanos(q.StartAfter))
	}
	if !q.EndNotBefore.IsZero() {
		add("b.end_at >= ?", toNanos(q.EndNotBefore))
	}
	if !q.EndBefore.IsZero() {
		add("b.end_at < ?", toNanos(q.EndBefore))
	}

	return strings.Join(conds, " AND "), args
}
