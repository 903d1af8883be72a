package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staybook-backend/internal/domains/booking"
)

const bookingColumns = `id, property_id, user_id, start_date, end_date,
	total_price, status, created_at, updated_at`

type postgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) booking.Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Create(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (id, property_id, user_id, start_date, end_date,
			total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.PropertyID, b.UserID, b.StartDate, b.EndDate,
		b.TotalPrice, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b := &booking.Booking{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.PropertyID, &b.UserID, &b.StartDate, &b.EndDate,
		&b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, booking.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return b, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *postgresRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE property_id = $1 ORDER BY start_date`
	return r.list(ctx, query, propertyID)
}

// HasOverlap uses the half-open intersection test: two ranges clash when
// each starts before the other ends. Canceled bookings free their dates.
func (r *postgresRepo) HasOverlap(ctx context.Context, propertyID uuid.UUID, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE property_id = $1
			  AND status IN ('pending', 'verified')
			  AND start_date < $3
			  AND end_date > $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, propertyID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}
	return exists, nil
}

func (r *postgresRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to booking.Status) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	tag, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepo) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'canceled', updated_at = NOW()
		WHERE status = 'pending' AND start_date < $1
	`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire stale bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepo) list(ctx context.Context, query string, args ...interface{}) ([]booking.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []booking.Booking
	for rows.Next() {
		var b booking.Booking
		if err := rows.Scan(
			&b.ID, &b.PropertyID, &b.UserID, &b.StartDate, &b.EndDate,
			&b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
