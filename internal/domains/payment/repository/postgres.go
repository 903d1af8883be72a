package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"staybook-backend/internal/domains/payment"
	"staybook-backend/pkg/database"
)

const paymentColumns = `id, booking_id, amount, currency, tx_ref,
	transaction_id, status, checkout_url, created_at, updated_at`

type postgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) payment.Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, currency, tx_ref,
			transaction_id, status, checkout_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.BookingID, p.Amount, p.Currency, p.TxRef,
		p.TransactionID, p.Status, p.CheckoutURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *postgresRepo) FindByTxRef(ctx context.Context, txRef string) (*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tx_ref = $1`
	return scanOne(r.db.QueryRow(ctx, query, txRef))
}

// FindByBookingID returns the most recent attempt for the booking.
func (r *postgresRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanOne(r.db.QueryRow(ctx, query, bookingID))
}

// Complete settles the payment and verifies the booking in one transaction.
// The booking update is a compare-and-set on pending status: zero rows means
// the booking was canceled or already verified, and the whole transaction
// rolls back. The unique transaction_id constraint rejects a replayed
// gateway reference the same way.
func (r *postgresRepo) Complete(ctx context.Context, paymentID, bookingID uuid.UUID, transactionID string) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE payments
			SET status = 'completed', transaction_id = $2, updated_at = NOW()
			WHERE id = $1 AND status <> 'completed'
		`, paymentID, transactionID)
		if err != nil {
			return mapUniqueViolation(err)
		}
		if tag.RowsAffected() == 0 {
			return payment.ErrAlreadyCompleted
		}

		tag, err = tx.Exec(ctx, `
			UPDATE bookings
			SET status = 'verified', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
		`, bookingID)
		if err != nil {
			return fmt.Errorf("verify booking: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return payment.ErrBookingNotPayable
		}

		return nil
	})
}

func (r *postgresRepo) MarkFailed(ctx context.Context, paymentID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments
		SET status = 'failed', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, paymentID)
	if err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrPaymentNotFound
	}
	return nil
}

func scanOne(row pgx.Row) (*payment.Payment, error) {
	p := &payment.Payment{}
	err := row.Scan(
		&p.ID, &p.BookingID, &p.Amount, &p.Currency, &p.TxRef,
		&p.TransactionID, &p.Status, &p.CheckoutURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, payment.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return p, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "transaction_id") {
			return payment.ErrDuplicateTxn
		}
	}
	return fmt.Errorf("write payment: %w", err)
}
