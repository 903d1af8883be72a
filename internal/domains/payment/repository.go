package payment

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract for payments. Complete is the one
// multi-table operation in the system: it must land the payment row update
// and the booking's pending -> verified transition in a single transaction.
type Repository interface {
	Create(ctx context.Context, p *Payment) error

	FindByTxRef(ctx context.Context, txRef string) (*Payment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error)

	// Complete marks the payment completed with the gateway transaction id
	// and flips the booking pending -> verified, atomically. Returns
	// ErrBookingNotPayable when the booking lost the race (canceled or
	// already verified) and ErrDuplicateTxn when the gateway transaction id
	// was already recorded.
	Complete(ctx context.Context, paymentID, bookingID uuid.UUID, transactionID string) error

	// MarkFailed records a declined attempt.
	MarkFailed(ctx context.Context, paymentID uuid.UUID) error
}
