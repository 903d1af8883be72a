package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the data access contract for bookings.
type Repository interface {
	Create(ctx context.Context, b *Booking) error

	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)

	// ListByProperty lists bookings for one listing (host calendar view).
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]Booking, error)

	// HasOverlap reports whether any pending or verified booking of the
	// property intersects the half-open range [start, end).
	HasOverlap(ctx context.Context, propertyID uuid.UUID, start, end time.Time) (bool, error)

	// UpdateStatusIf is the compare-and-set transition: the status moves
	// from -> to only if the row is still in from. Returns false when the
	// guard failed (row gone or already transitioned).
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)

	// ExpireStale cancels every pending booking whose start date is before
	// the cutoff. Returns the number of rows swept.
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
}
