package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking is a stay request for a property. It is born pending, becomes
// verified when its payment lands, or canceled by the guest (or the stale
// sweep). verified and canceled are both terminal.
type Booking struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PropertyID uuid.UUID `db:"property_id" json:"property_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`

	// Dates are half-open: the guest checks in on StartDate and out on
	// EndDate, so EndDate is not an occupied night.
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`

	// TotalPrice is snapshotted at creation from the listing's nightly
	// rate; later price changes never touch existing bookings.
	TotalPrice decimal.Decimal `db:"total_price" json:"total_price"`

	Status Status `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusCanceled Status = "canceled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusCanceled:
		return true
	}
	return false
}

// Nights returns the number of billable nights.
func (b *Booking) Nights() int {
	return int(b.EndDate.Sub(b.StartDate).Hours() / 24)
}
