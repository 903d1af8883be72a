package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Property is a rental listing owned by a host account. New listings start
// unverified and invisible; an admin check flips them live.
type Property struct {
	ID uuid.UUID `db:"id" json:"id"`

	// HostID is the owning user account (host role).
	HostID uuid.UUID `db:"host_id" json:"host_id"`

	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Location    string `db:"location" json:"location"`

	// PricePerNight is exact decimal money, never float.
	PricePerNight decimal.Decimal `db:"price_per_night" json:"price_per_night"`

	MaxGuests int `db:"max_guests" json:"max_guests"`

	Verified  bool `db:"verified" json:"verified"`
	Available bool `db:"available" json:"available"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsEligible is the valid predicate for listings: verified by an admin and
// currently open for bookings.
func (p *Property) IsEligible() bool {
	return p.Verified && p.Available
}
