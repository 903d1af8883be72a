package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is one charge attempt against a booking. TxRef is our reference
// handed to the gateway at initialization; TransactionID is the gateway's
// reference captured on completion and unique across all payments, which
// makes replayed confirmations harmless.
type Payment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	BookingID uuid.UUID `db:"booking_id" json:"booking_id"`

	Amount   decimal.Decimal `db:"amount" json:"amount"`
	Currency string          `db:"currency" json:"currency"`

	TxRef         string  `db:"tx_ref" json:"tx_ref"`
	TransactionID *string `db:"transaction_id" json:"transaction_id,omitempty"`

	Status Status `db:"status" json:"status"`

	CheckoutURL string `db:"checkout_url" json:"checkout_url,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}
