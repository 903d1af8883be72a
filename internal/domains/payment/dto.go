package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InitiateRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

// InitiateResponse hands the guest the gateway checkout URL.
type InitiateResponse struct {
	PaymentID   uuid.UUID       `json:"payment_id"`
	TxRef       string          `json:"tx_ref"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CheckoutURL string          `json:"checkout_url"`
}

// PaymentDTO is the public payment representation.
type PaymentDTO struct {
	ID            uuid.UUID       `json:"id"`
	BookingID     uuid.UUID       `json:"booking_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	TxRef         string          `json:"tx_ref"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (p *Payment) ToDTO() PaymentDTO {
	return PaymentDTO{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		TxRef:         p.TxRef,
		TransactionID: p.TransactionID,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
	}
}
