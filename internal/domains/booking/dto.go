package booking

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

type CreateRequest struct {
	PropertyID string `json:"property_id" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PropertyID, validation.Required, uuidRule),
		validation.Field(&r.StartDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&r.EndDate, validation.Required, validation.Date(DateLayout)),
	)
}

var uuidRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if _, err := uuid.Parse(s); err != nil {
		return validation.NewError("validation_uuid", "must be a valid UUID")
	}
	return nil
})

// BookingDTO is the public booking representation.
type BookingDTO struct {
	ID         uuid.UUID       `json:"id"`
	PropertyID uuid.UUID       `json:"property_id"`
	UserID     uuid.UUID       `json:"user_id"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (b *Booking) ToDTO() BookingDTO {
	return BookingDTO{
		ID:         b.ID,
		PropertyID: b.PropertyID,
		UserID:     b.UserID,
		StartDate:  b.StartDate.Format(DateLayout),
		EndDate:    b.EndDate.Format(DateLayout),
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
	}
}
