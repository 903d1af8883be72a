package property

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Location      string          `json:"location" binding:"required"`
	PricePerNight decimal.Decimal `json:"price_per_night" binding:"required"`
	MaxGuests     int             `json:"max_guests" binding:"required"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 120)),
		validation.Field(&r.Description, validation.Required, validation.Length(10, 5000)),
		validation.Field(&r.Location, validation.Required, validation.Length(3, 255)),
		validation.Field(&r.PricePerNight, validation.Required, validation.By(positivePrice)),
		validation.Field(&r.MaxGuests, validation.Required, validation.Min(1), validation.Max(50)),
	)
}

type UpdateRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Location      string          `json:"location" binding:"required"`
	PricePerNight decimal.Decimal `json:"price_per_night" binding:"required"`
	MaxGuests     int             `json:"max_guests" binding:"required"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 120)),
		validation.Field(&r.Description, validation.Required, validation.Length(10, 5000)),
		validation.Field(&r.Location, validation.Required, validation.Length(3, 255)),
		validation.Field(&r.PricePerNight, validation.Required, validation.By(positivePrice)),
		validation.Field(&r.MaxGuests, validation.Required, validation.Min(1), validation.Max(50)),
	)
}

func positivePrice(value interface{}) error {
	price, ok := value.(decimal.Decimal)
	if !ok || price.LessThanOrEqual(decimal.Zero) {
		return validation.NewError("validation_price", "price per night must be positive")
	}
	return nil
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// PropertyDTO is the public listing representation.
type PropertyDTO struct {
	ID            uuid.UUID       `json:"id"`
	HostID        uuid.UUID       `json:"host_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	MaxGuests     int             `json:"max_guests"`
	Verified      bool            `json:"verified"`
	Available     bool            `json:"available"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (p *Property) ToDTO() PropertyDTO {
	return PropertyDTO{
		ID:            p.ID,
		HostID:        p.HostID,
		Name:          p.Name,
		Description:   p.Description,
		Location:      p.Location,
		PricePerNight: p.PricePerNight,
		MaxGuests:     p.MaxGuests,
		Verified:      p.Verified,
		Available:     p.Available,
		CreatedAt:     p.CreatedAt,
	}
}
