package booking

import (
	"context"

	"github.com/google/uuid"

	"staybook-backend/internal/domains/property"
	"staybook-backend/internal/domains/user"
)

// Service is the business logic contract for bookings.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*BookingDTO, error)
	Cancel(ctx context.Context, userID, bookingID uuid.UUID) error
	Get(ctx context.Context, userID, bookingID uuid.UUID) (*BookingDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error)
	ListForProperty(ctx context.Context, hostID, propertyID uuid.UUID) ([]BookingDTO, error)

	// ExpireStale is the daily sweep: pending bookings whose start date has
	// passed without payment are canceled.
	ExpireStale(ctx context.Context) (int64, error)
}

// PropertyFinder resolves bookable listings. Satisfied by the property
// service (cache-backed, eligible listings only).
type PropertyFinder interface {
	GetEligible(ctx context.Context, propertyID uuid.UUID) (*property.PropertyDTO, error)
}

// UserFinder resolves valid guest accounts. Satisfied by the user service.
type UserFinder interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error)
}
