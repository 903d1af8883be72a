package property

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract for listings. Plain SQL; caching
// lives in the service layer.
type Repository interface {
	Create(ctx context.Context, p *Property) error

	// FindByID returns the row regardless of verified/available state.
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)

	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id uuid.UUID) error

	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// ListEligible returns every verified, available listing (snapshot).
	ListEligible(ctx context.Context) ([]Property, error)

	// ListByHost returns the host's own listings, any state.
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]Property, error)

	// ListUnverified returns the admin review queue.
	ListUnverified(ctx context.Context) ([]Property, error)
}
