package property

import (
	"context"

	"github.com/google/uuid"

	"staybook-backend/internal/domains/user"
)

// Service is the business logic contract for listings.
type Service interface {
	// Host-facing
	Create(ctx context.Context, hostID uuid.UUID, req CreateRequest) (*PropertyDTO, error)
	Update(ctx context.Context, hostID, propertyID uuid.UUID, req UpdateRequest) (*PropertyDTO, error)
	Delete(ctx context.Context, hostID, propertyID uuid.UUID) error
	SetAvailability(ctx context.Context, hostID, propertyID uuid.UUID, available bool) error
	ListMine(ctx context.Context, hostID uuid.UUID) ([]PropertyDTO, error)

	// Cache-backed reads (verified + available only)
	GetEligible(ctx context.Context, propertyID uuid.UUID) (*PropertyDTO, error)
	ListEligible(ctx context.Context) ([]PropertyDTO, error)

	// Admin
	ListUnverified(ctx context.Context) ([]PropertyDTO, error)
	Verify(ctx context.Context, propertyID uuid.UUID) error
}

// HostFinder resolves the caller's live account for the host-role gate.
// Satisfied by the user service: the lookup goes through the user cache,
// which host approval invalidates, so a promotion is visible to sessions
// opened before it without a fresh login.
type HostFinder interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error)
}
