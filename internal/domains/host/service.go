package host

import (
	"context"

	"github.com/google/uuid"

	"staybook-backend/internal/domains/user"
)

// Service is the business logic contract for host profiles.
type Service interface {
	// Application lifecycle
	Apply(ctx context.Context, userID uuid.UUID, req ApplyRequest) (*HostDTO, error)
	GetMyProfile(ctx context.Context, userID uuid.UUID) (*HostDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*HostDTO, error)
	UploadProfilePhoto(ctx context.Context, userID uuid.UUID, contentType string, photo []byte) (string, error)

	// Cache-backed reads (verified hosts only)
	GetVerified(ctx context.Context, userID uuid.UUID) (*HostDTO, error)
	ListVerified(ctx context.Context) ([]HostDTO, error)

	// Admin review
	ListPending(ctx context.Context) ([]HostDTO, error)
	Review(ctx context.Context, hostID uuid.UUID, req ReviewRequest) error
}

// PhotoStore is the object storage used for profile photos.
type PhotoStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RoleUpdater promotes a user account when its host application is approved.
// Satisfied by the user repository.
type RoleUpdater interface {
	UpdateRole(ctx context.Context, id uuid.UUID, role user.Role) error
}
