package host

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract for host profiles. Plain SQL;
// caching lives in the service layer.
type Repository interface {
	// Create persists a new application in pending status.
	// Returns ErrAlreadyApplied / ErrSocialLinkTaken on conflicts.
	Create(ctx context.Context, h *Host) error

	// FindByID returns the row regardless of verification status.
	FindByID(ctx context.Context, id uuid.UUID) (*Host, error)

	// FindByUserID returns the profile owned by the user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Host, error)

	// Update rewrites the mutable profile columns.
	Update(ctx context.Context, h *Host) error

	// UpdatePhotoURL stores the object storage URL.
	UpdatePhotoURL(ctx context.Context, id uuid.UUID, url string) error

	// SetStatus records the review outcome.
	SetStatus(ctx context.Context, id uuid.UUID, status VerificationStatus) error

	// ListVerified returns every verified profile (aggregate snapshot).
	ListVerified(ctx context.Context) ([]Host, error)

	// ListByStatus returns profiles in the given status (admin review queue).
	ListByStatus(ctx context.Context, status VerificationStatus) ([]Host, error)
}
