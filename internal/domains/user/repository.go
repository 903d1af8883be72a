package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data access contract. Implementations are plain SQL:
// cache reads and invalidation are driven explicitly from the service layer
// after each committed write, never from hooks inside the repository.
type Repository interface {
	// Create persists a new user.
	// Returns ErrEmailAlreadyExists / ErrPhoneAlreadyExists on conflicts.
	Create(ctx context.Context, u *User) error

	// FindByID returns the row regardless of active/verified state.
	// Returns ErrUserNotFound when no row exists.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail looks up by canonical email (login path).
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update rewrites the mutable profile columns.
	Update(ctx context.Context, u *User) error

	// Delete removes the row permanently (admin only).
	Delete(ctx context.Context, id uuid.UUID) error

	// ListActiveVerified returns every row passing the valid predicate
	// (active AND verified). Used to rebuild the aggregate snapshot.
	ListActiveVerified(ctx context.Context) ([]User, error)

	// ListAll returns every row, regardless of state (admin listing).
	ListAll(ctx context.Context) ([]User, error)

	// MarkVerified flips verified=true.
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// SetActive activates/deactivates the account.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// UpdateRole changes the role (guest -> host on host verification).
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error

	// UpdatePassword stores a new hash and clears the reset flag.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// SetResetPassword flips the reset_password flag.
	SetResetPassword(ctx context.Context, id uuid.UUID, allowed bool) error

	// ConfirmPendingEmail promotes pending_email to email and clears it.
	ConfirmPendingEmail(ctx context.Context, id uuid.UUID) error
}
