package user

import (
	"context"

	"github.com/google/uuid"

	"staybook-backend/internal/infrastructure/email"
)

// Service is the business logic contract for accounts.
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	VerifyEmail(ctx context.Context, tokenString string) error
	ResendVerification(ctx context.Context, email string) error

	// Password flows
	RequestPasswordReset(ctx context.Context, req ResetPasswordRequest) error
	VerifyPasswordReset(ctx context.Context, tokenString string) error
	SetPassword(ctx context.Context, req SetPasswordRequest) error
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error

	// Profile
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
	ConfirmEmailChange(ctx context.Context, tokenString string) error

	// Deactivation
	RequestDeactivation(ctx context.Context, userID uuid.UUID) error
	ConfirmDeactivation(ctx context.Context, tokenString string) error

	// Cache-backed reads. GetActive returns only accounts passing the
	// valid predicate; stale cached entries are evicted on read.
	GetActive(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	ListValid(ctx context.Context) ([]UserDTO, error)

	// Admin
	ListAll(ctx context.Context) ([]UserDTO, error)
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// Notifier enqueues account emails for background delivery. Satisfied by the
// queue dispatcher in production and by a recording fake in tests.
type Notifier interface {
	EnqueueVerificationEmail(data email.VerificationEmailData) error
	EnqueueEmailChangeEmail(data email.EmailChangeData) error
	EnqueueResetPasswordEmail(data email.ResetPasswordData) error
	EnqueueDeactivationEmail(data email.DeactivationData) error
}
