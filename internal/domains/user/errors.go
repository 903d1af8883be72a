package user

import "errors"

// Repository-level errors
var (
	// Not Found
	ErrUserNotFound = errors.New("user not found or inactive")

	// Conflict — enforced at the store boundary via unique constraints
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPhoneAlreadyExists = errors.New("phone number already exists")
)

// Service-level (business logic) errors
var (
	// Authentication
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotVerified    = errors.New("email address not verified")
	ErrUserInactive       = errors.New("user account is deactivated")

	// Verification tokens
	ErrInvalidToken = errors.New("invalid or expired token")

	// Password
	ErrPasswordMismatch = errors.New("old password is incorrect")
	ErrResetNotAllowed  = errors.New("password reset has not been verified")

	// Authorization
	ErrForbidden = errors.New("forbidden: insufficient permissions")

	// Profile
	ErrNothingToUpdate = errors.New("nothing to update")
)
