package payment

import (
	"context"

	"github.com/google/uuid"

	"staybook-backend/internal/domains/booking"
	"staybook-backend/internal/domains/property"
	"staybook-backend/internal/domains/user"
	"staybook-backend/internal/infrastructure/email"
)

// Service is the business logic contract for payments.
type Service interface {
	// Initiate opens a gateway checkout for a pending booking owned by the
	// caller. One live payment per booking: repeat calls while pending
	// return the existing checkout.
	Initiate(ctx context.Context, userID uuid.UUID, req InitiateRequest) (*InitiateResponse, error)

	// Confirm settles a reference after the gateway callback: verify the
	// charge, complete the payment, and verify the booking, atomically.
	// Replays of an already-settled reference are rejected.
	Confirm(ctx context.Context, txRef string) (*PaymentDTO, error)

	// GetByBooking returns the payment attached to the caller's booking.
	GetByBooking(ctx context.Context, userID, bookingID uuid.UUID) (*PaymentDTO, error)
}

// ConfirmationNotifier enqueues the booking confirmation email once the
// payment settles. Satisfied by the queue dispatcher.
type ConfirmationNotifier interface {
	EnqueueBookingConfirmation(data email.BookingConfirmationData) error
}

// BookingLookup resolves bookings for payment checks. Satisfied by the
// booking repository.
type BookingLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
}

// PropertyLookup resolves listings for the confirmation email, regardless of
// their current availability. Satisfied by the property repository.
type PropertyLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

// GuestLookup resolves the paying guest. Satisfied by the user service
// (cache-backed, valid accounts only).
type GuestLookup interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error)
}
