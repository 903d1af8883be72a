package property

import "errors"

var (
	ErrPropertyNotFound = errors.New("property not found or unavailable")

	ErrNotHost         = errors.New("host role required to manage listings")
	ErrNotOwner        = errors.New("property is owned by another host")
	ErrAlreadyVerified = errors.New("property is already verified")
	ErrHasBookings     = errors.New("property has active bookings")
)
