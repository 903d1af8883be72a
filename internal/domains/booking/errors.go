package booking

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")

	ErrInvalidDates   = errors.New("start date must be strictly before end date")
	ErrDatesInPast    = errors.New("booking dates must be in the future")
	ErrOwnProperty    = errors.New("hosts cannot book their own property")
	ErrDatesTaken     = errors.New("property is already booked for these dates")
	ErrNotPending     = errors.New("booking is not in pending status")
	ErrNotBookingUser = errors.New("booking belongs to another user")
)
