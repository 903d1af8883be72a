package payment

import "errors"

var (
	ErrPaymentNotFound = errors.New("payment not found")

	ErrBookingNotPayable  = errors.New("booking is not awaiting payment")
	ErrAlreadyCompleted   = errors.New("payment has already been completed")
	ErrDuplicateTxn       = errors.New("gateway transaction already recorded")
	ErrGatewayDeclined    = errors.New("payment was not successful at the gateway")
	ErrGatewayUnavailable = errors.New("payment gateway is unavailable")
)
