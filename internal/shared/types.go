package shared

// Asynq task types. Name format: "<domain>:<action>".
const (
	TypeSendVerificationEmail   = "email:verification"
	TypeSendEmailChangeEmail    = "email:email_change"
	TypeSendResetPasswordEmail  = "email:reset_password"
	TypeSendDeactivationEmail   = "email:deactivation"
	TypeSendBookingConfirmation = "email:booking_confirmation"

	TypeExpireStaleBookings = "booking:expire_stale"
)

// Queue names with their worker priorities.
const (
	QueueHigh    = "high"    // verification links (short-lived tokens)
	QueueDefault = "default" // confirmations, password resets
	QueueLow     = "low"     // housekeeping
)
