package main

import (
	"github.com/hibiken/asynq"

	bookingJob "staybook-backend/internal/domains/booking/job"
	"staybook-backend/internal/infrastructure/email"
	emailjob "staybook-backend/internal/infrastructure/email/job"
	"staybook-backend/internal/shared"
	"staybook-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Email handlers
	verification        *emailjob.VerificationEmailHandler
	emailChange         *emailjob.EmailChangeHandler
	resetPassword       *emailjob.ResetPasswordEmailHandler
	deactivation        *emailjob.DeactivationEmailHandler
	bookingConfirmation *emailjob.BookingConfirmationHandler

	// Maintenance handlers
	expireStale *bookingJob.ExpireStaleHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(c.Config.SMTP)

	return &HandlerRegistry{
		verification:        emailjob.NewVerificationEmailHandler(emailSvc),
		emailChange:         emailjob.NewEmailChangeHandler(emailSvc),
		resetPassword:       emailjob.NewResetPasswordEmailHandler(emailSvc),
		deactivation:        emailjob.NewDeactivationEmailHandler(emailSvc),
		bookingConfirmation: emailjob.NewBookingConfirmationHandler(emailSvc),

		expireStale: bookingJob.NewExpireStaleHandler(c.BookingService),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email tasks
	mux.HandleFunc(shared.TypeSendVerificationEmail, h.verification.ProcessTask)
	mux.HandleFunc(shared.TypeSendEmailChangeEmail, h.emailChange.ProcessTask)
	mux.HandleFunc(shared.TypeSendResetPasswordEmail, h.resetPassword.ProcessTask)
	mux.HandleFunc(shared.TypeSendDeactivationEmail, h.deactivation.ProcessTask)
	mux.HandleFunc(shared.TypeSendBookingConfirmation, h.bookingConfirmation.ProcessTask)

	// Maintenance tasks
	mux.HandleFunc(shared.TypeExpireStaleBookings, h.expireStale.ProcessTask)
}
