package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/infrastructure/email"
)

// Asynq handlers for the email tasks. Transport failures return plain errors
// so the server retries them; a malformed recipient is wrapped with
// asynq.SkipRetry because resending can never succeed.

func wrapPermanent(err error) error {
	if errors.Is(err, email.ErrInvalidRecipient) {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}

// ============================================
// Verification Email Handler
// ============================================

type VerificationEmailHandler struct {
	emailService email.EmailService
}

func NewVerificationEmailHandler(emailService email.EmailService) *VerificationEmailHandler {
	return &VerificationEmailHandler{emailService: emailService}
}

func (h *VerificationEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.VerificationEmailData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal verification email payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().Str("email", payload.Email).Msg("Processing verification email")

	if err := h.emailService.SendVerificationEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to send verification email")
		return wrapPermanent(fmt.Errorf("send verification email: %w", err))
	}

	return nil
}

// ============================================
// Email Change Handler
// ============================================

type EmailChangeHandler struct {
	emailService email.EmailService
}

func NewEmailChangeHandler(emailService email.EmailService) *EmailChangeHandler {
	return &EmailChangeHandler{emailService: emailService}
}

func (h *EmailChangeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.EmailChangeData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().Str("email", payload.Email).Msg("Processing email change confirmation")

	if err := h.emailService.SendEmailChangeEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to send email change confirmation")
		return wrapPermanent(fmt.Errorf("send email change confirmation: %w", err))
	}

	return nil
}

// ============================================
// Reset Password Email Handler
// ============================================

type ResetPasswordEmailHandler struct {
	emailService email.EmailService
}

func NewResetPasswordEmailHandler(emailService email.EmailService) *ResetPasswordEmailHandler {
	return &ResetPasswordEmailHandler{emailService: emailService}
}

func (h *ResetPasswordEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.ResetPasswordData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().Str("email", payload.Email).Msg("Processing reset password email")

	if err := h.emailService.SendResetPasswordEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to send reset password email")
		return wrapPermanent(fmt.Errorf("send reset password email: %w", err))
	}

	return nil
}

// ============================================
// Deactivation Email Handler
// ============================================

type DeactivationEmailHandler struct {
	emailService email.EmailService
}

func NewDeactivationEmailHandler(emailService email.EmailService) *DeactivationEmailHandler {
	return &DeactivationEmailHandler{emailService: emailService}
}

func (h *DeactivationEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.DeactivationData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().Str("email", payload.Email).Msg("Processing deactivation email")

	if err := h.emailService.SendDeactivationEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to send deactivation email")
		return wrapPermanent(fmt.Errorf("send deactivation email: %w", err))
	}

	return nil
}

// ============================================
// Booking Confirmation Handler
// ============================================

type BookingConfirmationHandler struct {
	emailService email.EmailService
}

func NewBookingConfirmationHandler(emailService email.EmailService) *BookingConfirmationHandler {
	return &BookingConfirmationHandler{emailService: emailService}
}

func (h *BookingConfirmationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.BookingConfirmationData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("email", payload.Email).
		Str("property", payload.PropertyName).
		Msg("Processing booking confirmation email")

	if err := h.emailService.SendBookingConfirmation(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to send booking confirmation")
		return wrapPermanent(fmt.Errorf("send booking confirmation: %w", err))
	}

	return nil
}
