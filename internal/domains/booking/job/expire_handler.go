package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/booking"
)

// ExpireStaleHandler runs the scheduled sweep that cancels pending bookings
// whose start date has already passed.
type ExpireStaleHandler struct {
	bookings booking.Service
}

func NewExpireStaleHandler(bookings booking.Service) *ExpireStaleHandler {
	return &ExpireStaleHandler{bookings: bookings}
}

func (h *ExpireStaleHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	swept, err := h.bookings.ExpireStale(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Stale booking sweep failed")
		return err
	}

	log.Info().Int64("canceled", swept).Msg("Stale booking sweep finished")
	return nil
}
