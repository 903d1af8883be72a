package queue

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/shared"
)

// Scheduler registers the recurring housekeeping tasks. It only enqueues;
// the worker's ServeMux executes them.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, password string, db int) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(
			asynq.RedisClientOpt{
				Addr:     redisAddr,
				Password: password,
				DB:       db,
			},
			&asynq.SchedulerOpts{
				Location: time.UTC,
				LogLevel: asynq.InfoLevel,
			},
		),
	}
}

// RegisterJobs wires every cron entry. Currently a single job: the daily
// sweep that cancels pending bookings whose start date has passed.
func (s *Scheduler) RegisterJobs() error {
	return s.registerExpireStaleBookingsJob()
}

// Runs daily at 2 AM UTC, after the booking day has rolled over everywhere
// that matters for the [start, end) date math.
func (s *Scheduler) registerExpireStaleBookingsJob() error {
	task := asynq.NewTask(shared.TypeExpireStaleBookings, nil)

	_, err := s.scheduler.Register(
		"0 2 * * *",
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register ExpireStaleBookings job")
		return err
	}

	log.Info().Msg("Registered ExpireStaleBookings: daily at 2 AM UTC")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
