package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/infrastructure/email"
	"staybook-backend/internal/shared"
)

// Dispatcher enqueues background work to the durable queue. The HTTP response
// is never blocked on SMTP latency: handlers enqueue and move on, and a
// delivery failure never rolls back the state change that triggered it.
type Dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(redisAddr, password string, db int) *Dispatcher {
	return &Dispatcher{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		}),
	}
}

// Each email task is retried up to 3 times on transport failure; the retry
// delay is fixed at 60s by the worker's RetryDelayFunc.
const emailMaxRetry = 3

func (d *Dispatcher) enqueue(taskType string, payload interface{}, queue string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	task := asynq.NewTask(taskType, data)
	info, err := d.client.Enqueue(task, asynq.Queue(queue), asynq.MaxRetry(emailMaxRetry))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	log.Info().
		Str("task", taskType).
		Str("queue", queue).
		Str("task_id", info.ID).
		Msg("Task enqueued")
	return nil
}

func (d *Dispatcher) EnqueueVerificationEmail(data email.VerificationEmailData) error {
	return d.enqueue(shared.TypeSendVerificationEmail, data, shared.QueueHigh)
}

func (d *Dispatcher) EnqueueEmailChangeEmail(data email.EmailChangeData) error {
	return d.enqueue(shared.TypeSendEmailChangeEmail, data, shared.QueueHigh)
}

func (d *Dispatcher) EnqueueResetPasswordEmail(data email.ResetPasswordData) error {
	return d.enqueue(shared.TypeSendResetPasswordEmail, data, shared.QueueHigh)
}

func (d *Dispatcher) EnqueueDeactivationEmail(data email.DeactivationData) error {
	return d.enqueue(shared.TypeSendDeactivationEmail, data, shared.QueueHigh)
}

func (d *Dispatcher) EnqueueBookingConfirmation(data email.BookingConfirmationData) error {
	return d.enqueue(shared.TypeSendBookingConfirmation, data, shared.QueueDefault)
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
