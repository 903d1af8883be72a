package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/booking"
	"staybook-backend/internal/domains/payment"
	"staybook-backend/internal/infrastructure/email"
)

// paymentService implements payment.Service. The critical invariant is that
// a booking flips to verified exactly once, carried by Repository.Complete's
// transaction plus the unique gateway transaction id.
type paymentService struct {
	repo       payment.Repository
	gateway    payment.Gateway
	bookings   payment.BookingLookup
	properties payment.PropertyLookup
	guests     payment.GuestLookup
	notifier   payment.ConfirmationNotifier
	currency   string
}

func NewPaymentService(
	repo payment.Repository,
	gateway payment.Gateway,
	bookings payment.BookingLookup,
	properties payment.PropertyLookup,
	guests payment.GuestLookup,
	notifier payment.ConfirmationNotifier,
	currency string,
) payment.Service {
	return &paymentService{
		repo:       repo,
		gateway:    gateway,
		bookings:   bookings,
		properties: properties,
		guests:     guests,
		notifier:   notifier,
		currency:   currency,
	}
}

func (s *paymentService) Initiate(ctx context.Context, userID uuid.UUID, req payment.InitiateRequest) (*payment.InitiateResponse, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, booking.ErrBookingNotFound
	}

	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, booking.ErrNotBookingUser
	}
	if b.Status != booking.StatusPending {
		return nil, payment.ErrBookingNotPayable
	}

	// An open checkout is reused; the guest gets the same URL back instead
	// of a second live charge.
	existing, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil && !errors.Is(err, payment.ErrPaymentNotFound) {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case payment.StatusPending:
			return initiateResponse(existing), nil
		case payment.StatusCompleted:
			return nil, payment.ErrAlreadyCompleted
		}
		// failed: fall through and open a fresh attempt
	}

	guest, err := s.guests.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	txRef, err := payment.GenerateTxRef(bookingID)
	if err != nil {
		return nil, err
	}

	checkoutURL, err := s.gateway.Initialize(ctx, payment.GatewayRequest{
		TxRef:     txRef,
		Amount:    b.TotalPrice,
		Currency:  s.currency,
		Email:     guest.Email,
		FirstName: guest.FirstName,
		LastName:  guest.LastName,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &payment.Payment{
		ID:          uuid.New(),
		BookingID:   bookingID,
		Amount:      b.TotalPrice,
		Currency:    s.currency,
		TxRef:       txRef,
		Status:      payment.StatusPending,
		CheckoutURL: checkoutURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", bookingID.String()).
		Str("tx_ref", txRef).
		Str("amount", b.TotalPrice.String()).
		Msg("Payment initiated")

	return initiateResponse(p), nil
}

func (s *paymentService) Confirm(ctx context.Context, txRef string) (*payment.PaymentDTO, error) {
	p, err := s.repo.FindByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if p.Status == payment.StatusCompleted {
		return nil, payment.ErrAlreadyCompleted
	}

	result, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		if err := s.repo.MarkFailed(ctx, p.ID); err != nil {
			log.Error().Err(err).Str("tx_ref", txRef).Msg("Failed to record declined payment")
		}
		return nil, payment.ErrGatewayDeclined
	}

	// Payment row and booking status land together or not at all.
	if err := s.repo.Complete(ctx, p.ID, p.BookingID, result.TransactionID); err != nil {
		return nil, err
	}

	p.Status = payment.StatusCompleted
	p.TransactionID = &result.TransactionID

	log.Info().
		Str("tx_ref", txRef).
		Str("transaction_id", result.TransactionID).
		Str("booking_id", p.BookingID.String()).
		Msg("Payment completed, booking verified")

	s.sendConfirmation(ctx, p)

	dto := p.ToDTO()
	return &dto, nil
}

func (s *paymentService) GetByBooking(ctx context.Context, userID, bookingID uuid.UUID) (*payment.PaymentDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, booking.ErrNotBookingUser
	}

	p, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	dto := p.ToDTO()
	return &dto, nil
}

// sendConfirmation enqueues the booking confirmation email. Delivery is best
// effort; a queue hiccup never unwinds a settled payment.
func (s *paymentService) sendConfirmation(ctx context.Context, p *payment.Payment) {
	b, err := s.bookings.FindByID(ctx, p.BookingID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load booking for confirmation email")
		return
	}

	guest, err := s.guests.GetActive(ctx, b.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load guest for confirmation email")
		return
	}

	prop, err := s.properties.FindByID(ctx, b.PropertyID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load property for confirmation email")
		return
	}

	if err := s.notifier.EnqueueBookingConfirmation(email.BookingConfirmationData{
		Name:         guest.FirstName + " " + guest.LastName,
		Email:        guest.Email,
		PropertyName: prop.Name,
		StartDate:    b.StartDate.Format(booking.DateLayout),
		EndDate:      b.EndDate.Format(booking.DateLayout),
		TotalPrice:   fmt.Sprintf("%s %s", b.TotalPrice.StringFixed(2), p.Currency),
	}); err != nil {
		log.Error().Err(err).Msg("Failed to enqueue booking confirmation")
	}
}

func initiateResponse(p *payment.Payment) *payment.InitiateResponse {
	return &payment.InitiateResponse{
		PaymentID:   p.ID,
		TxRef:       p.TxRef,
		Amount:      p.Amount,
		Currency:    p.Currency,
		CheckoutURL: p.CheckoutURL,
	}
}
