package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook-backend/internal/domains/booking"
	"staybook-backend/internal/domains/payment"
	"staybook-backend/internal/domains/property"
	"staybook-backend/internal/domains/user"
	"staybook-backend/internal/infrastructure/email"
)

// ========================================
// FAKES
// ========================================

// fakePaymentRepo mirrors the transactional semantics of the SQL
// implementation: Complete settles the payment and flips the booking
// pending -> verified as one step.
type fakePaymentRepo struct {
	payments map[uuid.UUID]*payment.Payment
	bookings map[uuid.UUID]*booking.Booking
	seenTxn  map[string]bool
}

func newFakePaymentRepo(bookings map[uuid.UUID]*booking.Booking) *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: make(map[uuid.UUID]*payment.Payment),
		bookings: bookings,
		seenTxn:  make(map[string]bool),
	}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	clone := *p
	r.payments[p.ID] = &clone
	return nil
}

func (r *fakePaymentRepo) FindByTxRef(_ context.Context, txRef string) (*payment.Payment, error) {
	for _, p := range r.payments {
		if p.TxRef == txRef {
			clone := *p
			return &clone, nil
		}
	}
	return nil, payment.ErrPaymentNotFound
}

func (r *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	var latest *payment.Payment
	for _, p := range r.payments {
		if p.BookingID != bookingID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, payment.ErrPaymentNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *fakePaymentRepo) Complete(_ context.Context, paymentID, bookingID uuid.UUID, transactionID string) error {
	if r.seenTxn[transactionID] {
		return payment.ErrDuplicateTxn
	}

	p, ok := r.payments[paymentID]
	if !ok || p.Status == payment.StatusCompleted {
		return payment.ErrAlreadyCompleted
	}

	b, ok := r.bookings[bookingID]
	if !ok || b.Status != booking.StatusPending {
		return payment.ErrBookingNotPayable
	}

	p.Status = payment.StatusCompleted
	p.TransactionID = &transactionID
	b.Status = booking.StatusVerified
	r.seenTxn[transactionID] = true
	return nil
}

func (r *fakePaymentRepo) MarkFailed(_ context.Context, paymentID uuid.UUID) error {
	p, ok := r.payments[paymentID]
	if !ok {
		return payment.ErrPaymentNotFound
	}
	if p.Status == payment.StatusPending {
		p.Status = payment.StatusFailed
	}
	return nil
}

type fakeBookingLookup struct {
	bookings map[uuid.UUID]*booking.Booking
}

func (f *fakeBookingLookup) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

type fakePropertyLookup struct {
	properties map[uuid.UUID]*property.Property
}

func (f *fakePropertyLookup) FindByID(_ context.Context, id uuid.UUID) (*property.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, property.ErrPropertyNotFound
	}
	return p, nil
}

type fakeGuestLookup struct {
	users map[uuid.UUID]*user.UserDTO
}

func (f *fakeGuestLookup) GetActive(_ context.Context, id uuid.UUID) (*user.UserDTO, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

type fakeGateway struct {
	initCalls     int
	verifyResult  *payment.GatewayResult
	verifyErr     error
	initializeErr error
}

func (g *fakeGateway) Initialize(_ context.Context, req payment.GatewayRequest) (string, error) {
	g.initCalls++
	if g.initializeErr != nil {
		return "", g.initializeErr
	}
	return "https://checkout.example.com/" + req.TxRef, nil
}

func (g *fakeGateway) Verify(_ context.Context, _ string) (*payment.GatewayResult, error) {
	return g.verifyResult, g.verifyErr
}

type fakeConfirmationNotifier struct {
	confirmations []email.BookingConfirmationData
}

func (n *fakeConfirmationNotifier) EnqueueBookingConfirmation(d email.BookingConfirmationData) error {
	n.confirmations = append(n.confirmations, d)
	return nil
}

// ========================================
// SETUP
// ========================================

type fixture struct {
	svc      payment.Service
	repo     *fakePaymentRepo
	gateway  *fakeGateway
	notifier *fakeConfirmationNotifier

	guestID    uuid.UUID
	bookingID  uuid.UUID
	propertyID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		guestID:    uuid.New(),
		bookingID:  uuid.New(),
		propertyID: uuid.New(),
		gateway:    &fakeGateway{},
		notifier:   &fakeConfirmationNotifier{},
	}

	bookings := map[uuid.UUID]*booking.Booking{
		f.bookingID: {
			ID:         f.bookingID,
			PropertyID: f.propertyID,
			UserID:     f.guestID,
			StartDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC),
			TotalPrice: decimal.NewFromInt(360),
			Status:     booking.StatusPending,
		},
	}
	f.repo = newFakePaymentRepo(bookings)

	f.svc = NewPaymentService(
		f.repo,
		f.gateway,
		&fakeBookingLookup{bookings: bookings},
		&fakePropertyLookup{properties: map[uuid.UUID]*property.Property{
			f.propertyID: {ID: f.propertyID, Name: "Lakeside Cabin"},
		}},
		&fakeGuestLookup{users: map[uuid.UUID]*user.UserDTO{
			f.guestID: {
				ID:        f.guestID,
				FirstName: "Ada",
				LastName:  "Lovelace",
				Email:     "guest@example.com",
			},
		}},
		f.notifier,
		"ETB",
	)
	return f
}

func (f *fixture) initiate(t *testing.T) *payment.InitiateResponse {
	t.Helper()

	resp, err := f.svc.Initiate(context.Background(), f.guestID, payment.InitiateRequest{
		BookingID: f.bookingID.String(),
	})
	require.NoError(t, err)
	return resp
}

// ========================================
// TESTS
// ========================================

func TestInitiate(t *testing.T) {
	f := newFixture(t)

	resp := f.initiate(t)
	assert.Equal(t, "ETB", resp.Currency)
	assert.Equal(t, "360", resp.Amount.String())
	assert.Contains(t, resp.CheckoutURL, resp.TxRef)

	// tx_ref: 12 chars of the booking id, a dash, 8 hex chars.
	assert.Len(t, resp.TxRef, 21)
	assert.LessOrEqual(t, len(resp.TxRef), payment.MaxTxRefLen)
	assert.Equal(t, f.bookingID.String()[:12], resp.TxRef[:12])
	assert.Equal(t, byte('-'), resp.TxRef[12])
}

func TestInitiateReusesOpenCheckout(t *testing.T) {
	f := newFixture(t)

	first := f.initiate(t)
	second := f.initiate(t)

	assert.Equal(t, first.TxRef, second.TxRef)
	assert.Equal(t, first.CheckoutURL, second.CheckoutURL)
	assert.Equal(t, 1, f.gateway.initCalls)
}

func TestInitiateOwnerOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Initiate(context.Background(), uuid.New(), payment.InitiateRequest{
		BookingID: f.bookingID.String(),
	})
	assert.ErrorIs(t, err, booking.ErrNotBookingUser)
}

func TestInitiateRequiresPendingBooking(t *testing.T) {
	f := newFixture(t)

	f.repo.bookings[f.bookingID].Status = booking.StatusCanceled

	_, err := f.svc.Initiate(context.Background(), f.guestID, payment.InitiateRequest{
		BookingID: f.bookingID.String(),
	})
	assert.ErrorIs(t, err, payment.ErrBookingNotPayable)
}

func TestConfirmSettlesPaymentAndBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := f.initiate(t)
	f.gateway.verifyResult = &payment.GatewayResult{
		TransactionID: "CHAPA-12345",
		Success:       true,
	}

	dto, err := f.svc.Confirm(ctx, resp.TxRef)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCompleted, dto.Status)
	require.NotNil(t, dto.TransactionID)
	assert.Equal(t, "CHAPA-12345", *dto.TransactionID)

	assert.Equal(t, booking.StatusVerified, f.repo.bookings[f.bookingID].Status)

	require.Len(t, f.notifier.confirmations, 1)
	sent := f.notifier.confirmations[0]
	assert.Equal(t, "guest@example.com", sent.Email)
	assert.Equal(t, "Lakeside Cabin", sent.PropertyName)
	assert.Equal(t, "360.00 ETB", sent.TotalPrice)
}

func TestConfirmReplayRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := f.initiate(t)
	f.gateway.verifyResult = &payment.GatewayResult{TransactionID: "CHAPA-12345", Success: true}

	_, err := f.svc.Confirm(ctx, resp.TxRef)
	require.NoError(t, err)

	// Callback replay: same reference, already settled.
	_, err = f.svc.Confirm(ctx, resp.TxRef)
	assert.ErrorIs(t, err, payment.ErrAlreadyCompleted)
	assert.Len(t, f.notifier.confirmations, 1)
}

func TestConfirmDeclinedMarksFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := f.initiate(t)
	f.gateway.verifyResult = &payment.GatewayResult{Success: false}

	_, err := f.svc.Confirm(ctx, resp.TxRef)
	assert.ErrorIs(t, err, payment.ErrGatewayDeclined)

	p, err := f.repo.FindByTxRef(ctx, resp.TxRef)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusFailed, p.Status)

	// Booking stays pending and payable.
	assert.Equal(t, booking.StatusPending, f.repo.bookings[f.bookingID].Status)
}

func TestInitiateAfterDeclineOpensFreshAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.initiate(t)
	f.gateway.verifyResult = &payment.GatewayResult{Success: false}
	_, err := f.svc.Confirm(ctx, first.TxRef)
	require.ErrorIs(t, err, payment.ErrGatewayDeclined)

	second := f.initiate(t)
	assert.NotEqual(t, first.TxRef, second.TxRef)
	assert.Equal(t, 2, f.gateway.initCalls)
}

func TestConfirmGatewayUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := f.initiate(t)
	f.gateway.verifyErr = payment.ErrGatewayUnavailable

	_, err := f.svc.Confirm(ctx, resp.TxRef)
	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)

	// Undetermined outcome: the attempt stays pending for a later retry.
	p, err := f.repo.FindByTxRef(ctx, resp.TxRef)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, p.Status)
}

func TestConfirmCanceledBookingNotPayable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := f.initiate(t)

	// Booking canceled between initiate and the callback.
	f.repo.bookings[f.bookingID].Status = booking.StatusCanceled
	f.gateway.verifyResult = &payment.GatewayResult{TransactionID: "CHAPA-999", Success: true}

	_, err := f.svc.Confirm(ctx, resp.TxRef)
	assert.ErrorIs(t, err, payment.ErrBookingNotPayable)
}

func TestGetByBookingOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.initiate(t)

	dto, err := f.svc.GetByBooking(ctx, f.guestID, f.bookingID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, dto.Status)

	_, err = f.svc.GetByBooking(ctx, uuid.New(), f.bookingID)
	assert.ErrorIs(t, err, booking.ErrNotBookingUser)
}
