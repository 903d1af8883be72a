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
	"staybook-backend/internal/domains/property"
	"staybook-backend/internal/domains/user"
)

// ========================================
// FAKES
// ========================================

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*booking.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*booking.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]booking.Booking, error) {
	var out []booking.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByProperty(_ context.Context, propertyID uuid.UUID) ([]booking.Booking, error) {
	var out []booking.Booking
	for _, b := range r.bookings {
		if b.PropertyID == propertyID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) HasOverlap(_ context.Context, propertyID uuid.UUID, start, end time.Time) (bool, error) {
	for _, b := range r.bookings {
		if b.PropertyID != propertyID {
			continue
		}
		if b.Status != booking.StatusPending && b.Status != booking.StatusVerified {
			continue
		}
		if b.StartDate.Before(end) && b.EndDate.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) UpdateStatusIf(_ context.Context, id uuid.UUID, from, to booking.Status) (bool, error) {
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (r *fakeBookingRepo) ExpireStale(_ context.Context, cutoff time.Time) (int64, error) {
	var swept int64
	for _, b := range r.bookings {
		if b.Status == booking.StatusPending && b.StartDate.Before(cutoff) {
			b.Status = booking.StatusCanceled
			swept++
		}
	}
	return swept, nil
}

type fakePropertyFinder struct {
	properties map[uuid.UUID]*property.PropertyDTO
}

func (f *fakePropertyFinder) GetEligible(_ context.Context, id uuid.UUID) (*property.PropertyDTO, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, property.ErrPropertyNotFound
	}
	return p, nil
}

type fakeUserFinder struct {
	users map[uuid.UUID]*user.UserDTO
}

func (f *fakeUserFinder) GetActive(_ context.Context, id uuid.UUID) (*user.UserDTO, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

// ========================================
// SETUP
// ========================================

type fixture struct {
	svc        booking.Service
	repo       *fakeBookingRepo
	properties *fakePropertyFinder
	users      *fakeUserFinder

	guestID    uuid.UUID
	hostID     uuid.UUID
	propertyID uuid.UUID
}

// Every test runs with the clock pinned to 2025-06-01.
var testNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:       newFakeBookingRepo(),
		guestID:    uuid.New(),
		hostID:     uuid.New(),
		propertyID: uuid.New(),
	}

	f.properties = &fakePropertyFinder{properties: map[uuid.UUID]*property.PropertyDTO{
		f.propertyID: {
			ID:            f.propertyID,
			HostID:        f.hostID,
			Name:          "Lakeside Cabin",
			PricePerNight: decimal.NewFromInt(120),
			MaxGuests:     4,
			Verified:      true,
			Available:     true,
		},
	}}
	f.users = &fakeUserFinder{users: map[uuid.UUID]*user.UserDTO{
		f.guestID: {ID: f.guestID, Email: "guest@example.com", Verified: true},
		f.hostID:  {ID: f.hostID, Email: "host@example.com", Verified: true},
	}}

	svc := NewBookingService(f.repo, f.properties, f.users).(*bookingService)
	svc.now = func() time.Time { return testNow }
	f.svc = svc
	return f
}

func createRequest(start, end string) booking.CreateRequest {
	return booking.CreateRequest{
		PropertyID: "",
		StartDate:  start,
		EndDate:    end,
	}
}

// ========================================
// TESTS
// ========================================

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	req := createRequest("2025-06-10", "2025-06-13")
	req.PropertyID = f.propertyID.String()

	dto, err := f.svc.Create(context.Background(), f.guestID, req)
	require.NoError(t, err)

	assert.Equal(t, booking.StatusPending, dto.Status)
	// The listing's nightly price is snapshotted as-is, regardless of stay length.
	assert.Equal(t, "120", dto.TotalPrice.String())
}

func TestCreateSnapshotsCurrentPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := createRequest("2025-06-10", "2025-06-13")
	req.PropertyID = f.propertyID.String()
	dto, err := f.svc.Create(ctx, f.guestID, req)
	require.NoError(t, err)
	assert.Equal(t, "120", dto.TotalPrice.String())

	// A later price change does not touch the existing booking.
	f.properties.properties[f.propertyID].PricePerNight = decimal.NewFromInt(200)
	got, err := f.repo.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "120", got.TotalPrice.String())

	otherGuest := uuid.New()
	f.users.users[otherGuest] = &user.UserDTO{ID: otherGuest, Verified: true}
	later := createRequest("2025-06-20", "2025-06-22")
	later.PropertyID = f.propertyID.String()
	next, err := f.svc.Create(ctx, otherGuest, later)
	require.NoError(t, err)
	assert.Equal(t, "200", next.TotalPrice.String())
}

func TestCreateRejectsBadDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{"equal dates", "2025-06-10", "2025-06-10", booking.ErrInvalidDates},
		{"inverted range", "2025-06-13", "2025-06-10", booking.ErrInvalidDates},
		{"start in past", "2025-05-20", "2025-05-25", booking.ErrDatesInPast},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := createRequest(tc.start, tc.end)
			req.PropertyID = f.propertyID.String()

			_, err := f.svc.Create(ctx, f.guestID, req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateSameDayAllowed(t *testing.T) {
	f := newFixture(t)

	// Booking starting today is still bookable; only strictly-past starts fail.
	req := createRequest("2025-06-01", "2025-06-02")
	req.PropertyID = f.propertyID.String()

	_, err := f.svc.Create(context.Background(), f.guestID, req)
	assert.NoError(t, err)
}

func TestCreateRejectsOwnProperty(t *testing.T) {
	f := newFixture(t)

	req := createRequest("2025-06-10", "2025-06-13")
	req.PropertyID = f.propertyID.String()

	_, err := f.svc.Create(context.Background(), f.hostID, req)
	assert.ErrorIs(t, err, booking.ErrOwnProperty)
}

func TestCreateRejectsIneligibleProperty(t *testing.T) {
	f := newFixture(t)

	req := createRequest("2025-06-10", "2025-06-13")
	req.PropertyID = uuid.New().String()

	_, err := f.svc.Create(context.Background(), f.guestID, req)
	assert.ErrorIs(t, err, property.ErrPropertyNotFound)
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := createRequest("2025-06-10", "2025-06-15")
	first.PropertyID = f.propertyID.String()
	_, err := f.svc.Create(ctx, f.guestID, first)
	require.NoError(t, err)

	otherGuest := uuid.New()
	f.users.users[otherGuest] = &user.UserDTO{ID: otherGuest, Verified: true}

	overlapping := createRequest("2025-06-14", "2025-06-16")
	overlapping.PropertyID = f.propertyID.String()
	_, err = f.svc.Create(ctx, otherGuest, overlapping)
	assert.ErrorIs(t, err, booking.ErrDatesTaken)

	// Back-to-back is fine: [10,15) and [15,17) share no night.
	adjacent := createRequest("2025-06-15", "2025-06-17")
	adjacent.PropertyID = f.propertyID.String()
	_, err = f.svc.Create(ctx, otherGuest, adjacent)
	assert.NoError(t, err)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := createRequest("2025-06-10", "2025-06-13")
	req.PropertyID = f.propertyID.String()
	dto, err := f.svc.Create(ctx, f.guestID, req)
	require.NoError(t, err)

	// Someone else's booking cannot be canceled.
	err = f.svc.Cancel(ctx, uuid.New(), dto.ID)
	assert.ErrorIs(t, err, booking.ErrNotBookingUser)

	require.NoError(t, f.svc.Cancel(ctx, f.guestID, dto.ID))

	// Second cancel hits the no-longer-pending guard.
	err = f.svc.Cancel(ctx, f.guestID, dto.ID)
	assert.ErrorIs(t, err, booking.ErrNotPending)
}

func TestListForPropertyOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := createRequest("2025-06-10", "2025-06-13")
	req.PropertyID = f.propertyID.String()
	_, err := f.svc.Create(ctx, f.guestID, req)
	require.NoError(t, err)

	listed, err := f.svc.ListForProperty(ctx, f.hostID, f.propertyID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = f.svc.ListForProperty(ctx, f.guestID, f.propertyID)
	assert.ErrorIs(t, err, booking.ErrNotBookingUser)
}

func TestExpireStale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Pending booking whose start date has passed; seeded directly because
	// Create would reject it.
	stale := &booking.Booking{
		ID:         uuid.New(),
		PropertyID: f.propertyID,
		UserID:     f.guestID,
		StartDate:  time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC),
		Status:     booking.StatusPending,
	}
	require.NoError(t, f.repo.Create(ctx, stale))

	fresh := createRequest("2025-06-10", "2025-06-13")
	fresh.PropertyID = f.propertyID.String()
	dto, err := f.svc.Create(ctx, f.guestID, fresh)
	require.NoError(t, err)

	swept, err := f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	got, err := f.repo.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCanceled, got.Status)

	got, err = f.repo.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, got.Status)
}
