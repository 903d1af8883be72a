package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/booking"
)

// bookingService implements booking.Service. Property and guest lookups go
// through the cache-backed finders, so an unverified listing or a
// deactivated account is rejected the same way as a missing one.
type bookingService struct {
	repo       booking.Repository
	properties booking.PropertyFinder
	users      booking.UserFinder
	now        func() time.Time
}

func NewBookingService(repo booking.Repository, properties booking.PropertyFinder, users booking.UserFinder) booking.Service {
	return &bookingService{
		repo:       repo,
		properties: properties,
		users:      users,
		now:        time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, userID uuid.UUID, req booking.CreateRequest) (*booking.BookingDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return nil, booking.ErrBookingNotFound
	}

	start, err := time.Parse(booking.DateLayout, req.StartDate)
	if err != nil {
		return nil, booking.ErrInvalidDates
	}
	end, err := time.Parse(booking.DateLayout, req.EndDate)
	if err != nil {
		return nil, booking.ErrInvalidDates
	}

	// Equal dates are a zero-night stay; rejected along with inverted ranges.
	if !start.Before(end) {
		return nil, booking.ErrInvalidDates
	}
	today := s.today()
	if start.Before(today) {
		return nil, booking.ErrDatesInPast
	}

	if _, err := s.users.GetActive(ctx, userID); err != nil {
		return nil, err
	}

	prop, err := s.properties.GetEligible(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if prop.HostID == userID {
		return nil, booking.ErrOwnProperty
	}

	taken, err := s.repo.HasOverlap(ctx, propertyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	if taken {
		return nil, booking.ErrDatesTaken
	}

	// total_price snapshots the listing's current nightly price; later
	// price edits never touch existing bookings.
	total := prop.PricePerNight

	now := s.now()
	b := &booking.Booking{
		ID:         uuid.New(),
		PropertyID: propertyID,
		UserID:     userID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: total,
		Status:     booking.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("property_id", propertyID.String()).
		Str("total_price", total.String()).
		Msg("Booking created")

	dto := b.ToDTO()
	return &dto, nil
}

// Cancel moves a pending booking to canceled. The transition is a
// compare-and-set: a payment landing concurrently wins or loses atomically,
// never both.
func (s *bookingService) Cancel(ctx context.Context, userID, bookingID uuid.UUID) error {
	b, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		return booking.ErrNotBookingUser
	}
	if b.Status != booking.StatusPending {
		return booking.ErrNotPending
	}

	ok, err := s.repo.UpdateStatusIf(ctx, bookingID, booking.StatusPending, booking.StatusCanceled)
	if err != nil {
		return err
	}
	if !ok {
		return booking.ErrNotPending
	}

	log.Info().Str("booking_id", bookingID.String()).Msg("Booking canceled")
	return nil
}

func (s *bookingService) Get(ctx context.Context, userID, bookingID uuid.UUID) (*booking.BookingDTO, error) {
	b, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, booking.ErrNotBookingUser
	}

	dto := b.ToDTO()
	return &dto, nil
}

func (s *bookingService) ListMine(ctx context.Context, userID uuid.UUID) ([]booking.BookingDTO, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTOs(bookings), nil
}

// ListForProperty is the host's calendar: only the listing's owner sees it.
func (s *bookingService) ListForProperty(ctx context.Context, hostID, propertyID uuid.UUID) ([]booking.BookingDTO, error) {
	prop, err := s.properties.GetEligible(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if prop.HostID != hostID {
		return nil, booking.ErrNotBookingUser
	}

	bookings, err := s.repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return toDTOs(bookings), nil
}

func (s *bookingService) ExpireStale(ctx context.Context) (int64, error) {
	swept, err := s.repo.ExpireStale(ctx, s.today())
	if err != nil {
		return 0, fmt.Errorf("expire stale bookings: %w", err)
	}
	if swept > 0 {
		log.Info().Int64("count", swept).Msg("Stale pending bookings canceled")
	}
	return swept, nil
}

func (s *bookingService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func toDTOs(bookings []booking.Booking) []booking.BookingDTO {
	dtos := make([]booking.BookingDTO, 0, len(bookings))
	for i := range bookings {
		dtos = append(dtos, bookings[i].ToDTO())
	}
	return dtos
}
