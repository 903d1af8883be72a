package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"staybook-backend/internal/domains/booking"
	"staybook-backend/internal/domains/review"
)

// reviewService implements review.Service. The property is resolved through
// the cache-backed finder so only live listings collect reviews.
type reviewService struct {
	repo       review.Repository
	properties booking.PropertyFinder
}

func NewReviewService(repo review.Repository, properties booking.PropertyFinder) review.Service {
	return &reviewService{repo: repo, properties: properties}
}

func (s *reviewService) Create(ctx context.Context, userID uuid.UUID, req review.CreateRequest) (*review.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return nil, review.ErrReviewNotFound
	}

	if _, err := s.properties.GetEligible(ctx, propertyID); err != nil {
		return nil, err
	}

	now := time.Now()
	r := &review.Review{
		ID:         uuid.New(),
		PropertyID: propertyID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *reviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, req review.UpdateRequest) (*review.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, review.ErrNotReviewOwner
	}

	r.Rating = req.Rating
	r.Comment = req.Comment
	r.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	r, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if r.UserID != userID {
		return review.ErrNotReviewOwner
	}

	return s.repo.Delete(ctx, reviewID)
}

func (s *reviewService) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]review.Review, error) {
	return s.repo.ListByProperty(ctx, propertyID)
}
