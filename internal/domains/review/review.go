// Package review is a thin CRUD domain: one rating and comment per guest per
// property. No caching layer; reviews are read straight from the store.
package review

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PropertyID uuid.UUID `db:"property_id" json:"property_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`

	// Rating is an integer 1..5.
	Rating  int    `db:"rating" json:"rating"`
	Comment string `db:"comment" json:"comment"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("property already reviewed by this user")
	ErrNotReviewOwner  = errors.New("review belongs to another user")
)

type CreateRequest struct {
	PropertyID string `json:"property_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PropertyID, validation.Required),
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.Length(0, 2000)),
	)
}

type UpdateRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.Length(0, 2000)),
	)
}

type Repository interface {
	Create(ctx context.Context, r *Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]Review, error)
}

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Review, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, req UpdateRequest) (*Review, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]Review, error)
}
