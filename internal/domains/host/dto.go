package host

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

type ApplyRequest struct {
	Bio              string `json:"bio" binding:"required"`
	Address          string `json:"address" binding:"required"`
	IdentityDocument string `json:"identity_document" binding:"required"`
	SocialLink       string `json:"social_link" binding:"required"`
}

func (r ApplyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Bio, validation.Required, validation.Length(10, 2000)),
		validation.Field(&r.Address, validation.Required, validation.Length(5, 255)),
		validation.Field(&r.IdentityDocument, validation.Required, validation.Length(5, 50)),
		validation.Field(&r.SocialLink,
			validation.Required,
			is.URL.Error("social link must be a valid URL"),
			validation.Length(10, 255),
		),
	)
}

type UpdateRequest struct {
	Bio        string `json:"bio" binding:"required"`
	Address    string `json:"address" binding:"required"`
	SocialLink string `json:"social_link" binding:"required"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Bio, validation.Required, validation.Length(10, 2000)),
		validation.Field(&r.Address, validation.Required, validation.Length(5, 255)),
		validation.Field(&r.SocialLink,
			validation.Required,
			is.URL.Error("social link must be a valid URL"),
			validation.Length(10, 255),
		),
	)
}

type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// HostDTO is the public host representation.
type HostDTO struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"user_id"`
	Bio                string             `json:"bio"`
	Address            string             `json:"address"`
	SocialLink         string             `json:"social_link"`
	ProfilePhotoURL    string             `json:"profile_photo_url,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
}

func (h *Host) ToDTO() HostDTO {
	return HostDTO{
		ID:                 h.ID,
		UserID:             h.UserID,
		Bio:                h.Bio,
		Address:            h.Address,
		SocialLink:         h.SocialLink,
		ProfilePhotoURL:    h.ProfilePhotoURL,
		VerificationStatus: h.VerificationStatus,
		CreatedAt:          h.CreatedAt,
	}
}
