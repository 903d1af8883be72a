package host

import (
	"time"

	"github.com/google/uuid"
)

// Host is the host profile attached to exactly one user account. A user
// applies with the profile details; an admin reviews the application and, on
// approval, the account's role is promoted from guest to host.
type Host struct {
	ID     uuid.UUID `db:"id" json:"id"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`

	Bio     string `db:"bio" json:"bio"`
	Address string `db:"address" json:"address"`

	// IdentityDocument is a government id number, stored for the manual
	// review; never exposed in public DTOs.
	IdentityDocument string `db:"identity_document" json:"-"`

	// SocialLink is globally unique; two hosts cannot claim the same page.
	SocialLink string `db:"social_link" json:"social_link"`

	// ProfilePhotoURL points at object storage; empty until uploaded.
	ProfilePhotoURL string `db:"profile_photo_url" json:"profile_photo_url"`

	VerificationStatus VerificationStatus `db:"verification_status" json:"verification_status"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusVerified VerificationStatus = "verified"
	StatusRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// IsEligible is the valid predicate for host lookups: only verified hosts
// appear in cache-backed reads and listings.
func (h *Host) IsEligible() bool {
	return h.VerificationStatus == StatusVerified
}
