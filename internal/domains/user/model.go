package user

import (
	"time"

	"github.com/google/uuid"

	"staybook-backend/internal/shared/utils"
)

// User is the domain entity mapped 1:1 to the users table.
type User struct {
	ID uuid.UUID `db:"id" json:"id"`

	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`

	// Email is always stored in canonical form: trimmed and lowercased.
	// PendingEmail holds a new address awaiting out-of-band confirmation.
	Email        string  `db:"email" json:"email"`
	PendingEmail *string `db:"pending_email" json:"-"`
	Phone        string  `db:"phone" json:"phone"`

	PasswordHash string `db:"password_hash" json:"-"`

	Role     Role `db:"role" json:"role"`
	IsActive bool `db:"is_active" json:"is_active"`
	Verified bool `db:"verified" json:"verified"`

	// ResetPassword is set once a password-reset link has been confirmed and
	// cleared when the new password lands.
	ResetPassword bool `db:"reset_password" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Role enum. Transitions only ever go guest -> host (on host verification);
// admin accounts are provisioned, never promoted here.
type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleHost, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// IsEligible is the valid predicate for lookups: only active, verified
// accounts appear in cache-backed reads and listings.
func (u *User) IsEligible() bool {
	return u.IsActive && u.Verified
}

// FullName joins the normalized name fields.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Normalize applies the canonical storage forms: title-cased names,
// lowercased trimmed email. Runs before every persist.
func (u *User) Normalize() {
	u.FirstName = utils.NormalizeName(u.FirstName)
	u.LastName = utils.NormalizeName(u.LastName)
	u.Email = utils.NormalizeEmail(u.Email)
	if u.PendingEmail != nil {
		normalized := utils.NormalizeEmail(*u.PendingEmail)
		u.PendingEmail = &normalized
	}
}

// ConfirmPendingEmail swaps the confirmed pending address in as the primary
// email. No-op when nothing is pending.
func (u *User) ConfirmPendingEmail() {
	if u.PendingEmail == nil {
		return
	}
	u.Email = utils.NormalizeEmail(*u.PendingEmail)
	u.PendingEmail = nil
}
