package user

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"staybook-backend/internal/shared/utils"
)

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone_number" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// Normalize canonicalizes the email before validation so padded or
// mixed-case submissions are accepted and stored in one form.
func (r *RegisterRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.Required.Error("this field is required"),
			validation.Length(1, 30),
		),
		validation.Field(&r.LastName,
			validation.Required.Error("this field is required"),
			validation.Length(1, 30),
		),
		validation.Field(&r.Email,
			validation.Required.Error("this field is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Phone,
			validation.Required.Error("this field is required"),
			validation.Length(5, 15),
		),
		validation.Field(&r.Password,
			validation.Required.Error("this field is required"),
			validation.Length(8, 128).Error("password must not be less than 8 characters"),
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse carries the opaque session token; the server-side token
// store is the source of truth for its validity.
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone_number" binding:"required"`
}

func (r *UpdateProfileRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 30)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 30)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Required, validation.Length(5, 15)),
	)
}

type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

func (r *ResetPasswordRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type SetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (r *SetPasswordRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
}

func (r SetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.NewPassword,
			validation.Required,
			validation.Length(8, 128).Error("password must not be less than 8 characters"),
		),
	)
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword,
			validation.Required,
			validation.Length(8, 128).Error("password must not be less than 8 characters"),
		),
	)
}

// ========================================
// USER PROFILE DTOs
// ========================================

// UserDTO is the public user representation (safe to expose).
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone_number"`
	Role      Role      `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
