package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/user"
	"staybook-backend/internal/shared/response"
	"staybook-backend/internal/shared/utils"
)

// UserHandler translates HTTP requests into user.Service calls.
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	dto, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/users/"+dto.ID.String())
	response.Success(c, http.StatusCreated,
		"User registered successfully. Please check your email to verify.", dto)
}

// Login handles POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", resp)
}

// Logout handles POST /users/logout. Revokes the presented session.
func (h *UserHandler) Logout(c *gin.Context) {
	token := c.GetString("authToken")
	if token == "" {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Logged out", nil)
}

// VerifyEmail handles GET /users/verify?token=...
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "Missing token")
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), token); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Email verified successfully", nil)
}

// ResendVerification handles POST /users/resend-verification
func (h *UserHandler) ResendVerification(c *gin.Context) {
	var req user.ResetPasswordRequest // same shape: {email}
	if !h.bind(c, &req) {
		return
	}

	if err := h.service.ResendVerification(c.Request.Context(), req.Email); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Verification email sent", nil)
}

// ========================================
// PASSWORD ENDPOINTS
// ========================================

// RequestPasswordReset handles POST /users/reset-password
func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req user.ResetPasswordRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK,
		"If the address exists, a reset link has been sent", nil)
}

// VerifyPasswordReset handles GET /users/reset-password/verify?token=...
func (h *UserHandler) VerifyPasswordReset(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "Missing token")
		return
	}

	if err := h.service.VerifyPasswordReset(c.Request.Context(), token); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reset verified, you may now set a new password", nil)
}

// SetPassword handles POST /users/reset-password/confirm
func (h *UserHandler) SetPassword(c *gin.Context) {
	var req user.SetPasswordRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.service.SetPassword(c.Request.Context(), req); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Password updated successfully", nil)
}

// ChangePassword handles POST /users/change-password (authenticated)
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req user.ChangePasswordRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Password changed successfully", nil)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dto, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dto)
}

// UpdateProfile handles PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}

	dto, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", dto)
}

// ConfirmEmailChange handles GET /users/email-change/confirm?token=...
func (h *UserHandler) ConfirmEmailChange(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "Missing token")
		return
	}

	if err := h.service.ConfirmEmailChange(c.Request.Context(), token); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Email address updated", nil)
}

// RequestDeactivation handles POST /users/deactivate
func (h *UserHandler) RequestDeactivation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.RequestDeactivation(c.Request.Context(), userID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Confirmation link sent to your email", nil)
}

// ConfirmDeactivation handles GET /users/deactivate/confirm?token=...
func (h *UserHandler) ConfirmDeactivation(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "Missing token")
		return
	}

	if err := h.service.ConfirmDeactivation(c.Request.Context(), token); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Account deactivated", nil)
}

// ========================================
// READ ENDPOINTS
// ========================================

// GetUser handles GET /users/:id — cache-backed, eligible accounts only.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	dto, err := h.service.GetActive(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dto)
}

// ListUsers handles GET /users — the aggregate snapshot of valid accounts.
func (h *UserHandler) ListUsers(c *gin.Context) {
	dtos, err := h.service.ListValid(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dtos)
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

// AdminListUsers handles GET /admin/users
func (h *UserHandler) AdminListUsers(c *gin.Context) {
	dtos, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dtos)
}

// AdminSetUserStatus handles PATCH /admin/users/:id/status
func (h *UserHandler) AdminSetUserStatus(c *gin.Context) {
	id, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		response.BadRequest(c, "Field 'active' is required")
		return
	}

	if err := h.service.SetUserActive(c.Request.Context(), id, *req.Active); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "User status updated", nil)
}

// AdminDeleteUser handles DELETE /admin/users/:id
func (h *UserHandler) AdminDeleteUser(c *gin.Context) {
	id, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "User deleted", nil)
}

// ========================================
// HELPERS
// ========================================

type validatable interface {
	Validate() error
}

// bind unmarshals the body and runs DTO validation, writing the 400 itself.
func (h *UserHandler) bind(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	if err := req.Validate(); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
				"Validation failed", verrs)
			return false
		}
		response.BadRequest(c, err.Error())
		return false
	}
	return true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("userID")
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return uuid.Nil, false
	}
	return id, true
}

// handleError maps domain errors to HTTP status codes. A missing resource is
// 404, a failed state precondition 400, a uniqueness clash 409.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidToken),
		errors.Is(err, user.ErrResetNotAllowed),
		errors.Is(err, user.ErrNothingToUpdate):
		response.BadRequest(c, err.Error())

	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrUserNotVerified),
		errors.Is(err, user.ErrUserInactive),
		errors.Is(err, user.ErrPasswordMismatch):
		response.Unauthorized(c, err.Error())

	case errors.Is(err, user.ErrForbidden):
		response.Forbidden(c, err.Error())

	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, user.ErrEmailAlreadyExists),
		errors.Is(err, user.ErrPhoneAlreadyExists):
		response.Conflict(c, err.Error())

	default:
		log.Error().Err(err).Msg("Unhandled error in user handler")
		response.InternalServerError(c, "Internal server error")
	}
}
