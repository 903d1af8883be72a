package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/property"
	"staybook-backend/internal/domains/user"
	"staybook-backend/internal/shared/response"
	"staybook-backend/internal/shared/utils"
)

type PropertyHandler struct {
	service property.Service
}

func NewPropertyHandler(service property.Service) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// Create handles POST /properties (host role)
func (h *PropertyHandler) Create(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req property.CreateRequest
	if !bind(c, &req) {
		return
	}

	dto, err := h.service.Create(c.Request.Context(), hostID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/properties/"+dto.ID.String())
	response.Success(c, http.StatusCreated, "Property created, pending verification", dto)
}

// Update handles PUT /properties/:id (owner only)
func (h *PropertyHandler) Update(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	propertyID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid property id")
		return
	}

	var req property.UpdateRequest
	if !bind(c, &req) {
		return
	}

	dto, err := h.service.Update(c.Request.Context(), hostID, propertyID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Property updated", dto)
}

// Delete handles DELETE /properties/:id (owner only)
func (h *PropertyHandler) Delete(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	propertyID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid property id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), hostID, propertyID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Property deleted", nil)
}

// SetAvailability handles PATCH /properties/:id/availability (owner only)
func (h *PropertyHandler) SetAvailability(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	propertyID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid property id")
		return
	}

	var req property.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		response.BadRequest(c, "Field 'available' is required")
		return
	}

	if err := h.service.SetAvailability(c.Request.Context(), hostID, propertyID, *req.Available); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Availability updated", nil)
}

// ListMine handles GET /properties/mine (host role)
func (h *PropertyHandler) ListMine(c *gin.Context) {
	hostID, ok := currentUserID(c)
	if !ok {
		return
	}

	dtos, err := h.service.ListMine(c.Request.Context(), hostID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dtos)
}

// Get handles GET /properties/:id — cache-backed, bookable listings only.
func (h *PropertyHandler) Get(c *gin.Context) {
	propertyID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid property id")
		return
	}

	dto, err := h.service.GetEligible(c.Request.Context(), propertyID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dto)
}

// List handles GET /properties — the aggregate snapshot of bookable listings.
func (h *PropertyHandler) List(c *gin.Context) {
	dtos, err := h.service.ListEligible(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dtos)
}

// AdminListUnverified handles GET /admin/properties/unverified
func (h *PropertyHandler) AdminListUnverified(c *gin.Context) {
	dtos, err := h.service.ListUnverified(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dtos)
}

// AdminVerify handles POST /admin/properties/:id/verify
func (h *PropertyHandler) AdminVerify(c *gin.Context) {
	propertyID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid property id")
		return
	}

	if err := h.service.Verify(c.Request.Context(), propertyID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Property verified", nil)
}

// ========================================
// HELPERS
// ========================================

type validatable interface {
	Validate() error
}

func bind(c *gin.Context, req validatable) bool {
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

func (h *PropertyHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, property.ErrAlreadyVerified),
		errors.Is(err, property.ErrHasBookings):
		response.BadRequest(c, err.Error())

	case errors.Is(err, property.ErrNotHost),
		errors.Is(err, property.ErrNotOwner):
		response.Forbidden(c, err.Error())

	case errors.Is(err, property.ErrPropertyNotFound),
		errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, err.Error())

	default:
		log.Error().Err(err).Msg("Unhandled error in property handler")
		response.InternalServerError(c, "Internal server error")
	}
}
