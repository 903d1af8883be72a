package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/booking"
	"staybook-backend/internal/domains/property"
	"staybook-backend/internal/domains/user"
	"staybook-backend/internal/shared/response"
	"staybook-backend/internal/shared/utils"
)

type BookingHandler struct {
	service booking.Service
}

func NewBookingHandler(service booking.Service) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /bookings
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req booking.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
				"Validation failed", verrs)
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/bookings/"+dto.ID.String())
	response.Success(c, http.StatusCreated, "Booking created, awaiting payment", dto)
}

// Cancel handles POST /bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bookingID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid booking id")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), userID, bookingID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Booking canceled", nil)
}

// Get handles GET /bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bookingID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid booking id")
		return
	}

	dto, err := h.service.Get(c.Request.Context(), userID, bookingID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dto)
}

// ListMine handles GET /bookings
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dtos, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dtos)
}

// ListForProperty handles GET /properties/:id/bookings (owner only)
func (h *BookingHandler) ListForProperty(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	propertyID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid property id")
		return
	}

	dtos, err := h.service.ListForProperty(c.Request.Context(), userID, propertyID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dtos)
}

// ========================================
// HELPERS
// ========================================

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

func (h *BookingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidDates),
		errors.Is(err, booking.ErrDatesInPast),
		errors.Is(err, booking.ErrOwnProperty),
		errors.Is(err, booking.ErrNotPending):
		response.BadRequest(c, err.Error())

	case errors.Is(err, booking.ErrNotBookingUser):
		response.Forbidden(c, err.Error())

	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, property.ErrPropertyNotFound),
		errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, booking.ErrDatesTaken):
		response.Conflict(c, err.Error())

	default:
		log.Error().Err(err).Msg("Unhandled error in booking handler")
		response.InternalServerError(c, "Internal server error")
	}
}
