package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/booking"
	"staybook-backend/internal/domains/payment"
	"staybook-backend/internal/domains/user"
	"staybook-backend/internal/shared/response"
	"staybook-backend/internal/shared/utils"
)

type PaymentHandler struct {
	service payment.Service
}

func NewPaymentHandler(service payment.Service) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Initiate handles POST /payments/initiate
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req payment.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BookingID == "" {
		response.BadRequest(c, "Field 'booking_id' is required")
		return
	}

	resp, err := h.service.Initiate(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Checkout opened", resp)
}

// Callback handles GET /payments/callback?tx_ref=... — the gateway's
// redirect/webhook after checkout. The status is always re-verified against
// the gateway API, never trusted from the query string.
func (h *PaymentHandler) Callback(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		// Chapa also posts the reference as trx_ref on some flows.
		txRef = c.Query("trx_ref")
	}
	if txRef == "" {
		response.BadRequest(c, "Missing tx_ref")
		return
	}

	dto, err := h.service.Confirm(c.Request.Context(), txRef)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Payment confirmed, booking verified", dto)
}

// GetByBooking handles GET /bookings/:id/payment
func (h *PaymentHandler) GetByBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bookingID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid booking id")
		return
	}

	dto, err := h.service.GetByBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dto)
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

func (h *PaymentHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payment.ErrBookingNotPayable),
		errors.Is(err, payment.ErrGatewayDeclined):
		response.BadRequest(c, err.Error())

	case errors.Is(err, booking.ErrNotBookingUser):
		response.Forbidden(c, err.Error())

	case errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, payment.ErrAlreadyCompleted),
		errors.Is(err, payment.ErrDuplicateTxn):
		response.Conflict(c, err.Error())

	case errors.Is(err, payment.ErrGatewayUnavailable):
		response.ErrorResponse(c, http.StatusBadGateway, "GATEWAY_UNAVAILABLE", err.Error())

	default:
		log.Error().Err(err).Msg("Unhandled error in payment handler")
		response.InternalServerError(c, "Internal server error")
	}
}
