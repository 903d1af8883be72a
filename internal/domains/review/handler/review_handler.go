package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/property"
	"staybook-backend/internal/domains/review"
	"staybook-backend/internal/shared/response"
	"staybook-backend/internal/shared/utils"
)

type ReviewHandler struct {
	service review.Service
}

func NewReviewHandler(service review.Service) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create handles POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req review.CreateRequest
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

	rev, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Review posted", rev)
}

// Update handles PUT /reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reviewID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review id")
		return
	}

	var req review.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rev, err := h.service.Update(c.Request.Context(), userID, reviewID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Review updated", rev)
}

// Delete handles DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reviewID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, reviewID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Review deleted", nil)
}

// ListByProperty handles GET /properties/:id/reviews
func (h *ReviewHandler) ListByProperty(c *gin.Context) {
	propertyID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid property id")
		return
	}

	reviews, err := h.service.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", reviews)
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

func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, review.ErrNotReviewOwner):
		response.Forbidden(c, err.Error())

	case errors.Is(err, review.ErrReviewNotFound),
		errors.Is(err, property.ErrPropertyNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, review.ErrAlreadyReviewed):
		response.Conflict(c, err.Error())

	default:
		log.Error().Err(err).Msg("Unhandled error in review handler")
		response.InternalServerError(c, "Internal server error")
	}
}
