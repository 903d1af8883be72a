package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/host"
	"staybook-backend/internal/shared/response"
	"staybook-backend/internal/shared/utils"
)

// 5 MB is plenty for a profile photo.
const maxPhotoSize = 5 << 20

type HostHandler struct {
	service host.Service
}

func NewHostHandler(service host.Service) *HostHandler {
	return &HostHandler{service: service}
}

// Apply handles POST /hosts/apply
func (h *HostHandler) Apply(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req host.ApplyRequest
	if !bind(c, &req) {
		return
	}

	dto, err := h.service.Apply(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated,
		"Host application submitted, pending review", dto)
}

// GetMyProfile handles GET /hosts/me
func (h *HostHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dto, err := h.service.GetMyProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dto)
}

// UpdateProfile handles PUT /hosts/me
func (h *HostHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req host.UpdateRequest
	if !bind(c, &req) {
		return
	}

	dto, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Host profile updated", dto)
}

// UploadPhoto handles POST /hosts/me/photo (multipart form, field "photo")
func (h *HostHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, "Missing photo file")
		return
	}
	if fileHeader.Size > maxPhotoSize {
		response.BadRequest(c, "Photo exceeds the 5 MB limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Unreadable photo file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoSize))
	if err != nil {
		response.InternalServerError(c, "Failed to read photo")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.service.UploadProfilePhoto(c.Request.Context(), userID, contentType, data)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Photo uploaded", gin.H{"url": url})
}

// GetHost handles GET /hosts/:user_id — cache-backed, verified hosts only.
func (h *HostHandler) GetHost(c *gin.Context) {
	userID, err := utils.ParseStringToUUID(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	dto, err := h.service.GetVerified(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dto)
}

// ListHosts handles GET /hosts — the aggregate snapshot of verified hosts.
func (h *HostHandler) ListHosts(c *gin.Context) {
	dtos, err := h.service.ListVerified(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dtos)
}

// AdminListPending handles GET /admin/hosts/pending
func (h *HostHandler) AdminListPending(c *gin.Context) {
	dtos, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", dtos)
}

// AdminReview handles POST /admin/hosts/:id/review
func (h *HostHandler) AdminReview(c *gin.Context) {
	hostID, err := utils.ParseStringToUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid host id")
		return
	}

	var req host.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.Review(c.Request.Context(), hostID, req); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Review recorded", nil)
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

func (h *HostHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, host.ErrPhotoUploadUnsupported),
		errors.Is(err, host.ErrAlreadyReviewed),
		errors.Is(err, host.ErrNotVerified):
		response.BadRequest(c, err.Error())

	case errors.Is(err, host.ErrHostNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, host.ErrAlreadyApplied),
		errors.Is(err, host.ErrSocialLinkTaken):
		response.Conflict(c, err.Error())

	default:
		log.Error().Err(err).Msg("Unhandled error in host handler")
		response.InternalServerError(c, "Internal server error")
	}
}
