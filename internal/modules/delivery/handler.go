package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"ecodeli/internal/domain"
	"ecodeli/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	// kept off /deliveries so the public segment never collides with the
	// protected :id wildcard
	rg.GET("/tracking/:tracking", h.TrackDelivery)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/matches/accept", h.AcceptMatch)

	g := rg.Group("/deliveries")
	{
		g.GET("", h.GetMyDeliveries)
		g.GET("/:id", h.GetDelivery)
		g.PATCH("/:id/status", h.UpdateStatus)
		g.POST("/:id/validate", h.ValidateDelivery)
	}
}

func (h *Handler) AcceptMatch(c *gin.Context) {
	var req AcceptMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, code, err := h.service.AcceptMatch(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Announcement not found")
		case errors.Is(err, ErrNotAnnouncementAuthor):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Announcement belongs to another client")
		case errors.Is(err, ErrMatchNotFound):
			response.Error(c, http.StatusNotFound, "MATCH_NOT_FOUND", "No match exists for this route and announcement")
		case errors.Is(err, ErrAnnouncementGone):
			response.Error(c, http.StatusConflict, "ALREADY_ASSIGNED", "Announcement is no longer available")
		case errors.Is(err, ErrRouteInactive):
			response.Error(c, http.StatusConflict, "ROUTE_INACTIVE", "Route is no longer active")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to accept match")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"delivery": d,
		"accept": AcceptMatchResponse{
			DeliveryID:     d.ID,
			TrackingNumber: d.TrackingNumber,
			ValidationCode: code,
		},
	})
}

func (h *Handler) GetDelivery(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid delivery ID")
		return
	}

	d, err := h.service.GetDelivery(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"delivery": d})
}

func (h *Handler) TrackDelivery(c *gin.Context) {
	d, err := h.service.TrackDelivery(c.Request.Context(), c.Param("tracking"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tracking_number": d.TrackingNumber,
		"status":          d.Status,
		"updated_at":      d.UpdatedAt,
	})
}

func (h *Handler) GetMyDeliveries(c *gin.Context) {
	list, err := h.service.GetMyDeliveries(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list deliveries")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deliveries": list})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid delivery ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.UpdateStatus(c.Request.Context(), id, c.GetInt64("user_id"), domain.DeliveryStatus(req.Status))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"delivery": d})
}

func (h *Handler) ValidateDelivery(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid delivery ID")
		return
	}

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation code must be 6 digits")
		return
	}

	d, err := h.service.ValidateDelivery(c.Request.Context(), id, c.GetInt64("user_id"), req.Code)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"delivery": d})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Delivery not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Delivery involves another user")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status change is not allowed from the current state")
	case errors.Is(err, ErrInvalidCode):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_CODE", "Validation code does not match")
	case errors.Is(err, ErrAlreadyDelivered):
		response.Error(c, http.StatusConflict, "ALREADY_DELIVERED", "Delivery already completed")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Delivery operation failed")
	}
}
