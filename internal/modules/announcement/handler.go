package announcement

import (
	"errors"
	"net/http"
	"strconv"

	"ecodeli/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the browse endpoints without authentication.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/announcements")
	{
		g.GET("", h.ListActive)
		g.GET("/:id", h.GetAnnouncement)
	}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	// the public group already owns GET /announcements/:id, so the owner
	// listing lives under /my to stay out of the wildcard's way
	rg.GET("/my/announcements", h.GetMyAnnouncements)

	g := rg.Group("/announcements")
	{
		g.POST("", h.CreateAnnouncement)
		g.PATCH("/:id/cancel", h.CancelAnnouncement)
	}
}

func (h *Handler) CreateAnnouncement(c *gin.Context) {
	var req CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.CreateAnnouncement(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid announcement type, schedule or price")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create announcement")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"announcement": a})
}

func (h *Handler) ListActive(c *gin.Context) {
	f := ListFilter{Type: c.Query("type")}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		f.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		f.Offset = v
	}

	list, err := h.service.ListActive(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list announcements")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"announcements": list})
}

func (h *Handler) GetAnnouncement(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid announcement ID")
		return
	}

	a, err := h.service.GetAnnouncement(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Announcement not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load announcement")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"announcement": a})
}

func (h *Handler) GetMyAnnouncements(c *gin.Context) {
	list, err := h.service.GetMyAnnouncements(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list announcements")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"announcements": list})
}

func (h *Handler) CancelAnnouncement(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid announcement ID")
		return
	}

	if err := h.service.CancelAnnouncement(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Announcement not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Announcement belongs to another user")
		case errors.Is(err, ErrNotCancelable):
			response.Error(c, http.StatusConflict, "INVALID_STATUS", "Announcement is no longer active")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel announcement")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}
