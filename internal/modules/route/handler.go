package route

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/routes")
	{
		g.POST("", h.CreateRoute)
		g.GET("", h.GetMyRoutes)
		g.GET("/:id", h.GetRoute)
		g.GET("/:id/matches", h.GetRouteMatches)
		g.DELETE("/:id", h.DeactivateRoute)
	}
}

func (h *Handler) CreateRoute(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rt, err := h.service.CreateRoute(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid route dates or capacity")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create route")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"route": rt})
}

func (h *Handler) GetMyRoutes(c *gin.Context) {
	list, err := h.service.GetMyRoutes(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list routes")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"routes": list})
}

func (h *Handler) GetRoute(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid route ID")
		return
	}

	rt, err := h.service.GetRoute(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"route": rt})
}

func (h *Handler) GetRouteMatches(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid route ID")
		return
	}

	matches, err := h.service.GetRouteMatches(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"matches": matches})
}

func (h *Handler) DeactivateRoute(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid route ID")
		return
	}

	if err := h.service.DeactivateRoute(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Route belongs to another deliverer")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed")
	}
}
