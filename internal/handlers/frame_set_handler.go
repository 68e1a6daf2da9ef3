package handlers

import (
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/frame-player/internal/repositories"
	"github.com/SAP-F-2025/frame-player/internal/services"
	"github.com/SAP-F-2025/frame-player/internal/utils"
	"github.com/gin-gonic/gin"
)

type FrameSetHandler struct {
	BaseHandler
	frameSetService services.FrameSetService
}

func NewFrameSetHandler(frameSetService services.FrameSetService, logger utils.Logger) *FrameSetHandler {
	return &FrameSetHandler{
		BaseHandler:     NewBaseHandler(logger),
		frameSetService: frameSetService,
	}
}

// CreateFrameSet stores a named frame definition list
// @Summary Create frame set
// @Tags frame-sets
// @Accept json
// @Produce json
// @Param request body services.CreateFrameSetRequest true "Frame set"
// @Success 201 {object} models.FrameSet
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /frame-sets [post]
func (h *FrameSetHandler) CreateFrameSet(c *gin.Context) {
	var req services.CreateFrameSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating frame set", "name", req.Name)

	set, err := h.frameSetService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, set)
}

func (h *FrameSetHandler) GetFrameSet(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	set, err := h.frameSetService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, set)
}

func (h *FrameSetHandler) ListFrameSets(c *gin.Context) {
	filters := repositories.FrameSetFilters{
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}

	out, err := h.frameSetService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *FrameSetHandler) DeleteFrameSet(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.frameSetService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Frame set deleted", gin.H{"id": id})
}
