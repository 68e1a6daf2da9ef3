package handlers

import (
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	apperrors "github.com/SAP-F-2025/frame-player/internal/errors"
	"github.com/SAP-F-2025/frame-player/internal/loader"
	"github.com/SAP-F-2025/frame-player/internal/services"
	"github.com/gin-gonic/gin"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := c.Param(param)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

func ParseUintIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID must be a positive integer",
		})
		return 0
	}
	return uint(id)
}

// isFrameDefinition reports whether an asset path names a data.json, which holds
// the expected answers and is never served.
func isFrameDefinition(name string) bool {
	return strings.EqualFold(path.Base(name), loader.DataFileName)
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return c.Writer.Header().Get("X-Request-ID")
}

// handleServiceError maps service errors to HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var dataFormatError *apperrors.DataFormatError
	if errors.As(err, &dataFormatError) {
		h.RespondWithError(c, http.StatusBadRequest, "Could not load frame data", nil, services.FormatError(err))
		return
	}

	var assetError *apperrors.AssetError
	if errors.As(err, &assetError) {
		h.RespondWithError(c, http.StatusUnprocessableEntity, assetError.Error(), nil, services.FormatError(err))
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", nil, validationErrors)
		return
	}

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Session not found", nil)
	case errors.Is(err, services.ErrFrameSetNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Frame set not found", nil)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found", nil)
	case errors.Is(err, services.ErrNotReviewing):
		var rule *services.BusinessRuleError
		if errors.As(err, &rule) {
			h.RespondWithError(c, http.StatusConflict, "Session has not finished yet", nil, rule)
			return
		}
		h.RespondWithError(c, http.StatusConflict, "Session has not finished yet", nil)
	case errors.Is(err, services.ErrFrameSetDuplicateName):
		h.RespondWithError(c, http.StatusConflict, "Frame set name already exists", nil)
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), nil)
	case services.IsUnavailable(err):
		h.RespondWithError(c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
