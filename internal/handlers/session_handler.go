package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/SAP-F-2025/frame-player/internal/services"
	"github.com/SAP-F-2025/frame-player/internal/utils"
	"github.com/gin-gonic/gin"
)

// MaxUploadSize caps uploaded zip bundles
const MaxUploadSize = 64 << 20

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	reportService  services.ReportService
}

func NewSessionHandler(
	sessionService services.SessionService,
	reportService services.ReportService,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		reportService:  reportService,
	}
}

type InputTextRequest struct {
	Text string `json:"text"`
}

// StartSession starts a session from the asset directory or a stored frame set
// @Summary Start session
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body services.StartRequest false "Session source"
// @Success 201 {object} models.SessionSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req services.StartRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
	}
	if req.Source == models.SourceZip {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Zip bundles must be uploaded to /sessions/upload",
		})
		return
	}

	h.LogRequest(c, "Starting session", "source", req.Source, "frame_set", req.FrameSet)

	snap, err := h.sessionService.Start(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snap)
}

// UploadSession starts a session from an uploaded zip holding data.json and images
// @Summary Start session from zip
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Zip bundle"
// @Success 201 {object} models.SessionSnapshot
// @Failure 400 {object} ErrorResponse
// @Router /sessions/upload [post]
func (h *SessionHandler) UploadSession(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "No file uploaded",
			Details: err.Error(),
		})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".zip") {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported file format. Please upload a .zip bundle",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Could not read uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Could not read uploaded file", err)
		return
	}

	h.LogRequest(c, "Starting session from upload", "filename", fileHeader.Filename, "size", len(data))

	snap, err := h.sessionService.Start(c.Request.Context(), &services.StartRequest{
		Source:  models.SourceZip,
		Archive: data,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snap)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) NextFrame(c *gin.Context) {
	h.act(c, func(id string) (*services.ActionResult, error) {
		return h.sessionService.Next(c.Request.Context(), id)
	})
}

func (h *SessionHandler) PrevFrame(c *gin.Context) {
	h.act(c, func(id string) (*services.ActionResult, error) {
		return h.sessionService.Prev(c.Request.Context(), id)
	})
}

// RecordInput stores the text typed into an input box of the current frame
// @Summary Record input text
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body InputTextRequest true "Typed text"
// @Success 200 {object} services.ActionResult
// @Router /sessions/{id}/frames/{frame_id}/inputs/{region_id} [put]
func (h *SessionHandler) RecordInput(c *gin.Context) {
	var req InputTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.act(c, func(id string) (*services.ActionResult, error) {
		return h.sessionService.Input(c.Request.Context(), id, c.Param("frame_id"), c.Param("region_id"), req.Text)
	})
}

func (h *SessionHandler) ClickHotspot(c *gin.Context) {
	h.act(c, func(id string) (*services.ActionResult, error) {
		return h.sessionService.ClickHotspot(c.Request.Context(), id, c.Param("frame_id"), c.Param("region_id"))
	})
}

// RecordMistake registers a click on the frame background
func (h *SessionHandler) RecordMistake(c *gin.Context) {
	h.act(c, func(id string) (*services.ActionResult, error) {
		return h.sessionService.Mistake(c.Request.Context(), id, c.Param("frame_id"))
	})
}

// act runs one interaction. Ignored interactions still answer 200 with applied=false.
func (h *SessionHandler) act(c *gin.Context, fn func(id string) (*services.ActionResult, error)) {
	start := time.Now()
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	res, err := fn(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if !res.Applied {
		h.LogDebug(c, "Interaction ignored", "session_id", id, "mode", res.Session.Mode)
	}
	h.LogResponse(c, start, http.StatusOK, "Interaction handled",
		"session_id", id, "applied", res.Applied, "frame_index", res.Session.FrameIndex)
	c.JSON(http.StatusOK, res)
}

func (h *SessionHandler) GetResult(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	res, err := h.sessionService.Result(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"score":                res.Scored,
		"total_possible":       res.Total,
		"mistake_frames_count": res.MistakeFrameCount,
		"percentage":           res.Percentage(),
	})
}

func (h *SessionHandler) GetReview(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	review, err := h.sessionService.Review(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ExportReport downloads the review breakdown
// @Summary Export review report
// @Tags sessions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "xlsx, csv or pdf"
// @Router /sessions/{id}/report [get]
func (h *SessionHandler) ExportReport(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	review, err := h.sessionService.Review(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	format := services.ReportFormat(strings.ToLower(c.Query("format")))
	if format == "" {
		format = services.ReportXLSX
	}
	data, err := h.reportService.Export(review, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("session_%s_review.%s", id, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// GetAsset serves an image of the session's asset bundle
func (h *SessionHandler) GetAsset(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	name := strings.TrimPrefix(c.Param("filepath"), "/")
	if isFrameDefinition(name) {
		h.RespondWithError(c, http.StatusNotFound, "Asset not found", nil)
		return
	}

	assets, err := h.sessionService.Assets(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.FileFromFS(name, http.FS(assets))
}

func (h *SessionHandler) EndSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.sessionService.End(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
