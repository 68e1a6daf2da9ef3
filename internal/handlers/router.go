package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/frame-player/internal/services"
	"github.com/SAP-F-2025/frame-player/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	sessionHandler  *SessionHandler
	frameSetHandler *FrameSetHandler
	assetDir        string
}

// NewHandlerManager wires the HTTP handlers. frameSetService may be nil when no
// database is configured; the frame set routes are then not registered.
func NewHandlerManager(
	sessionService services.SessionService,
	frameSetService services.FrameSetService,
	reportService services.ReportService,
	assetDir string,
	logger utils.Logger,
) *HandlerManager {
	hm := &HandlerManager{
		sessionHandler: NewSessionHandler(sessionService, reportService, logger),
		assetDir:       assetDir,
	}
	if frameSetService != nil {
		hm.frameSetHandler = NewFrameSetHandler(frameSetService, logger)
	}
	return hm
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.POST("/upload", hm.sessionHandler.UploadSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.EndSession)

			// Navigation
			sessions.POST("/:id/next", hm.sessionHandler.NextFrame)
			sessions.POST("/:id/prev", hm.sessionHandler.PrevFrame)

			// Interaction on the current frame
			sessions.PUT("/:id/frames/:frame_id/inputs/:region_id", hm.sessionHandler.RecordInput)
			sessions.POST("/:id/frames/:frame_id/hotspots/:region_id/click", hm.sessionHandler.ClickHotspot)
			sessions.POST("/:id/frames/:frame_id/mistakes", hm.sessionHandler.RecordMistake)

			// Results
			sessions.GET("/:id/result", hm.sessionHandler.GetResult)
			sessions.GET("/:id/review", hm.sessionHandler.GetReview)
			sessions.GET("/:id/report", hm.sessionHandler.ExportReport)

			sessions.GET("/:id/assets/*filepath", hm.sessionHandler.GetAsset)
		}

		if hm.frameSetHandler != nil {
			frameSets := v1.Group("/frame-sets")
			{
				frameSets.POST("", hm.frameSetHandler.CreateFrameSet)
				frameSets.GET("", hm.frameSetHandler.ListFrameSets)
				frameSets.GET("/:id", hm.frameSetHandler.GetFrameSet)
				frameSets.DELETE("/:id", hm.frameSetHandler.DeleteFrameSet)
			}
		}
	}

	if hm.assetDir != "" {
		assets := http.Dir(hm.assetDir)
		router.GET("/assets/*filepath", func(c *gin.Context) {
			name := c.Param("filepath")
			if isFrameDefinition(name) {
				c.JSON(http.StatusNotFound, ErrorResponse{Message: "Asset not found"})
				return
			}
			c.FileFromFS(name, assets)
		})
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "frame-player",
		})
	})
}
