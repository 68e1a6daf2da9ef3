package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/frame-player/internal/cache"
	"github.com/SAP-F-2025/frame-player/internal/config"
	"github.com/SAP-F-2025/frame-player/internal/handlers"
	"github.com/SAP-F-2025/frame-player/internal/loader"
	"github.com/SAP-F-2025/frame-player/internal/player"
	"github.com/SAP-F-2025/frame-player/internal/repositories"
	"github.com/SAP-F-2025/frame-player/internal/repositories/postgres"
	"github.com/SAP-F-2025/frame-player/internal/services"
	"github.com/SAP-F-2025/frame-player/internal/utils"
	"github.com/SAP-F-2025/frame-player/internal/validator"
	"github.com/SAP-F-2025/frame-player/pkg"
	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	printStartUpBanner()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, logCloser := utils.NewLogger(utils.LoggerOptions{
		Development: cfg.IsDevelopment(),
		FilePath:    cfg.LogFile,
	})
	defer logCloser.Close()
	slogger := utils.ToSlogLogger(logger)

	// Dimension cache: redis when configured, in memory otherwise
	dimensions := cache.NewMemoryCache()
	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, caching image sizes in memory", "error", err)
		} else {
			defer client.Close()
			dimensions = cache.NewRedisCache(client, "frame-player", slogger)
		}
	}

	// Frame sets need postgres
	var frameSetRepo repositories.FrameSetRepository
	if cfg.DatabaseURL != "" {
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			logger.Error("Database unavailable, frame sets disabled", "error", err)
		} else {
			frameSetRepo = postgres.NewFrameSetPostgreSQL(db)
		}
	}

	assetDir, err := loader.NewDirSource(cfg.AssetDir)
	if err != nil {
		logger.Warn("Asset directory unavailable, only uploaded bundles can be played", "dir", cfg.AssetDir, "error", err)
		assetDir = nil
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		log.Fatalf("failed to create event publisher: %v", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	v := validator.New()
	normalizer := loader.NewNormalizer(v, slogger, loader.WithConcurrency(cfg.LoaderConcurrency))

	sessionService := services.NewSessionService(
		services.SessionServiceConfig{
			Policy: player.Policy{
				AutoAdvance:   cfg.AutoAdvance,
				AdvanceDelay:  cfg.AdvanceDelay,
				FlashDuration: cfg.FlashDuration,
			},
			IdleTTL:       cfg.SessionIdleTTL,
			DimensionTTL:  24 * time.Hour,
			AssetBasePath: "/api/v1/sessions",
		},
		normalizer, v, assetDir, frameSetRepo, dimensions, publisher, slogger,
	)
	defer sessionService.Close()

	var frameSetService services.FrameSetService
	if frameSetRepo != nil {
		frameSetService = services.NewFrameSetService(frameSetRepo, normalizer, v, slogger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SessionIdleTTL > 0 {
		go sessionService.RunJanitor(ctx, time.Minute)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(logger), utils.ContextLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	staticDir := ""
	if assetDir != nil {
		staticDir = cfg.AssetDir
	}
	handlers.NewHandlerManager(sessionService, frameSetService, services.NewReportService(), staticDir, logger).
		SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Frame player listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func printStartUpBanner() {
	figure.NewFigure("FRAME PLAYER", "", true).Print()
	fmt.Println("======================================================")
}
