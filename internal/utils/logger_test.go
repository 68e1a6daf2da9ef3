package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.log")

	logger, closer := NewLogger(LoggerOptions{FilePath: path})
	logger.With("session_id", "s-1").Info("session started", "frames", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "session started", line["msg"])
	assert.Equal(t, "s-1", line["session_id"])
	assert.Equal(t, float64(3), line["frames"])
}

func TestFanoutHandlerRespectsLevels(t *testing.T) {
	var info, debug bytes.Buffer
	h := fanoutHandler{
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}
	logger := slog.New(h)

	logger.Debug("only debug")
	assert.Zero(t, info.Len())
	assert.Contains(t, debug.String(), "only debug")

	logger.WithGroup("g").Info("both", "k", "v")
	assert.Contains(t, info.String(), `"g":{"k":"v"}`)
	assert.Contains(t, debug.String(), `"g":{"k":"v"}`)
}

func TestContextLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ContextLogger(NewSlogLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))))

	var fromCtx Logger
	r.GET("/ping", func(c *gin.Context) {
		fromCtx = GetLoggerFromContext(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.NotNil(t, fromCtx)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestNewLoggerConsoleHandlers(t *testing.T) {
	dev, closer := NewLogger(LoggerOptions{Development: true})
	require.NoError(t, closer.Close())
	devHandler := ToSlogLogger(dev).Handler()
	assert.True(t, devHandler.Enabled(context.Background(), slog.LevelDebug))
	assert.NotEqual(t, "*slog.JSONHandler", fmt.Sprintf("%T", devHandler))

	prod, closer := NewLogger(LoggerOptions{})
	require.NoError(t, closer.Close())
	prodHandler := ToSlogLogger(prod).Handler()
	assert.False(t, prodHandler.Enabled(context.Background(), slog.LevelDebug))
	assert.IsType(t, &slog.JSONHandler{}, prodHandler)
}

func TestGetLoggerFromContextFallsBackToDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	logger := GetLoggerFromContext(c)
	require.IsType(t, &SlogLogger{}, logger)
	assert.IsType(t, &slog.JSONHandler{}, ToSlogLogger(logger).Handler())
}
