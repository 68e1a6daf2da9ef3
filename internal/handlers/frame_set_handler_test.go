package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/SAP-F-2025/frame-player/internal/repositories"
	"github.com/SAP-F-2025/frame-player/internal/services"
	"github.com/SAP-F-2025/frame-player/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFrameSetService struct {
	mock.Mock
}

func (m *MockFrameSetService) Create(ctx context.Context, req *services.CreateFrameSetRequest) (*models.FrameSet, error) {
	args := m.Called(ctx, req)
	set, _ := args.Get(0).(*models.FrameSet)
	return set, args.Error(1)
}

func (m *MockFrameSetService) Get(ctx context.Context, id uint) (*models.FrameSet, error) {
	args := m.Called(ctx, id)
	set, _ := args.Get(0).(*models.FrameSet)
	return set, args.Error(1)
}

func (m *MockFrameSetService) List(ctx context.Context, filters repositories.FrameSetFilters) (*services.FrameSetListResponse, error) {
	args := m.Called(ctx, filters)
	out, _ := args.Get(0).(*services.FrameSetListResponse)
	return out, args.Error(1)
}

func (m *MockFrameSetService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newFrameSetRouter(svc services.FrameSetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := gin.New()
	NewHandlerManager(nil, svc, nil, "", logger).SetupRoutes(router)
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFrameSetHandler(t *testing.T) {
	svc := &MockFrameSetService{}
	router := newFrameSetRouter(svc)

	svc.On("Create", mock.Anything, mock.MatchedBy(func(req *services.CreateFrameSetRequest) bool {
		return req.Name == "intro"
	})).Return(&models.FrameSet{ID: 3, Name: "intro"}, nil)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(req *services.CreateFrameSetRequest) bool {
		return req.Name == "taken"
	})).Return(nil, services.ErrFrameSetDuplicateName)
	svc.On("Get", mock.Anything, uint(9)).Return(nil, services.ErrFrameSetNotFound)
	svc.On("List", mock.Anything, mock.MatchedBy(func(f repositories.FrameSetFilters) bool {
		return f.Search == "in" && f.Limit == 5
	})).Return(&services.FrameSetListResponse{Total: 1, Limit: 5}, nil)
	svc.On("Delete", mock.Anything, uint(3)).Return(nil)

	w := serve(router, http.MethodPost, "/api/v1/frame-sets", `{"name": "intro", "definition": [{"image": "a.png"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"id":3`)

	w = serve(router, http.MethodPost, "/api/v1/frame-sets", `{"name": "taken", "definition": []}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/frame-sets/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/frame-sets/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/frame-sets?search=in&limit=5", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodDelete, "/api/v1/frame-sets/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var deleted SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	assert.Equal(t, "Frame set deleted", deleted.Message)
	assert.Equal(t, map[string]interface{}{"id": 3.0}, deleted.Data)

	svc.AssertExpectations(t)
}

func TestHealth(t *testing.T) {
	w := serve(newFrameSetRouter(&MockFrameSetService{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "frame-player")
}
