package services

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/frame-player/internal/events"
	"github.com/SAP-F-2025/frame-player/internal/loader"
	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/SAP-F-2025/frame-player/internal/player"
	"github.com/SAP-F-2025/frame-player/internal/repositories"
	"github.com/SAP-F-2025/frame-player/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockFrameSetRepository is a mock implementation of FrameSetRepository
type MockFrameSetRepository struct {
	mock.Mock
}

func (m *MockFrameSetRepository) Create(ctx context.Context, tx *gorm.DB, set *models.FrameSet) error {
	args := m.Called(ctx, tx, set)
	return args.Error(0)
}

func (m *MockFrameSetRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.FrameSet, error) {
	args := m.Called(ctx, tx, id)
	set, _ := args.Get(0).(*models.FrameSet)
	return set, args.Error(1)
}

func (m *MockFrameSetRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.FrameSet, error) {
	args := m.Called(ctx, tx, name)
	set, _ := args.Get(0).(*models.FrameSet)
	return set, args.Error(1)
}

func (m *MockFrameSetRepository) Update(ctx context.Context, tx *gorm.DB, set *models.FrameSet) error {
	args := m.Called(ctx, tx, set)
	return args.Error(0)
}

func (m *MockFrameSetRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockFrameSetRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.FrameSetFilters) ([]*models.FrameSet, int64, error) {
	args := m.Called(ctx, tx, filters)
	return args.Get(0).([]*models.FrameSet), args.Get(1).(int64), args.Error(2)
}

func (m *MockFrameSetRepository) ExistsByName(ctx context.Context, tx *gorm.DB, name string, excludeID *uint) (bool, error) {
	args := m.Called(ctx, tx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

const testFramesJSON = `[
	{"image": "a.png", "hotspots": [{"x": 1, "y": 1, "w": 5, "h": 5, "label": "button"}]},
	{"image": "b.png", "inputs": [{"x": 2, "y": 2, "w": 30, "h": 8, "expected": "Paris"}]}
]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func writeBundle(t *testing.T, dataJSON string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, loader.DataFileName), []byte(dataJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), pngBytes(t, 64, 48), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), pngBytes(t, 32, 16), 0o644))
	return dir
}

func zipBundle(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// testClock is a settable clock shared by the service and its sessions
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type serviceFixture struct {
	service   SessionService
	sched     *player.ManualScheduler
	clock     *testClock
	publisher *events.MockEventPublisher
	repo      *MockFrameSetRepository
}

func newServiceFixture(t *testing.T, dataJSON string) *serviceFixture {
	t.Helper()

	dir, err := loader.NewDirSource(writeBundle(t, dataJSON))
	require.NoError(t, err)

	f := &serviceFixture{
		sched:     player.NewManualScheduler(),
		clock:     &testClock{now: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)},
		publisher: events.NewMockEventPublisher(testLogger()),
		repo:      &MockFrameSetRepository{},
	}

	v := validator.New()
	f.service = NewSessionService(
		SessionServiceConfig{
			Policy:       player.DefaultPolicy(),
			IdleTTL:      10 * time.Minute,
			DimensionTTL: time.Hour,
			Scheduler:    f.sched,
			Now:          f.clock.Now,
		},
		loader.NewNormalizer(v, testLogger()),
		v,
		dir,
		f.repo,
		nil,
		f.publisher,
		testLogger(),
	)
	t.Cleanup(f.service.Close)
	return f
}

func (f *serviceFixture) eventTypes() []events.EventType {
	var out []events.EventType
	for _, e := range f.publisher.GetPublishedEvents() {
		out = append(out, e.Type)
	}
	return out
}
