package player

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/stretchr/testify/require"
)

func hotspot(id string) models.Region {
	return models.Region{ID: id, Kind: models.RegionHotspot, Box: models.Box{X: 10, Y: 10, W: 20, H: 20}}
}

func input(id, expected string) models.Region {
	return models.Region{ID: id, Kind: models.RegionInput, Box: models.Box{X: 40, Y: 40, W: 80, H: 20}, Expected: expected}
}

func frame(id string, regions ...models.Region) models.Frame {
	return models.Frame{ID: id, Image: id + ".png", Width: 640, Height: 480, Regions: regions}
}

// threeFrames: f1 has one hotspot, f2 one input, f3 one hotspot and one input.
func threeFrames() []models.Frame {
	return []models.Frame{
		frame("f1", hotspot("h1")),
		frame("f2", input("i1", "Paris")),
		frame("f3", hotspot("h2"), input("i2", "42")),
	}
}

func newTestSession(t *testing.T, frames []models.Frame, opts ...Option) (*Session, *ManualScheduler) {
	t.Helper()
	sched := NewManualScheduler()
	base := []Option{
		WithScheduler(sched),
		WithClock(func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }),
	}
	s, err := NewSession("sess-1", frames, append(base, opts...)...)
	require.NoError(t, err)
	return s, sched
}
