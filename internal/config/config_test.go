package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/frame-player/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("AUTO_ADVANCE", "")
	t.Setenv("ADVANCE_DELAY", "")
	t.Setenv("FLASH_DURATION", "")
	t.Setenv("EVENTS_ENABLED", "")

	cfg, err := LoadConfig()
	require.NoError(t, err, "a missing .env file is not an error")

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.AutoAdvance)
	assert.Equal(t, 200*time.Millisecond, cfg.AdvanceDelay)
	assert.Equal(t, 700*time.Millisecond, cfg.FlashDuration)
	assert.False(t, cfg.Events.Enabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTO_ADVANCE", "false")
	t.Setenv("ADVANCE_DELAY", "1s")
	t.Setenv("SESSION_IDLE_TTL", "5m")
	t.Setenv("LOADER_CONCURRENCY", "2")
	t.Setenv("FLASH_DURATION", "not-a-duration")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.AutoAdvance)
	assert.Equal(t, time.Second, cfg.AdvanceDelay)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, 2, cfg.LoaderConcurrency)
	assert.Equal(t, 700*time.Millisecond, cfg.FlashDuration, "invalid values fall back to the default")
}

func TestEventConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := EventConfig{KafkaBrokers: "a:9092, b:9092,"}
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.GetKafkaBrokers())

	pub, err := c.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, pub)

	c = EventConfig{Enabled: true, Publisher: "carrier-pigeon"}
	pub, err = c.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, pub)
}
