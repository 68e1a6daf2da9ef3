package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1}, watermill.NopLogger{})
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), "sessions")
	require.NoError(t, err)

	publisher := NewWatermillEventPublisher(pubSub, "sessions", logger)
	event := &SessionEvent{
		ID:        "evt-1",
		Type:      EventSessionCompleted,
		Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Source:    "frame-player",
		Version:   "1.0",
		SessionID: "sess-1",
		Data:      SessionCompletedEvent{Score: 3, TotalPossible: 4, Percentage: 75},
	}
	require.NoError(t, publisher.PublishSessionEvent(context.Background(), event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "evt-1", msg.UUID)
		assert.Equal(t, "session.completed", msg.Metadata.Get("event_type"))
		assert.Equal(t, "sess-1", msg.Metadata.Get("session_id"))

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		data := decoded["data"].(map[string]interface{})
		assert.Equal(t, float64(3), data["score"])
		assert.Equal(t, float64(4), data["total_possible"])
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestMockEventPublisher(t *testing.T) {
	m := NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, m.PublishSessionEvent(context.Background(), &SessionEvent{ID: "1", Type: EventSessionStarted}))
	require.NoError(t, m.PublishSessionEvent(context.Background(), &SessionEvent{ID: "2", Type: EventSessionEnded}))

	got := m.GetPublishedEvents()
	require.Len(t, got, 2)
	assert.Equal(t, EventSessionEnded, got[1].Type)

	m.ClearEvents()
	assert.Empty(t, m.GetPublishedEvents())
}
