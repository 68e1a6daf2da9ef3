package events

import (
	"time"

	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/google/uuid"
)

// EventType represents the lifecycle events of a player session
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"
	EventSessionEnded     EventType = "session.ended"
)

// EndReason tells why a session left the registry
type EndReason string

const (
	EndReasonClosed  EndReason = "closed"
	EndReasonExpired EndReason = "expired"
)

// SessionEvent is the envelope of every session event
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	SessionID string                 `json:"session_id"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Payloads

type SessionStartedEvent struct {
	Source     models.SessionSource `json:"source"`
	FrameSet   string               `json:"frame_set,omitempty"`
	FrameCount int                  `json:"frame_count"`
	StartedAt  time.Time            `json:"started_at"`
}

type SessionCompletedEvent struct {
	Score             int       `json:"score"`
	TotalPossible     int       `json:"total_possible"`
	Percentage        float64   `json:"percentage"`
	MistakeFrameCount int       `json:"mistake_frames_count"`
	CompletedAt       time.Time `json:"completed_at"`
}

type SessionEndedEvent struct {
	Reason    EndReason `json:"reason"`
	Completed bool      `json:"completed"`
	EndedAt   time.Time `json:"ended_at"`
}

const (
	EventSource  = "frame-player"
	EventVersion = "1.0"
)

// NewSessionEvent fills the envelope of a session event
func NewSessionEvent(eventType EventType, sessionID string, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    EventSource,
		Version:   EventVersion,
		SessionID: sessionID,
		Data:      data,
	}
}

func GenerateEventID() string {
	return uuid.NewString()
}
