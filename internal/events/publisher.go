package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher defines the interface for publishing session events
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, event *SessionEvent) error
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Watermill with Kafka
type KafkaEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig holds configuration for the event publisher
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

// NewKafkaEventPublisher creates a new Kafka-based event publisher using Watermill
func NewKafkaEventPublisher(config PublisherConfig) (*KafkaEventPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return NewWatermillEventPublisher(publisher, config.TopicName, config.Logger), nil
}

// NewWatermillEventPublisher publishes through any watermill publisher (e.g. gochannel in tests)
func NewWatermillEventPublisher(publisher message.Publisher, topic string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		publisher: publisher,
		logger:    logger,
		topicName: topic,
	}
}

// PublishSessionEvent publishes a session event, keyed by session id
func (p *KafkaEventPublisher) PublishSessionEvent(ctx context.Context, event *SessionEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.SetContext(ctx)

	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("session_id", event.SessionID)
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format("2006-01-02T15:04:05Z07:00"))

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Failed to publish session event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	p.logger.Info("Published session event",
		"event_id", event.ID,
		"event_type", event.Type,
		"session_id", event.SessionID,
		"topic", p.topicName)

	return nil
}

// Close closes the publisher and releases resources
func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// MockEventPublisher keeps events in memory
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []SessionEvent
	Logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]SessionEvent, 0),
		Logger: logger,
	}
}

func (m *MockEventPublisher) PublishSessionEvent(ctx context.Context, event *SessionEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, *event)
	m.mu.Unlock()

	m.Logger.Debug("Mock: Published session event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of all published events
func (m *MockEventPublisher) GetPublishedEvents() []SessionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SessionEvent(nil), m.Events...)
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = make([]SessionEvent, 0)
}
