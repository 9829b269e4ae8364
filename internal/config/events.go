package config

import (
	"log/slog"
	"strings"

	"github.com/edusync/task-automation-service/internal/events"
)

// EventConfig holds configuration for submission event publishing.
type EventConfig struct {
	Enabled         bool
	Publisher       string // kafka, channel or mock
	KafkaBrokers    string
	SubmissionTopic string
}

// GetKafkaBrokers returns the configured Kafka brokers as a slice.
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateEventPublisher creates an event publisher based on configuration.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.SubmissionTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.SubmissionTopic,
			Logger:       logger,
		})
	case "channel":
		logger.Info("Creating in-process event publisher", "topic", c.SubmissionTopic)
		return events.NewChannelEventPublisher(c.SubmissionTopic, logger), nil
	default:
		logger.Info("Unknown publisher type, using mock publisher", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
