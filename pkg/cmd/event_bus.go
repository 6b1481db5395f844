package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/atriumhq/atrium/pkg/channels/gochannel"
	"github.com/atriumhq/atrium/pkg/channels/kafka"
	"github.com/atriumhq/atrium/pkg/eventbus"
)

// NewEventBus creates the draft event bus. Kafka is used in deployed
// environments; everything else gets an in-process channel.
func NewEventBus(provider, serviceName string, logger *slog.Logger) (eventbus.EventBus, error) {
	watermillLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermillLogger, serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka channel: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		pub, sub, err := gochannel.CreateChannel(watermillLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-process channel: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	}
}
