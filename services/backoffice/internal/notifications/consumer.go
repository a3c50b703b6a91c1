package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/appetiteclub/staffops/pkg/event"
)

// Topics feeding the notification list.
func Topics() []string {
	return []string{
		event.StaffTasksTopic,
		event.StaffInventoryTopic,
		event.StaffRequestsTopic,
		event.StaffFinanceTopic,
	}
}

// Consumer stores a notification for every staff event worth showing.
type Consumer struct {
	subscriber events.Subscriber
	repo       NotificationRepo
	topics     []string
	logger     aqm.Logger
}

func NewConsumer(sub events.Subscriber, repo NotificationRepo, logger aqm.Logger) *Consumer {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Consumer{
		subscriber: sub,
		repo:       repo,
		topics:     Topics(),
		logger:     logger,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	if c.subscriber == nil {
		return fmt.Errorf("notification consumer not configured")
	}
	for _, topic := range c.topics {
		c.logger.Info("starting notification consumer", "topic", topic)
		if err := c.subscriber.Subscribe(ctx, topic, c.Handle); err != nil {
			return fmt.Errorf("cannot subscribe to %s: %w", topic, err)
		}
	}
	return nil
}

// Handle is the events.HandlerFunc for every staff topic. Malformed and
// duplicate events are dropped; storage failures are returned so a stream
// consumer can redeliver.
func (c *Consumer) Handle(ctx context.Context, msg []byte) error {
	n, err := FromEvent(msg)
	if err != nil {
		c.logger.Info("dropping staff event", "error", err)
		return nil
	}
	if n == nil {
		return nil
	}

	if err := c.repo.Create(ctx, n); err != nil {
		if errors.Is(err, ErrDuplicateNotification) {
			c.logger.Debug("notification already recorded", "source", n.SourceKey)
			return nil
		}
		return fmt.Errorf("cannot store notification: %w", err)
	}

	c.logger.Debug("notification recorded", "type", n.Type, "id", n.ID.String())
	return nil
}
