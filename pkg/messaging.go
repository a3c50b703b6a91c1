package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/appetiteclub/staffops/pkg/event"
)

const StaffStreamName = "STAFF_EVENTS"

// StaffSubjects lists every topic carried by the staff stream.
func StaffSubjects() []string {
	return []string{
		event.StaffTasksTopic,
		event.StaffInventoryTopic,
		event.StaffRequestsTopic,
		event.StaffFinanceTopic,
	}
}

func StaffStreamConfig(url, name, consumer string) NATSStreamConfig {
	return NATSStreamConfig{
		URL:          url,
		Name:         name,
		StreamName:   StaffStreamName,
		Subjects:     StaffSubjects(),
		ConsumerName: consumer,
		MaxAge:       7 * 24 * time.Hour,
	}
}

type closablePublisher interface {
	events.Publisher
	Close() error
}

// NewPublisherFromConfig returns a JetStream publisher when
// nats.stream.enabled is true and a core NATS one otherwise.
func NewPublisherFromConfig(ctx context.Context, config *aqm.Config, name string, logger aqm.Logger) (events.Publisher, func(context.Context) error, error) {
	natsURL := config.GetStringOrDef("nats.url", DefaultNATSURL)

	var (
		publisher closablePublisher
		err       error
	)
	if BoolOrDef(config, "nats.stream.enabled", false) {
		publisher, err = NewNATSStream(ctx, StaffStreamConfig(natsURL, name, ""), logger)
	} else {
		publisher, err = NewNATSPublisher(natsURL, name, logger)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create %s publisher: %w", name, err)
	}

	closeFn := func(context.Context) error {
		return publisher.Close()
	}
	return publisher, closeFn, nil
}
