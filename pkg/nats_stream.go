package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSStream is a JetStream backed publisher and durable consumer. Staff
// events go through it when nats.stream.enabled is set so notifications
// survive a backoffice restart.
type NATSStream struct {
	conn     *nats.Conn
	js       jetstream.JetStream
	stream   jetstream.Stream
	consumer jetstream.Consumer
	consume  jetstream.ConsumeContext
	logger   aqm.Logger
}

type NATSStreamConfig struct {
	URL          string
	Name         string
	StreamName   string   // e.g. "STAFF_EVENTS"
	Subjects     []string // e.g. "staff.tasks", "staff.inventory"
	ConsumerName string   // durable consumer, empty for publish-only use
	MaxAge       time.Duration
	MaxMsgs      int64
}

func NewNATSStream(ctx context.Context, cfg NATSStreamConfig, logger aqm.Logger) (*NATSStream, error) {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if len(cfg.Subjects) == 0 {
		return nil, fmt.Errorf("stream %s needs at least one subject", cfg.StreamName)
	}

	conn, err := connectNATS(cfg.URL, cfg.Name+"-stream", logger)
	if err != nil {
		return nil, err
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamConfig := jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: cfg.Subjects,
		MaxAge:   cfg.MaxAge,
	}
	if cfg.MaxMsgs > 0 {
		streamConfig.MaxMsgs = cfg.MaxMsgs
	}

	stream, err := js.CreateOrUpdateStream(ctx, streamConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create/update stream %s: %w", cfg.StreamName, err)
	}

	s := &NATSStream{
		conn:   conn,
		js:     js,
		stream: stream,
		logger: logger,
	}

	if cfg.ConsumerName == "" {
		return s, nil
	}

	consumerConfig := jetstream.ConsumerConfig{
		Name:           cfg.ConsumerName,
		Durable:        cfg.ConsumerName,
		AckPolicy:      jetstream.AckExplicitPolicy,
		DeliverPolicy:  jetstream.DeliverAllPolicy,
		FilterSubjects: cfg.Subjects,
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, consumerConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create/update consumer %s: %w", cfg.ConsumerName, err)
	}
	s.consumer = consumer

	return s, nil
}

func (s *NATSStream) Publish(ctx context.Context, topic string, msg []byte) error {
	if _, err := s.js.Publish(ctx, topic, msg); err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}
	return nil
}

// Fetch pulls up to limit pending messages and acknowledges them.
func (s *NATSStream) Fetch(ctx context.Context, limit int) ([]events.StreamMessage, error) {
	if s.consumer == nil {
		return nil, fmt.Errorf("stream has no consumer")
	}
	if limit <= 0 {
		limit = 1000
	}

	batch, err := s.consumer.Fetch(limit, jetstream.FetchMaxWait(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []events.StreamMessage
	for msg := range batch.Messages() {
		metadata, err := msg.Metadata()
		if err != nil {
			_ = msg.Ack()
			continue
		}

		messages = append(messages, events.StreamMessage{
			Data:      msg.Data(),
			Sequence:  metadata.Sequence.Stream,
			Timestamp: metadata.Timestamp.UnixNano(),
		})
		_ = msg.Ack()
	}

	return messages, batch.Error()
}

// SubscribeStream consumes new messages; a handler error naks the message
// so JetStream redelivers it.
func (s *NATSStream) SubscribeStream(ctx context.Context, handler events.HandlerFunc) error {
	if s.consumer == nil {
		return fmt.Errorf("stream has no consumer")
	}
	cc, err := s.consumer.Consume(func(msg jetstream.Msg) {
		if err := handler(ctx, msg.Data()); err != nil {
			s.logger.Error("stream handler failed", "subject", msg.Subject(), "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("cannot consume stream: %w", err)
	}
	s.consume = cc
	return nil
}

// Subscribe satisfies events.Subscriber. The consumer is already bound to
// the configured subjects, so topic only matters for logging.
func (s *NATSStream) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if s.consume != nil {
		s.logger.Debug("stream consumer already running", "topic", topic)
		return nil
	}
	return s.SubscribeStream(ctx, handler)
}

func (s *NATSStream) Close() error {
	if s.consume != nil {
		s.consume.Stop()
	}
	s.conn.Close()
	return nil
}
