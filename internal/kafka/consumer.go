package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type EventHandler func(ctx context.Context, event FlowEvent) error

type Consumer struct {
	reader MessageReader
	log    *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return NewConsumerFromReader(reader, log.With(zap.String("topic", topic)))
}

func NewConsumerFromReader(reader MessageReader, log *zap.Logger) *Consumer {
	return &Consumer{reader: reader, log: log.With(zap.String("component", "kafka_consumer"))}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume hands every flow event to handle until ctx ends or the reader fails. Each message
// is committed after one delivery attempt: undecodable messages and handler failures are
// logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handle EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		event, err := DecodeFlowEvent(msg)
		switch {
		case err != nil:
			c.log.Warn("decode flow event", zap.Int64("offset", msg.Offset), zap.Error(err))
		default:
			if err := handle(ctx, event); err != nil {
				c.log.Warn("handle flow event",
					zap.String("type", event.Type),
					zap.String("booking_id", event.BookingID),
					zap.Error(err),
				)
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

func DecodeFlowEvent(msg kafka.Message) (FlowEvent, error) {
	var event FlowEvent
	err := json.Unmarshal(msg.Value, &event)
	return event, err
}
