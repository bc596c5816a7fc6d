package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventBookingCreated      = "booking_created"
	EventCheckoutStarted     = "checkout_started"
	EventCheckoutFailed      = "checkout_failed"
	EventPaymentVerifying    = "payment_verifying"
	EventPaymentConfirmed    = "payment_confirmed"
	EventPaymentTimedOut     = "payment_timed_out"
	EventPaymentVerifyFailed = "payment_verify_failed"
	EventBookingCancelled    = "booking_cancelled"
	EventBookingUpgraded     = "booking_upgraded"
)

// FlowEvent is one step of a booking flow as seen by the front-end.
type FlowEvent struct {
	Type       string    `json:"type"`
	SessionID  string    `json:"session_id,omitempty"`
	BookingID  string    `json:"booking_id,omitempty"`
	Reference  string    `json:"booking_reference,omitempty"`
	Email      string    `json:"email,omitempty"`
	Attempts   int       `json:"attempts,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// IsTerminalPayment reports whether the event ends a confirmation poll.
func (e FlowEvent) IsTerminalPayment() bool {
	switch e.Type {
	case EventPaymentConfirmed, EventPaymentTimedOut, EventPaymentVerifyFailed:
		return true
	}
	return false
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
	log     *zap.Logger
}

func NewProducer(brokers []string, log *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
		log:     log.With(zap.String("component", "kafka_producer")),
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.Debug("published", zap.String("topic", topic), zap.String("key", key))
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and reads its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	p.log.Info("connected to kafka", zap.Int("partitions", len(partitions)))
	return nil
}
