package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"go.uber.org/zap"
)

// Sender turns terminal payment events into customer notifications. Delivery is a log line;
// a real mail transport plugs in behind the same method.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log.With(zap.String("component", "email"))}
}

func (s *Sender) Send(ctx context.Context, event kafka.FlowEvent) error {
	if !event.IsTerminalPayment() {
		return nil
	}
	if event.Email == "" {
		s.log.Debug("no recipient", zap.String("type", event.Type), zap.String("booking_id", event.BookingID))
		return nil
	}

	s.log.Info("send email",
		zap.String("to", event.Email),
		zap.String("subject", Subject(event)),
		zap.String("booking_id", event.BookingID),
	)
	return nil
}

func Subject(event kafka.FlowEvent) string {
	ref := event.Reference
	if ref == "" {
		ref = event.BookingID
	}
	switch event.Type {
	case kafka.EventPaymentConfirmed:
		return fmt.Sprintf("Payment received for booking %s", ref)
	case kafka.EventPaymentTimedOut:
		return fmt.Sprintf("Payment for booking %s is still pending", ref)
	default:
		return fmt.Sprintf("We could not verify payment for booking %s", ref)
	}
}
