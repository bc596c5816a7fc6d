package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSender_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewSender(zap.New(core))

	err := sender.Send(context.Background(), kafka.FlowEvent{
		Type: kafka.EventPaymentConfirmed, BookingID: "b1", Reference: "ABC123", Email: "jane@example.com",
	})

	assert.NoError(t, err)
	entries := logs.FilterMessage("send email").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "jane@example.com", entries[0].ContextMap()["to"])
		assert.Equal(t, "Payment received for booking ABC123", entries[0].ContextMap()["subject"])
	}
}

func TestSender_SkipsNonTerminal(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sender := NewSender(zap.New(core))

	assert.NoError(t, sender.Send(context.Background(), kafka.FlowEvent{Type: kafka.EventBookingCreated, Email: "a@b.c"}))
	assert.Equal(t, 0, logs.Len())
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Payment for booking b1 is still pending", Subject(kafka.FlowEvent{Type: kafka.EventPaymentTimedOut, BookingID: "b1"}))
	assert.Equal(t, "We could not verify payment for booking R1", Subject(kafka.FlowEvent{Type: kafka.EventPaymentVerifyFailed, Reference: "R1"}))
}
