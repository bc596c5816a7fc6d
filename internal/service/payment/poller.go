package payment

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/Domenick1991/airbooking-web/internal/repository"
	"github.com/Domenick1991/airbooking-web/internal/retry"
	"go.uber.org/zap"
)

type State string

const (
	StateVerifying    State = "verifying"
	StateConfirmed    State = "confirmed"
	StateTimedOut     State = "timed_out"
	StateVerifyFailed State = "verify_failed"
	StateRedirected   State = "redirected"
)

const (
	msgVerifying    = "Verifying your payment..."
	msgWaiting      = "Waiting for payment confirmation..."
	msgConfirmed    = "Payment Successful!"
	msgVerifyFailed = "Payment completed, but verification failed."
)

// Update is one step of the confirmation view.
type Update struct {
	State     State  `json:"state"`
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
	Attempt   int    `json:"attempt,omitempty"`
	Verified  bool   `json:"verified"`
	Location  string `json:"location,omitempty"`
}

type ConfirmationUseCase interface {
	Run(ctx context.Context, p domain.Principal, bookingID string, observe func(Update)) (Update, error)
}

// ConfirmationPoller waits for the backend to mark a booking paid, then sends the browser to
// the booking detail page whatever the outcome.
type ConfirmationPoller struct {
	bookings       repository.BookingRepository
	policy         retry.Policy
	confirmedDelay time.Duration
	failedDelay    time.Duration
	events         EventEmitter
	log            *zap.Logger
}

type PollerOption func(*ConfirmationPoller)

func WithSleeper(sleeper retry.Sleeper) PollerOption {
	return func(p *ConfirmationPoller) {
		p.policy.Sleeper = sleeper
	}
}

func WithEvents(events EventEmitter) PollerOption {
	return func(p *ConfirmationPoller) {
		p.events = events
	}
}

func NewConfirmationPoller(bookings repository.BookingRepository, cfg config.PaymentConfig, log *zap.Logger, opts ...PollerOption) *ConfirmationPoller {
	poller := &ConfirmationPoller{
		bookings: bookings,
		policy: retry.Policy{
			MaxAttempts: cfg.MaxAttempts,
			Interval:    time.Duration(cfg.IntervalMillis) * time.Millisecond,
			Sleeper:     retry.ClockSleeper{},
		},
		confirmedDelay: time.Duration(cfg.ConfirmedDelayMs) * time.Millisecond,
		failedDelay:    time.Duration(cfg.FailedDelayMs) * time.Millisecond,
		log:            log.With(zap.String("component", "confirmation")),
	}
	for _, opt := range opts {
		opt(poller)
	}
	return poller
}

// Run drives the confirmation flow for bookingID, reporting every state to observe, and returns
// the final Redirected update. If ctx ends first, polling stops, no redirect is issued and the
// context error is returned.
func (c *ConfirmationPoller) Run(ctx context.Context, p domain.Principal, bookingID string, observe func(Update)) (Update, error) {
	if bookingID == "" {
		return Update{}, &domain.ValidationError{Message: "Missing booking id."}
	}
	if observe == nil {
		observe = func(Update) {}
	}

	observe(Update{State: StateVerifying, Message: msgVerifying, BookingID: bookingID})
	c.emit(ctx, kafka.FlowEvent{Type: kafka.EventPaymentVerifying, SessionID: p.ID(), BookingID: bookingID})

	outcome, err := retry.Poll(ctx, c.policy,
		func(ctx context.Context) (*domain.Booking, error) {
			return c.bookings.GetByID(repository.WithCredentialSource(ctx, p), bookingID)
		},
		func(b *domain.Booking) bool { return b.IsPaid() },
		func(attempt int, _ *domain.Booking) {
			observe(Update{State: StateVerifying, Message: msgWaiting, BookingID: bookingID, Attempt: attempt})
		},
	)
	if ctx.Err() != nil {
		c.log.Debug("confirmation abandoned", zap.String("booking_id", bookingID), zap.Int("attempts", outcome.Attempts))
		return Update{}, ctx.Err()
	}

	var (
		terminal Update
		event    = kafka.FlowEvent{SessionID: p.ID(), BookingID: bookingID, Attempts: outcome.Attempts}
		delay    = c.confirmedDelay
	)
	if identity := p.Identity(); identity != nil {
		event.Email = identity.Email
	}
	if outcome.Last != nil {
		event.Reference = outcome.Last.BookingReference
	}

	switch {
	case err == nil:
		terminal = Update{State: StateConfirmed, Message: msgConfirmed, BookingID: bookingID, Attempt: outcome.Attempts, Verified: true}
		event.Type = kafka.EventPaymentConfirmed
	case errors.Is(err, retry.ErrExhausted):
		terminal = Update{State: StateTimedOut, Message: msgWaiting, BookingID: bookingID, Attempt: outcome.Attempts}
		event.Type = kafka.EventPaymentTimedOut
	default:
		c.log.Warn("verify payment", zap.String("booking_id", bookingID), zap.Int("attempt", outcome.Attempts), zap.Error(err))
		terminal = Update{State: StateVerifyFailed, Message: msgVerifyFailed, BookingID: bookingID, Attempt: outcome.Attempts}
		event.Type = kafka.EventPaymentVerifyFailed
		event.Detail = err.Error()
		delay = c.failedDelay
	}

	observe(terminal)
	c.emit(ctx, event)

	if err := c.policy.Sleeper.Sleep(ctx, delay); err != nil {
		return terminal, err
	}

	redirect := Update{
		State:     StateRedirected,
		Message:   terminal.Message,
		BookingID: bookingID,
		Verified:  terminal.Verified,
		Location:  DetailPath(bookingID),
	}
	observe(redirect)
	return redirect, nil
}

// DetailPath is the in-app location of a booking.
func DetailPath(bookingID string) string {
	return "/bookings/" + url.PathEscape(bookingID)
}

func (c *ConfirmationPoller) emit(ctx context.Context, event kafka.FlowEvent) {
	if c.events != nil {
		c.events.Emit(ctx, event)
	}
}

var _ ConfirmationUseCase = (*ConfirmationPoller)(nil)
