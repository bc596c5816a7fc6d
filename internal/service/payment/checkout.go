package payment

import (
	"context"
	"net/url"
	"strings"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/Domenick1991/airbooking-web/internal/repository"
	"go.uber.org/zap"
)

type EventEmitter interface {
	Emit(ctx context.Context, event kafka.FlowEvent)
}

// CheckoutService asks the backend for a hosted checkout session. Only the booking id is sent;
// the amount is the backend's business.
type CheckoutService struct {
	payments  repository.PaymentRepository
	publicURL string
	events    EventEmitter
	log       *zap.Logger
}

func NewCheckoutService(payments repository.PaymentRepository, publicURL string, events EventEmitter, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		payments:  payments,
		publicURL: strings.TrimRight(publicURL, "/"),
		events:    events,
		log:       log.With(zap.String("component", "checkout")),
	}
}

// SuccessURL is where the provider returns the browser after payment.
func SuccessURL(publicURL, bookingID string) string {
	return strings.TrimRight(publicURL, "/") + "/payment-success?bookingId=" + url.QueryEscape(bookingID)
}

// CancelURL points back at the booking detail page.
func CancelURL(publicURL, bookingID string) string {
	return strings.TrimRight(publicURL, "/") + "/bookings/" + url.PathEscape(bookingID)
}

// Begin returns the external URL the browser must be sent to. Any failure, including a
// response without a URL, means the browser stays where it is.
func (s *CheckoutService) Begin(ctx context.Context, p domain.Principal, bookingID string) (string, error) {
	if bookingID == "" {
		return "", &domain.ValidationError{Message: "Missing booking id."}
	}

	session, err := s.payments.CreateCheckout(repository.WithCredentialSource(ctx, p), domain.CheckoutRequest{
		BookingID:  bookingID,
		SuccessURL: SuccessURL(s.publicURL, bookingID),
		CancelURL:  CancelURL(s.publicURL, bookingID),
	})
	if err != nil {
		s.log.Warn("create checkout", zap.String("booking_id", bookingID), zap.Error(err))
		s.emit(ctx, kafka.FlowEvent{Type: kafka.EventCheckoutFailed, SessionID: p.ID(), BookingID: bookingID, Detail: err.Error()})
		return "", domain.WithMessage(err, "Unable to process booking. Try again.")
	}
	if session == nil || session.URL == "" {
		s.log.Warn("checkout session without url", zap.String("booking_id", bookingID))
		s.emit(ctx, kafka.FlowEvent{Type: kafka.EventCheckoutFailed, SessionID: p.ID(), BookingID: bookingID, Detail: "missing url"})
		return "", &domain.BackendError{Message: "Invalid checkout session URL."}
	}

	s.emit(ctx, kafka.FlowEvent{Type: kafka.EventCheckoutStarted, SessionID: p.ID(), BookingID: bookingID})
	return session.URL, nil
}

func (s *CheckoutService) emit(ctx context.Context, event kafka.FlowEvent) {
	if s.events != nil {
		s.events.Emit(ctx, event)
	}
}
