package bookings

import (
	"context"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/Domenick1991/airbooking-web/internal/repository"
	"go.uber.org/zap"
)

const (
	msgNotFound       = "Booking not found or failed to load."
	msgListFailed     = "Failed to load bookings."
	msgCancelled      = "Booking cancelled successfully."
	msgCancelFailed   = "Failed to cancel booking."
	msgUpgraded       = "Upgraded to Business class!"
	msgUpgradeFailed  = "Failed to upgrade class."
	msgVerifyFailed   = "Failed to verify payment. Please try again."
	msgPayFailed      = "Failed to start payment process."
	msgDownloadFailed = "Unable to download PDF. Please try again."
)

type BookingsUseCase interface {
	List(ctx context.Context, p domain.Principal) ([]domain.Booking, error)
	Detail(ctx context.Context, p domain.Principal, id string) (*Detail, error)
	Cancel(ctx context.Context, p domain.Principal, id string) (*ActionResult, error)
	ChangeToBusiness(ctx context.Context, p domain.Principal, id string) (*ActionResult, error)
	VerifyPayment(ctx context.Context, p domain.Principal, id string) (*ActionResult, error)
	PayNow(ctx context.Context, p domain.Principal, id string) (string, error)
	DownloadItinerary(ctx context.Context, p domain.Principal, id string) (*domain.Itinerary, error)
	Watch(ctx context.Context, p domain.Principal, interval time.Duration, fn func([]domain.Booking, error))
}

type StatusLookup interface {
	Status(ctx context.Context, flightNumber string) *domain.FlightStatus
}

type Handoff interface {
	Begin(ctx context.Context, p domain.Principal, bookingID string) (string, error)
}

type EventEmitter interface {
	Emit(ctx context.Context, event kafka.FlowEvent)
}

// Detail is the booking detail view. The Can* flags only decide which actions are offered.
type Detail struct {
	Booking      *domain.Booking      `json:"booking"`
	FlightStatus *domain.FlightStatus `json:"flightStatus,omitempty"`
	CanCancel    bool                 `json:"canCancel"`
	CanUpgrade   bool                 `json:"canUpgrade"`
	CanPay       bool                 `json:"canPay"`
}

// ActionResult carries the confirmation message of an action and the reloaded detail.
// Detail is nil when the reload after a successful action failed.
type ActionResult struct {
	Message string  `json:"message"`
	Detail  *Detail `json:"detail,omitempty"`
}

type BookingsService struct {
	bookings  repository.BookingRepository
	payments  repository.PaymentRepository
	status    StatusLookup
	handoff   Handoff
	events    EventEmitter
	log       *zap.Logger
	newTicker func(d time.Duration) (<-chan time.Time, func())
}

func NewBookingsService(
	bookings repository.BookingRepository,
	payments repository.PaymentRepository,
	status StatusLookup,
	handoff Handoff,
	events EventEmitter,
	log *zap.Logger,
) *BookingsService {
	return &BookingsService{
		bookings: bookings,
		payments: payments,
		status:   status,
		handoff:  handoff,
		events:   events,
		log:      log.With(zap.String("component", "bookings")),
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

func (s *BookingsService) List(ctx context.Context, p domain.Principal) ([]domain.Booking, error) {
	if p.Identity() == nil {
		return nil, domain.ErrLoginRequired
	}
	list, err := s.bookings.ListMine(repository.WithCredentialSource(ctx, p))
	if err != nil {
		s.log.Warn("list bookings", zap.String("session_id", p.ID()), zap.Error(err))
		return nil, domain.WithMessage(err, msgListFailed)
	}
	if list == nil {
		list = []domain.Booking{}
	}
	return list, nil
}

func (s *BookingsService) Detail(ctx context.Context, p domain.Principal, id string) (*Detail, error) {
	if p.Identity() == nil {
		return nil, domain.ErrLoginRequired
	}
	booking, err := s.bookings.GetByID(repository.WithCredentialSource(ctx, p), id)
	if err != nil {
		if domain.IsAuth(err) {
			return nil, err
		}
		s.log.Warn("load booking", zap.String("booking_id", id), zap.Error(err))
		return nil, &domain.NotFoundError{Message: msgNotFound}
	}
	if booking == nil {
		return nil, &domain.NotFoundError{Message: msgNotFound}
	}

	detail := &Detail{
		Booking:    booking,
		CanCancel:  booking.Status != domain.BookingStatusCancelled,
		CanUpgrade: booking.TravelClass != domain.TravelClassBusiness,
		CanPay:     booking.PaymentStatus == domain.PaymentStatusPending,
	}
	if s.status != nil && booking.Flight != nil {
		detail.FlightStatus = s.status.Status(ctx, booking.Flight.FlightNumber)
	}
	return detail, nil
}

// Cancel is offered only for bookings that are not cancelled yet, but is not refused otherwise.
func (s *BookingsService) Cancel(ctx context.Context, p domain.Principal, id string) (*ActionResult, error) {
	return s.act(ctx, p, id, msgCancelled, msgCancelFailed, kafka.EventBookingCancelled, func(ctx context.Context) (string, error) {
		return "", s.bookings.Cancel(ctx, id)
	})
}

func (s *BookingsService) ChangeToBusiness(ctx context.Context, p domain.Principal, id string) (*ActionResult, error) {
	return s.act(ctx, p, id, msgUpgraded, msgUpgradeFailed, kafka.EventBookingUpgraded, func(ctx context.Context) (string, error) {
		return "", s.bookings.ChangeClass(ctx, id, domain.TravelClassBusiness)
	})
}

// VerifyPayment shows whatever message the backend returns.
func (s *BookingsService) VerifyPayment(ctx context.Context, p domain.Principal, id string) (*ActionResult, error) {
	return s.act(ctx, p, id, "", msgVerifyFailed, "", func(ctx context.Context) (string, error) {
		res, err := s.payments.Verify(ctx, id)
		if err != nil {
			return "", err
		}
		if res == nil {
			return "", nil
		}
		return res.Message, nil
	})
}

func (s *BookingsService) PayNow(ctx context.Context, p domain.Principal, id string) (string, error) {
	if p.Identity() == nil {
		return "", domain.ErrLoginRequired
	}
	location, err := s.handoff.Begin(ctx, p, id)
	if err != nil {
		return "", domain.WithMessage(err, msgPayFailed)
	}
	return location, nil
}

// DownloadItinerary fetches the backend PDF; the file is named after the booking reference.
func (s *BookingsService) DownloadItinerary(ctx context.Context, p domain.Principal, id string) (*domain.Itinerary, error) {
	if p.Identity() == nil {
		return nil, domain.ErrLoginRequired
	}
	authCtx := repository.WithCredentialSource(ctx, p)

	booking, err := s.bookings.GetByID(authCtx, id)
	if err != nil {
		s.log.Warn("load booking for itinerary", zap.String("booking_id", id), zap.Error(err))
		return nil, domain.WithMessage(err, msgDownloadFailed)
	}
	data, contentType, err := s.bookings.Itinerary(authCtx, id)
	if err != nil {
		s.log.Warn("download itinerary", zap.String("booking_id", id), zap.Error(err))
		return nil, domain.WithMessage(err, msgDownloadFailed)
	}
	if contentType == "" {
		contentType = "application/pdf"
	}
	return &domain.Itinerary{Filename: ItineraryFilename(booking, id), ContentType: contentType, Data: data}, nil
}

func ItineraryFilename(booking *domain.Booking, id string) string {
	if booking != nil && booking.BookingReference != "" {
		return booking.BookingReference + ".pdf"
	}
	return "itinerary-" + id + ".pdf"
}

// Watch calls fn with the bookings list right away and then every interval until ctx ends.
// A result that arrives after ctx ended is dropped.
func (s *BookingsService) Watch(ctx context.Context, p domain.Principal, interval time.Duration, fn func([]domain.Booking, error)) {
	refresh := func() {
		list, err := s.List(ctx, p)
		if ctx.Err() != nil {
			return
		}
		fn(list, err)
	}

	refresh()
	ticks, stop := s.newTicker(interval)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			refresh()
		}
	}
}

// act runs one request-then-reload action. A failed request leaves nothing changed and
// reports failMsg.
func (s *BookingsService) act(
	ctx context.Context,
	p domain.Principal,
	id, okMsg, failMsg, eventType string,
	call func(ctx context.Context) (string, error),
) (*ActionResult, error) {
	if p.Identity() == nil {
		return nil, domain.ErrLoginRequired
	}

	msg, err := call(repository.WithCredentialSource(ctx, p))
	if err != nil {
		s.log.Warn("booking action", zap.String("booking_id", id), zap.String("action", failMsg), zap.Error(err))
		return nil, domain.WithMessage(err, failMsg)
	}
	if msg == "" {
		msg = okMsg
	}
	if eventType != "" && s.events != nil {
		s.events.Emit(ctx, kafka.FlowEvent{Type: eventType, SessionID: p.ID(), BookingID: id, Email: p.Identity().Email})
	}

	detail, err := s.Detail(ctx, p, id)
	if err != nil {
		s.log.Warn("reload booking", zap.String("booking_id", id), zap.Error(err))
	}
	return &ActionResult{Message: msg, Detail: detail}, nil
}

var _ BookingsUseCase = (*BookingsService)(nil)
