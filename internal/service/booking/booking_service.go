package booking

import (
	"context"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/Domenick1991/airbooking-web/internal/repository"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	Start(p domain.Principal, offer domain.FlightOffer) (DraftView, error)
	Current(p domain.Principal, flightID string) (DraftView, error)
	AddPassenger(p domain.Principal, flightID string) (DraftView, error)
	EditPassenger(p domain.Principal, flightID string, index int, field, value string) (DraftView, error)
	RemovePassenger(p domain.Principal, flightID string, index int) (DraftView, error)
	Confirm(ctx context.Context, p domain.Principal, flightID string) (string, error)
}

// Handoff creates the hosted checkout session for a booking and returns where to send the browser.
type Handoff interface {
	Begin(ctx context.Context, p domain.Principal, bookingID string) (string, error)
}

type EventEmitter interface {
	Emit(ctx context.Context, event kafka.FlowEvent)
}

type BookingService struct {
	bookings repository.BookingRepository
	handoff  Handoff
	drafts   *DraftStore
	events   EventEmitter
	log      *zap.Logger
}

type BookingServiceOption func(*BookingService)

func WithEvents(events EventEmitter) BookingServiceOption {
	return func(s *BookingService) {
		s.events = events
	}
}

func WithDraftStore(drafts *DraftStore) BookingServiceOption {
	return func(s *BookingService) {
		s.drafts = drafts
	}
}

func NewBookingService(bookings repository.BookingRepository, handoff Handoff, log *zap.Logger, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings: bookings,
		handoff:  handoff,
		drafts:   NewDraftStore(),
		log:      log.With(zap.String("component", "booking")),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Start opens a fresh draft for offer, replacing any draft the session had.
func (s *BookingService) Start(p domain.Principal, offer domain.FlightOffer) (DraftView, error) {
	if offer.ID == "" {
		return DraftView{}, &domain.NotFoundError{Message: msgNoFlight}
	}
	d := NewDraft(offer)
	s.drafts.Put(p.ID(), d)
	return d.View(), nil
}

func (s *BookingService) Current(p domain.Principal, flightID string) (DraftView, error) {
	d, err := s.draft(p, flightID)
	if err != nil {
		return DraftView{}, err
	}
	return d.View(), nil
}

// AddPassenger returns the unchanged draft together with the limit warning when the draft is full.
func (s *BookingService) AddPassenger(p domain.Principal, flightID string) (DraftView, error) {
	d, err := s.draft(p, flightID)
	if err != nil {
		return DraftView{}, err
	}
	err = d.Add()
	return d.View(), err
}

func (s *BookingService) EditPassenger(p domain.Principal, flightID string, index int, field, value string) (DraftView, error) {
	d, err := s.draft(p, flightID)
	if err != nil {
		return DraftView{}, err
	}
	err = d.Edit(index, field, value)
	return d.View(), err
}

func (s *BookingService) RemovePassenger(p domain.Principal, flightID string, index int) (DraftView, error) {
	d, err := s.draft(p, flightID)
	if err != nil {
		return DraftView{}, err
	}
	d.Remove(index)
	return d.View(), nil
}

// Confirm validates the draft, creates the booking and hands off to checkout. It returns the
// external checkout URL. On any failure the draft stays as it was; a booking that was already
// created is remembered so a retry only repeats the handoff. The draft stays readable and
// editable while the backend calls are in flight; concurrent confirms of one draft queue.
func (s *BookingService) Confirm(ctx context.Context, p domain.Principal, flightID string) (string, error) {
	d, err := s.draft(p, flightID)
	if err != nil {
		return "", err
	}

	d.submit.Lock()
	defer d.submit.Unlock()

	if p.Identity() == nil {
		return "", domain.ErrLoginRequired
	}
	input, bookingID, err := d.snapshot()
	if err != nil {
		return "", err
	}

	if bookingID == "" {
		booking, err := s.bookings.Create(repository.WithCredentialSource(ctx, p), input)
		if err != nil {
			s.log.Warn("create booking", zap.String("session_id", p.ID()), zap.String("flight_id", flightID), zap.Error(err))
			return "", domain.WithMessage(err, "Unable to process booking. Try again.")
		}
		if booking == nil || booking.ID == "" {
			return "", &domain.BackendError{Message: "Unable to process booking. Try again."}
		}
		bookingID = booking.ID
		d.setBookingID(bookingID)
		s.emit(ctx, kafka.FlowEvent{
			Type:      kafka.EventBookingCreated,
			SessionID: p.ID(),
			BookingID: booking.ID,
			Reference: booking.BookingReference,
			Email:     p.Identity().Email,
		})
	}

	location, err := s.handoff.Begin(ctx, p, bookingID)
	if err != nil {
		return "", err
	}

	s.drafts.Delete(p.ID(), d)
	return location, nil
}

func (s *BookingService) draft(p domain.Principal, flightID string) (*Draft, error) {
	d, ok := s.drafts.Get(p.ID(), flightID)
	if !ok {
		return nil, &domain.NotFoundError{Message: msgNoFlight}
	}
	return d, nil
}

func (s *BookingService) emit(ctx context.Context, event kafka.FlowEvent) {
	if s.events != nil {
		s.events.Emit(ctx, event)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
