package booking

import (
	"fmt"
	"sync"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/validation"
)

const (
	msgMaxPassengers   = "Maximum 9 passengers allowed per booking."
	msgInvalidDetails  = "Please fill all passenger details correctly."
	msgNoFlight        = "No flight selected."
	msgUnknownField    = "Unknown passenger field."
	msgUnknownPosition = "No passenger at that position."
)

// Draft is a booking form in progress for one offer. It lives only in memory and is dropped
// once the browser has been handed to the payment provider.
type Draft struct {
	submit sync.Mutex

	mu         sync.Mutex
	offer      domain.FlightOffer
	passengers []domain.PassengerDraft
	bookingID  string
}

// DraftView is a point-in-time copy of a draft for rendering.
type DraftView struct {
	Flight      domain.FlightOffer      `json:"flight"`
	Passengers  []domain.PassengerDraft `json:"passengers"`
	TravelClass domain.TravelClass      `json:"travelClass"`
	TotalFare   float64                 `json:"totalFare"`
	CanAdd      bool                    `json:"canAdd"`
	CanRemove   bool                    `json:"canRemove"`
	BookingID   string                  `json:"bookingId,omitempty"`
}

// NewDraft sizes the form from the passenger count chosen at search time.
func NewDraft(offer domain.FlightOffer) *Draft {
	count := offer.Passengers
	if count < domain.MinPassengers {
		count = domain.MinPassengers
	}
	if count > domain.MaxPassengers {
		count = domain.MaxPassengers
	}
	return &Draft{offer: offer, passengers: make([]domain.PassengerDraft, count)}
}

func (d *Draft) FlightID() string { return d.offer.ID }

func (d *Draft) View() DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view()
}

func (d *Draft) view() DraftView {
	passengers := make([]domain.PassengerDraft, len(d.passengers))
	copy(passengers, d.passengers)
	return DraftView{
		Flight:      d.offer,
		Passengers:  passengers,
		TravelClass: d.travelClass(),
		TotalFare:   d.totalFare(),
		CanAdd:      len(d.passengers) < domain.MaxPassengers,
		CanRemove:   len(d.passengers) > domain.MinPassengers,
		BookingID:   d.bookingID,
	}
}

// Edit sets one field of the passenger at index.
func (d *Draft) Edit(index int, field, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 0 || index >= len(d.passengers) {
		return &domain.ValidationError{Message: msgUnknownPosition}
	}
	p := &d.passengers[index]
	switch field {
	case "firstName":
		p.FirstName = value
	case "lastName":
		p.LastName = value
	case "dob":
		p.DOB = value
	case "gender":
		p.Gender = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	default:
		return &domain.ValidationError{Message: msgUnknownField, Fields: map[string]string{field: msgUnknownField}}
	}
	return nil
}

// Add appends an empty passenger. At the limit the draft is unchanged and a warning is returned.
func (d *Draft) Add() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.passengers) >= domain.MaxPassengers {
		return &domain.ValidationError{Message: msgMaxPassengers}
	}
	d.passengers = append(d.passengers, domain.PassengerDraft{})
	return nil
}

// Remove drops the passenger at index. The last remaining passenger cannot be removed.
func (d *Draft) Remove(index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.passengers) <= domain.MinPassengers || index < 0 || index >= len(d.passengers) {
		return false
	}
	d.passengers = append(d.passengers[:index], d.passengers[index+1:]...)
	return true
}

func (d *Draft) Validate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validate()
}

func (d *Draft) validate() error {
	fields := make(map[string]string)
	for i, p := range d.passengers {
		for name, msg := range validation.Struct(p) {
			fields[fmt.Sprintf("passengers[%d].%s", i, name)] = msg
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Message: msgInvalidDetails, Fields: fields}
	}
	return nil
}

func (d *Draft) travelClass() domain.TravelClass {
	if d.offer.TravelClass == "" {
		return domain.TravelClassEconomy
	}
	return d.offer.TravelClass
}

// totalFare is the figure computed at search time; it is not recomputed when passengers change.
func (d *Draft) totalFare() float64 {
	if d.offer.TotalPrice > 0 {
		return d.offer.TotalPrice
	}
	return d.offer.Price
}

// snapshot validates the draft and copies out what confirming it sends.
func (d *Draft) snapshot() (domain.CreateBookingInput, string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.validate(); err != nil {
		return domain.CreateBookingInput{}, "", err
	}
	return d.createInput(), d.bookingID, nil
}

func (d *Draft) setBookingID(id string) {
	d.mu.Lock()
	d.bookingID = id
	d.mu.Unlock()
}

func (d *Draft) createInput() domain.CreateBookingInput {
	passengers := make([]domain.PassengerDraft, len(d.passengers))
	copy(passengers, d.passengers)
	return domain.CreateBookingInput{
		FlightID:    d.offer.ID,
		Passengers:  passengers,
		TravelClass: d.travelClass(),
		TotalPrice:  d.totalFare(),
	}
}

// DraftStore holds the one active draft of each session.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string]*Draft)}
}

// Put replaces whatever draft the session had.
func (s *DraftStore) Put(sessionID string, d *Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = d
}

// Get returns the session's draft when it is for flightID.
func (s *DraftStore) Get(sessionID, flightID string) (*Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[sessionID]
	if !ok || d.FlightID() != flightID {
		return nil, false
	}
	return d, true
}

// Delete removes d if it is still the session's current draft.
func (s *DraftStore) Delete(sessionID string, d *Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drafts[sessionID] == d {
		delete(s.drafts, sessionID)
	}
}

// Forget drops the session's draft, whatever it is for.
func (s *DraftStore) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
}

// Move hands the draft held under oldID to newID, replacing anything newID had.
func (s *DraftStore) Move(oldID, newID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[oldID]
	if !ok {
		return
	}
	delete(s.drafts, oldID)
	s.drafts[newID] = d
}
