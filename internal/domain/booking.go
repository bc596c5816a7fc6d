package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// Booking is the client copy of a server-owned booking. It is refreshed by re-fetching,
// never patched locally.
type Booking struct {
	ID               string             `json:"_id"`
	BookingReference string             `json:"bookingReference"`
	Status           BookingStatus      `json:"status"`
	PaymentStatus    PaymentStatus      `json:"paymentStatus"`
	Flight           *FlightOffer       `json:"flight,omitempty"`
	TravelClass      TravelClass        `json:"travelClass"`
	TotalPrice       float64            `json:"totalPrice"`
	Passengers       []BookingPassenger `json:"passengers"`
	CreatedAt        time.Time          `json:"createdAt"`
}

func (b *Booking) IsPaid() bool {
	return b != nil && b.PaymentStatus == PaymentStatusPaid
}

type BookingPassenger struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Age    int    `json:"age"`
	Seat   string `json:"seat"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

// PassengerDraft is one row of the booking form. Date of birth is optional.
type PassengerDraft struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

type CreateBookingInput struct {
	FlightID    string           `json:"flightId"`
	Passengers  []PassengerDraft `json:"passengers"`
	TravelClass TravelClass      `json:"travelClass"`
	TotalPrice  float64          `json:"totalPrice"`
}

type CheckoutRequest struct {
	BookingID  string `json:"bookingId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

type CheckoutSession struct {
	URL string `json:"url"`
}

type PaymentVerification struct {
	Message string `json:"message"`
}

type Itinerary struct {
	Filename    string
	ContentType string
	Data        []byte
}
