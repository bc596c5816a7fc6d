package domain

import "math"

type TravelClass string

const (
	TravelClassEconomy  TravelClass = "Economy"
	TravelClassBusiness TravelClass = "Business"
	TravelClassFirst    TravelClass = "First Class"
)

const (
	MinPassengers = 1
	MaxPassengers = 9
)

var classMultiplier = map[TravelClass]float64{
	TravelClassEconomy:  1,
	TravelClassBusiness: 1.8,
	TravelClassFirst:    2.5,
}

// Multiplier returns the fare multiplier for the class; unknown classes price as Economy.
func (c TravelClass) Multiplier() float64 {
	if m, ok := classMultiplier[c]; ok {
		return m
	}
	return 1
}

func (c TravelClass) Valid() bool {
	_, ok := classMultiplier[c]
	return ok
}

// TotalFare is the display price for a search result: base * passengers * class multiplier,
// rounded to the nearest unit.
func TotalFare(base float64, passengers int, class TravelClass) float64 {
	return math.Round(base * float64(passengers) * class.Multiplier())
}

// FlightOffer is a search result. The trailing fields are derived at search time and carried
// to the booking form as navigation state.
type FlightOffer struct {
	ID            string      `json:"_id"`
	Airline       string      `json:"airline"`
	FlightNumber  string      `json:"flightNumber"`
	Origin        string      `json:"origin"`
	Destination   string      `json:"destination"`
	DepartureTime string      `json:"departureTime"`
	ArrivalTime   string      `json:"arrivalTime"`
	Price         float64     `json:"price"`
	TravelClass   TravelClass `json:"travelClass,omitempty"`

	TotalPrice float64 `json:"totalPrice,omitempty"`
	Duration   string  `json:"duration,omitempty"`
	Passengers int     `json:"passengers,omitempty"`
}

type Locations struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
}

type SearchQuery struct {
	Origin      string
	Destination string
	Date        string
}

type FlightStatus struct {
	FlightNumber string `json:"flightNumber,omitempty"`
	StatusText   string `json:"statusText"`
}
