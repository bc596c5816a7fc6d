package flights

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/repository"
	"github.com/Domenick1991/airbooking-web/internal/validation"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	Dashboard(ctx context.Context) *Dashboard
	Locations(ctx context.Context) *domain.Locations
	Search(ctx context.Context, input SearchInput) ([]domain.FlightOffer, error)
	Status(ctx context.Context, flightNumber string) *domain.FlightStatus
}

type LocationsCache interface {
	GetLocations(ctx context.Context) (*domain.Locations, error)
	SetLocations(ctx context.Context, locations *domain.Locations) error
}

type SearchInput struct {
	Origin      string             `json:"origin" validate:"required"`
	Destination string             `json:"destination" validate:"required"`
	Date        string             `json:"date" validate:"required"`
	Passengers  int                `json:"passengers"`
	TravelClass domain.TravelClass `json:"travelClass"`
}

// Dashboard is the landing view: every flight plus the route options derived from them.
type Dashboard struct {
	Flights   []domain.FlightOffer `json:"flights"`
	Locations domain.Locations     `json:"locations"`
}

type FlightService struct {
	repo  repository.FlightRepository
	cache LocationsCache
	log   *zap.Logger
}

func NewFlightService(repo repository.FlightRepository, cache LocationsCache, log *zap.Logger) *FlightService {
	return &FlightService{repo: repo, cache: cache, log: log.With(zap.String("component", "flights"))}
}

// Dashboard never fails; a backend error leaves the view empty.
func (s *FlightService) Dashboard(ctx context.Context) *Dashboard {
	flights, err := s.repo.List(ctx)
	if err != nil {
		s.log.Warn("list flights", zap.Error(err))
		return &Dashboard{Flights: []domain.FlightOffer{}, Locations: emptyLocations()}
	}

	seenOrigin := make(map[string]bool)
	seenDestination := make(map[string]bool)
	locations := emptyLocations()
	for i := range flights {
		f := &flights[i]
		if f.Origin != "" && !seenOrigin[f.Origin] {
			seenOrigin[f.Origin] = true
			locations.Origins = append(locations.Origins, f.Origin)
		}
		if f.Destination != "" && !seenDestination[f.Destination] {
			seenDestination[f.Destination] = true
			locations.Destinations = append(locations.Destinations, f.Destination)
		}
		f.Duration = Duration(f.DepartureTime, f.ArrivalTime)
	}
	if flights == nil {
		flights = []domain.FlightOffer{}
	}
	return &Dashboard{Flights: flights, Locations: locations}
}

// Locations is cache-first and degrades to empty lists when the backend is unavailable.
func (s *FlightService) Locations(ctx context.Context) *domain.Locations {
	if s.cache != nil {
		if cached, err := s.cache.GetLocations(ctx); err == nil && cached != nil {
			return cached
		}
	}

	locations, err := s.repo.Locations(ctx)
	if err != nil || locations == nil {
		s.log.Warn("load locations", zap.Error(err))
		empty := emptyLocations()
		return &empty
	}
	if locations.Origins == nil {
		locations.Origins = []string{}
	}
	if locations.Destinations == nil {
		locations.Destinations = []string{}
	}
	if s.cache != nil {
		if err := s.cache.SetLocations(ctx, locations); err != nil {
			s.log.Debug("cache locations", zap.Error(err))
		}
	}
	return locations
}

func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]domain.FlightOffer, error) {
	if err := validation.Check(input, "Origin, destination and date are required."); err != nil {
		return nil, err
	}
	if input.Origin == input.Destination {
		return nil, &domain.ValidationError{
			Message: "Origin and destination cannot be the same.",
			Fields:  map[string]string{"destination": "Origin and destination cannot be the same."},
		}
	}

	passengers := ClampPassengers(input.Passengers)
	class := input.TravelClass
	if class == "" {
		class = domain.TravelClassEconomy
	}

	found, err := s.repo.Search(ctx, domain.SearchQuery{Origin: input.Origin, Destination: input.Destination, Date: input.Date})
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.NotFoundError{Message: "No flights available for this route and date."}
		}
		s.log.Warn("search flights", zap.Error(err))
		return nil, domain.WithMessage(err, "Error fetching flights.")
	}
	if len(found) == 0 {
		return nil, &domain.NotFoundError{Message: "No flights found for your criteria."}
	}

	results := make([]domain.FlightOffer, 0, len(found))
	for _, f := range found {
		f.Duration = Duration(f.DepartureTime, f.ArrivalTime)
		f.TotalPrice = domain.TotalFare(f.Price, passengers, class)
		f.Passengers = passengers
		f.TravelClass = class
		results = append(results, f)
	}
	return results, nil
}

// Status is best effort: nil when the backend has nothing to say.
func (s *FlightService) Status(ctx context.Context, flightNumber string) *domain.FlightStatus {
	if flightNumber == "" {
		return nil
	}
	status, err := s.repo.Status(ctx, flightNumber)
	if err != nil {
		s.log.Debug("flight status", zap.String("flight_number", flightNumber), zap.Error(err))
		return nil
	}
	return status
}

// ClampPassengers bounds a requested passenger count to what one booking allows.
func ClampPassengers(n int) int {
	switch {
	case n < domain.MinPassengers:
		return domain.MinPassengers
	case n > domain.MaxPassengers:
		return domain.MaxPassengers
	default:
		return n
	}
}

// Duration renders the gap between two "h:mm AM/PM" times as "Xh Ym", wrapping past midnight.
// Unparseable input yields "N/A".
func Duration(departure, arrival string) string {
	dep, err := minutesOfDay(departure)
	if err != nil {
		return "N/A"
	}
	arr, err := minutesOfDay(arrival)
	if err != nil {
		return "N/A"
	}

	diff := arr - dep
	if diff < 0 {
		diff += 24 * 60
	}
	return fmt.Sprintf("%dh %dm", diff/60, diff%60)
}

func minutesOfDay(value string) (int, error) {
	clock, meridian, _ := strings.Cut(strings.TrimSpace(value), " ")
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, err
	}

	switch strings.ToUpper(meridian) {
	case "PM":
		if h != 12 {
			h += 12
		}
	case "AM":
		if h == 12 {
			h = 0
		}
	}
	return h*60 + m, nil
}

func emptyLocations() domain.Locations {
	return domain.Locations{Origins: []string{}, Destinations: []string{}}
}

var _ FlightUseCase = (*FlightService)(nil)
