package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.FlightOffer, error)
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.FlightOffer, error)
	Locations(ctx context.Context) (*domain.Locations, error)
	Status(ctx context.Context, flightNumber string) (*domain.FlightStatus, error)
}

type HTTPFlightRepository struct {
	client *Client
}

func NewFlightRepository(client *Client) FlightRepository {
	return &HTTPFlightRepository{client: client}
}

func (r *HTTPFlightRepository) List(ctx context.Context) ([]domain.FlightOffer, error) {
	flights := make([]domain.FlightOffer, 0)
	if err := r.client.do(ctx, http.MethodGet, "/flights", nil, nil, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (r *HTTPFlightRepository) Search(ctx context.Context, q domain.SearchQuery) ([]domain.FlightOffer, error) {
	query := url.Values{}
	query.Set("origin", q.Origin)
	query.Set("destination", q.Destination)
	query.Set("date", q.Date)

	flights := make([]domain.FlightOffer, 0)
	if err := r.client.do(ctx, http.MethodGet, "/flights/search", query, nil, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (r *HTTPFlightRepository) Locations(ctx context.Context) (*domain.Locations, error) {
	var loc domain.Locations
	if err := r.client.do(ctx, http.MethodGet, "/flights/origins-destinations", nil, nil, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *HTTPFlightRepository) Status(ctx context.Context, flightNumber string) (*domain.FlightStatus, error) {
	var status domain.FlightStatus
	if err := r.client.do(ctx, http.MethodGet, "/flight-status/"+escape(flightNumber), nil, nil, &status); err != nil {
		return nil, err
	}
	if status.FlightNumber == "" {
		status.FlightNumber = flightNumber
	}
	return &status, nil
}

var _ FlightRepository = (*HTTPFlightRepository)(nil)
