package repository

import (
	"context"
	"net/http"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, input domain.CreateBookingInput) (*domain.Booking, error)
	ListMine(ctx context.Context) ([]domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Cancel(ctx context.Context, id string) error
	ChangeClass(ctx context.Context, id string, class domain.TravelClass) error
	Itinerary(ctx context.Context, id string) ([]byte, string, error)
}

type bookingEnvelope struct {
	Booking *domain.Booking `json:"booking"`
}

type bookingsEnvelope struct {
	Bookings []domain.Booking `json:"bookings"`
}

type changeClassRequest struct {
	TravelClass domain.TravelClass `json:"travelClass"`
}

type HTTPBookingRepository struct {
	client *Client
}

func NewBookingRepository(client *Client) BookingRepository {
	return &HTTPBookingRepository{client: client}
}

func (r *HTTPBookingRepository) Create(ctx context.Context, input domain.CreateBookingInput) (*domain.Booking, error) {
	var env bookingEnvelope
	if err := r.client.do(ctx, http.MethodPost, "/bookings", nil, input, &env); err != nil {
		return nil, err
	}
	if env.Booking == nil || env.Booking.ID == "" {
		return nil, &domain.BackendError{Status: http.StatusOK, Message: "booking id missing from response"}
	}
	return env.Booking, nil
}

func (r *HTTPBookingRepository) ListMine(ctx context.Context) ([]domain.Booking, error) {
	var env bookingsEnvelope
	if err := r.client.do(ctx, http.MethodGet, "/bookings/me", nil, nil, &env); err != nil {
		return nil, err
	}
	if env.Bookings == nil {
		env.Bookings = []domain.Booking{}
	}
	return env.Bookings, nil
}

func (r *HTTPBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var env bookingEnvelope
	if err := r.client.do(ctx, http.MethodGet, "/bookings/"+escape(id), nil, nil, &env); err != nil {
		return nil, err
	}
	if env.Booking == nil {
		return nil, &domain.NotFoundError{Message: "booking not found"}
	}
	return env.Booking, nil
}

func (r *HTTPBookingRepository) Cancel(ctx context.Context, id string) error {
	return r.client.do(ctx, http.MethodPost, "/bookings/"+escape(id)+"/cancel", nil, nil, nil)
}

func (r *HTTPBookingRepository) ChangeClass(ctx context.Context, id string, class domain.TravelClass) error {
	return r.client.do(ctx, http.MethodPost, "/bookings/"+escape(id)+"/change", nil, changeClassRequest{TravelClass: class}, nil)
}

func (r *HTTPBookingRepository) Itinerary(ctx context.Context, id string) ([]byte, string, error) {
	return r.client.download(ctx, "/bookings/"+escape(id)+"/itinerary.pdf")
}

var _ BookingRepository = (*HTTPBookingRepository)(nil)
