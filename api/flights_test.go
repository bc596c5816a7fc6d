package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/service/flights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Dashboard(ctx context.Context) *flights.Dashboard {
	return m.Called(ctx).Get(0).(*flights.Dashboard)
}

func (m *MockFlightUseCase) Locations(ctx context.Context) *domain.Locations {
	return m.Called(ctx).Get(0).(*domain.Locations)
}

func (m *MockFlightUseCase) Search(ctx context.Context, input flights.SearchInput) ([]domain.FlightOffer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightOffer), args.Error(1)
}

func (m *MockFlightUseCase) Status(ctx context.Context, flightNumber string) *domain.FlightStatus {
	status, _ := m.Called(ctx, flightNumber).Get(0).(*domain.FlightStatus)
	return status
}

func TestFlightHandler_dashboard(t *testing.T) {
	mockService := &MockFlightUseCase{}
	mockService.On("Dashboard", mock.Anything).Return(&flights.Dashboard{
		Flights:   []domain.FlightOffer{{ID: "f1", Origin: "Delhi", Destination: "Mumbai"}},
		Locations: domain.Locations{Origins: []string{"Delhi"}, Destinations: []string{"Mumbai"}},
	})

	w := serve(newRouter(anonymous, NewFlightHandler(mockService)), http.MethodGet, "/dashboard", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"_id":"f1"`)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_search(t *testing.T) {
	mockService := &MockFlightUseCase{}
	input := flights.SearchInput{
		Origin: "Delhi", Destination: "Mumbai", Date: "2025-01-10",
		Passengers: 2, TravelClass: domain.TravelClassBusiness,
	}
	mockService.On("Search", mock.Anything, input).Return([]domain.FlightOffer{{ID: "f1", TotalPrice: 18000}}, nil)

	w := serve(newRouter(anonymous, NewFlightHandler(mockService)), http.MethodGet,
		"/flights?origin=Delhi&destination=Mumbai&date=2025-01-10&passengers=2&travelClass=Business", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalPrice":18000`)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_searchDefaults(t *testing.T) {
	mockService := &MockFlightUseCase{}
	input := flights.SearchInput{
		Origin: "Delhi", Destination: "Mumbai", Date: "2025-01-10",
		Passengers: 1, TravelClass: domain.TravelClassEconomy,
	}
	mockService.On("Search", mock.Anything, input).Return([]domain.FlightOffer{}, nil)

	w := serve(newRouter(anonymous, NewFlightHandler(mockService)), http.MethodGet,
		"/flights?origin=Delhi&destination=Mumbai&date=2025-01-10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_searchErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		code   int
		msg    string
	}{
		{name: "missing date", target: "/flights?origin=Delhi&destination=Mumbai", code: http.StatusBadRequest},
		{name: "bad class", target: "/flights?origin=Delhi&destination=Mumbai&date=d&travelClass=Premium", code: http.StatusBadRequest},
		{
			name:   "same route",
			target: "/flights?origin=Delhi&destination=Delhi&date=d",
			err:    &domain.ValidationError{Message: "Origin and destination cannot be the same."},
			code:   http.StatusBadRequest,
			msg:    "Origin and destination cannot be the same.",
		},
		{
			name:   "nothing found",
			target: "/flights?origin=Delhi&destination=Mumbai&date=d",
			err:    &domain.NotFoundError{Message: "No flights found for your criteria."},
			code:   http.StatusNotFound,
			msg:    "No flights found for your criteria.",
		},
		{
			name:   "backend down",
			target: "/flights?origin=Delhi&destination=Mumbai&date=d",
			err:    &domain.BackendError{Message: "Error fetching flights."},
			code:   http.StatusBadGateway,
			msg:    "Error fetching flights.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockFlightUseCase{}
			if tt.err != nil {
				mockService.On("Search", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := serve(newRouter(anonymous, NewFlightHandler(mockService)), http.MethodGet, tt.target, nil)

			assert.Equal(t, tt.code, w.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, decode(t, w)["error"])
			}
			if tt.err == nil {
				mockService.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestFlightHandler_status(t *testing.T) {
	mockService := &MockFlightUseCase{}
	mockService.On("Status", mock.Anything, "AI101").Return(&domain.FlightStatus{FlightNumber: "AI101", StatusText: "On time"})
	mockService.On("Status", mock.Anything, "ZZ9").Return(nil)
	r := newRouter(anonymous, NewFlightHandler(mockService))

	w := serve(r, http.MethodGet, "/flights/status/AI101", nil)
	assert.Contains(t, w.Body.String(), `"statusText":"On time"`)

	w = serve(r, http.MethodGet, "/flights/status/ZZ9", nil)
	assert.JSONEq(t, `{"status":null}`, w.Body.String())
}
