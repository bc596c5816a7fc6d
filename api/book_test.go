package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Start(p domain.Principal, offer domain.FlightOffer) (booking.DraftView, error) {
	args := m.Called(p, offer)
	return args.Get(0).(booking.DraftView), args.Error(1)
}

func (m *MockBookingUseCase) Current(p domain.Principal, flightID string) (booking.DraftView, error) {
	args := m.Called(p, flightID)
	return args.Get(0).(booking.DraftView), args.Error(1)
}

func (m *MockBookingUseCase) AddPassenger(p domain.Principal, flightID string) (booking.DraftView, error) {
	args := m.Called(p, flightID)
	return args.Get(0).(booking.DraftView), args.Error(1)
}

func (m *MockBookingUseCase) EditPassenger(p domain.Principal, flightID string, index int, field, value string) (booking.DraftView, error) {
	args := m.Called(p, flightID, index, field, value)
	return args.Get(0).(booking.DraftView), args.Error(1)
}

func (m *MockBookingUseCase) RemovePassenger(p domain.Principal, flightID string, index int) (booking.DraftView, error) {
	args := m.Called(p, flightID, index)
	return args.Get(0).(booking.DraftView), args.Error(1)
}

func (m *MockBookingUseCase) Confirm(ctx context.Context, p domain.Principal, flightID string) (string, error) {
	args := m.Called(ctx, p, flightID)
	return args.String(0), args.Error(1)
}

var offer = domain.FlightOffer{ID: "f1", Airline: "IndiGo", Price: 5000, Passengers: 2}

func TestDraftHandler_start(t *testing.T) {
	mockService := &MockBookingUseCase{}
	mockService.On("Start", signedIn, offer).Return(booking.DraftView{Flight: offer, CanAdd: true}, nil)

	w := serve(newRouter(signedIn, NewDraftHandler(mockService)), http.MethodPost, "/book/f1", offer)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, decode(t, w)["canAdd"])
	mockService.AssertExpectations(t)
}

func TestDraftHandler_startIDMismatch(t *testing.T) {
	mockService := &MockBookingUseCase{}

	w := serve(newRouter(signedIn, NewDraftHandler(mockService)), http.MethodPost, "/book/other", offer)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
}

func TestDraftHandler_currentMissing(t *testing.T) {
	mockService := &MockBookingUseCase{}
	mockService.On("Current", signedIn, "f1").Return(booking.DraftView{}, &domain.NotFoundError{Message: "No flight selected."})

	w := serve(newRouter(signedIn, NewDraftHandler(mockService)), http.MethodGet, "/book/f1", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No flight selected.", decode(t, w)["error"])
}

func TestDraftHandler_addPassengerAtLimit(t *testing.T) {
	mockService := &MockBookingUseCase{}
	full := booking.DraftView{Passengers: make([]domain.PassengerDraft, domain.MaxPassengers)}
	mockService.On("AddPassenger", signedIn, "f1").
		Return(full, &domain.ValidationError{Message: "Maximum 9 passengers allowed per booking."})

	w := serve(newRouter(signedIn, NewDraftHandler(mockService)), http.MethodPost, "/book/f1/passengers", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Maximum 9 passengers allowed per booking.", body["warning"])
	assert.Len(t, body["draft"].(map[string]any)["passengers"], domain.MaxPassengers)
}

func TestDraftHandler_editPassenger(t *testing.T) {
	mockService := &MockBookingUseCase{}
	mockService.On("EditPassenger", signedIn, "f1", 1, "firstName", "Jane").Return(booking.DraftView{}, nil)
	r := newRouter(signedIn, NewDraftHandler(mockService))

	w := serve(r, http.MethodPatch, "/book/f1/passengers/1", gin.H{"field": "firstName", "value": "Jane"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodPatch, "/book/f1/passengers/x", gin.H{"field": "firstName", "value": "Jane"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNumberOfCalls(t, "EditPassenger", 1)
}

func TestDraftHandler_removePassenger(t *testing.T) {
	mockService := &MockBookingUseCase{}
	mockService.On("RemovePassenger", signedIn, "f1", 0).Return(booking.DraftView{CanRemove: false}, nil)

	w := serve(newRouter(signedIn, NewDraftHandler(mockService)), http.MethodDelete, "/book/f1/passengers/0", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDraftHandler_confirm(t *testing.T) {
	t.Run("redirects to checkout", func(t *testing.T) {
		mockService := &MockBookingUseCase{}
		mockService.On("Confirm", mock.Anything, signedIn, "f1").Return("https://checkout.example/s/cs_1", nil)

		w := serve(newRouter(signedIn, NewDraftHandler(mockService)), http.MethodPost, "/book/f1/confirm", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://checkout.example/s/cs_1", decode(t, w)["redirect"])
	})

	t.Run("anonymous is sent to login", func(t *testing.T) {
		mockService := &MockBookingUseCase{}
		mockService.On("Confirm", mock.Anything, anonymous, "f1").Return("", domain.ErrLoginRequired)

		w := serve(newRouter(anonymous, NewDraftHandler(mockService)), http.MethodPost, "/book/f1/confirm", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "/login", decode(t, w)["redirect"])
	})

	t.Run("invalid passengers", func(t *testing.T) {
		mockService := &MockBookingUseCase{}
		mockService.On("Confirm", mock.Anything, signedIn, "f1").Return("", &domain.ValidationError{
			Message: "Please fill all passenger details correctly.",
			Fields:  map[string]string{"passengers[0].email": "Please enter a valid email"},
		})

		w := serve(newRouter(signedIn, NewDraftHandler(mockService)), http.MethodPost, "/book/f1/confirm", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Please fill all passenger details correctly.", body["error"])
		assert.Equal(t, "Please enter a valid email", body["fields"].(map[string]any)["passengers[0].email"])
	})
}
