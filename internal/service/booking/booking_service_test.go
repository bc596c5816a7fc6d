package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, input domain.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListMine(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingRepository) ChangeClass(ctx context.Context, id string, class domain.TravelClass) error {
	return m.Called(ctx, id, class).Error(0)
}

func (m *MockBookingRepository) Itinerary(ctx context.Context, id string) ([]byte, string, error) {
	args := m.Called(ctx, id)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

type MockHandoff struct {
	mock.Mock
}

func (m *MockHandoff) Begin(ctx context.Context, p domain.Principal, bookingID string) (string, error) {
	args := m.Called(ctx, p, bookingID)
	return args.String(0), args.Error(1)
}

type recordingEmitter struct {
	events []kafka.FlowEvent
}

func (r *recordingEmitter) Emit(_ context.Context, event kafka.FlowEvent) {
	r.events = append(r.events, event)
}

type stubPrincipal struct {
	id         string
	credential string
	identity   *domain.Identity
}

func (p *stubPrincipal) ID() string                 { return p.id }
func (p *stubPrincipal) Credential() string         { return p.credential }
func (p *stubPrincipal) Identity() *domain.Identity { return p.identity }

func loggedIn() *stubPrincipal {
	return &stubPrincipal{id: "s1", credential: "tok", identity: &domain.Identity{ID: "u1", Email: "jane@example.com"}}
}

func completePassenger() domain.PassengerDraft {
	return domain.PassengerDraft{FirstName: "Jane", LastName: "Doe", Gender: "Female", Email: "jane@example.com", Phone: "9876543210"}
}

func fillDraft(t *testing.T, svc *BookingService, p domain.Principal, flightID string, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		for field, value := range map[string]string{
			"firstName": "Jane", "lastName": "Doe", "gender": "Female", "email": "jane@example.com", "phone": "9876543210",
		} {
			_, err := svc.EditPassenger(p, flightID, i, field, value)
			require.NoError(t, err)
		}
	}
}

var offer = domain.FlightOffer{ID: "f1", Price: 5000, TotalPrice: 18000, Passengers: 2, TravelClass: domain.TravelClassBusiness}

func TestNewDraft_Sizing(t *testing.T) {
	testCases := []struct {
		name       string
		passengers int
		expected   int
	}{
		{"default", 0, 1},
		{"from search", 3, 3},
		{"clamped", 12, 9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			view := NewDraft(domain.FlightOffer{ID: "f1", Passengers: tc.passengers}).View()
			assert.Len(t, view.Passengers, tc.expected)
		})
	}
}

func TestDraft_AddRemove(t *testing.T) {
	d := NewDraft(domain.FlightOffer{ID: "f1", Passengers: 8})

	require.NoError(t, d.Add())
	err := d.Add()
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Maximum 9 passengers allowed per booking.", validationErr.Message)
	assert.Len(t, d.View().Passengers, 9)
	assert.False(t, d.View().CanAdd)

	single := NewDraft(domain.FlightOffer{ID: "f1"})
	assert.False(t, single.Remove(0))
	assert.Len(t, single.View().Passengers, 1)
}

func TestDraft_RemoveKeepsOthers(t *testing.T) {
	d := NewDraft(domain.FlightOffer{ID: "f1", Passengers: 3})
	require.NoError(t, d.Edit(0, "firstName", "A"))
	require.NoError(t, d.Edit(1, "firstName", "B"))
	require.NoError(t, d.Edit(2, "firstName", "C"))

	assert.True(t, d.Remove(1))

	view := d.View()
	require.Len(t, view.Passengers, 2)
	assert.Equal(t, "A", view.Passengers[0].FirstName)
	assert.Equal(t, "C", view.Passengers[1].FirstName)
}

func TestDraft_EditErrors(t *testing.T) {
	d := NewDraft(domain.FlightOffer{ID: "f1"})

	assert.True(t, domain.IsValidation(d.Edit(5, "firstName", "x")))
	assert.True(t, domain.IsValidation(d.Edit(0, "passport", "x")))
}

func TestDraft_ValidateDOBOptional(t *testing.T) {
	d := NewDraft(domain.FlightOffer{ID: "f1", Passengers: 2})
	p := completePassenger()
	d.passengers[0] = p
	d.passengers[1] = p
	d.passengers[1].Phone = ""

	err := d.Validate()

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Please fill all passenger details correctly.", validationErr.Message)
	assert.Equal(t, map[string]string{"passengers[1].phone": "This field is required"}, validationErr.Fields)

	d.passengers[1].Phone = "9876543210"
	assert.NoError(t, d.Validate())
}

func TestDraft_TotalAndClass(t *testing.T) {
	view := NewDraft(offer).View()
	assert.Equal(t, 18000.0, view.TotalFare)
	assert.Equal(t, domain.TravelClassBusiness, view.TravelClass)

	view = NewDraft(domain.FlightOffer{ID: "f2", Price: 4200}).View()
	assert.Equal(t, 4200.0, view.TotalFare)
	assert.Equal(t, domain.TravelClassEconomy, view.TravelClass)
}

func TestStart_ReplacesPreviousDraft(t *testing.T) {
	svc := NewBookingService(&MockBookingRepository{}, &MockHandoff{}, zap.NewNop())
	p := loggedIn()

	_, err := svc.Start(p, domain.FlightOffer{ID: "f1"})
	require.NoError(t, err)
	_, err = svc.Start(p, domain.FlightOffer{ID: "f2"})
	require.NoError(t, err)

	_, err = svc.Current(p, "f1")
	assert.True(t, domain.IsNotFound(err))
	view, err := svc.Current(p, "f2")
	require.NoError(t, err)
	assert.Equal(t, "f2", view.Flight.ID)

	_, err = svc.Start(p, domain.FlightOffer{})
	assert.Equal(t, "No flight selected.", domain.UserMessage(err, ""))
}

func TestConfirm_RequiresIdentityFirst(t *testing.T) {
	repo := &MockBookingRepository{}
	svc := NewBookingService(repo, &MockHandoff{}, zap.NewNop())
	anon := &stubPrincipal{id: "s1"}
	_, err := svc.Start(anon, offer)
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), anon, "f1")

	assert.ErrorIs(t, err, domain.ErrLoginRequired)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConfirm_InvalidMakesNoCall(t *testing.T) {
	repo := &MockBookingRepository{}
	svc := NewBookingService(repo, &MockHandoff{}, zap.NewNop())
	p := loggedIn()
	_, err := svc.Start(p, offer)
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), p, "f1")

	assert.True(t, domain.IsValidation(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConfirm_Success(t *testing.T) {
	repo := &MockBookingRepository{}
	handoff := &MockHandoff{}
	events := &recordingEmitter{}
	svc := NewBookingService(repo, handoff, zap.NewNop(), WithEvents(events))
	p := loggedIn()
	_, err := svc.Start(p, offer)
	require.NoError(t, err)
	fillDraft(t, svc, p, "f1", 2)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(in domain.CreateBookingInput) bool {
		return in.FlightID == "f1" && len(in.Passengers) == 2 &&
			in.TravelClass == domain.TravelClassBusiness && in.TotalPrice == 18000
	})).Return(&domain.Booking{ID: "b1", BookingReference: "REF1"}, nil).Once()
	handoff.On("Begin", mock.Anything, p, "b1").Return("https://checkout.example/s/1", nil).Once()

	location, err := svc.Confirm(context.Background(), p, "f1")

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/s/1", location)
	repo.AssertExpectations(t)
	handoff.AssertExpectations(t)
	require.Len(t, events.events, 1)
	assert.Equal(t, kafka.EventBookingCreated, events.events[0].Type)
	assert.Equal(t, "b1", events.events[0].BookingID)

	_, err = svc.Current(p, "f1")
	assert.True(t, domain.IsNotFound(err))
}

func TestConfirm_CreateFailureKeepsDraft(t *testing.T) {
	repo := &MockBookingRepository{}
	handoff := &MockHandoff{}
	svc := NewBookingService(repo, handoff, zap.NewNop())
	p := loggedIn()
	_, err := svc.Start(p, offer)
	require.NoError(t, err)
	fillDraft(t, svc, p, "f1", 2)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil, &domain.BackendError{Status: 500, Message: "db down"})

	_, err = svc.Confirm(context.Background(), p, "f1")

	assert.Equal(t, "Unable to process booking. Try again.", domain.UserMessage(err, ""))
	view, err := svc.Current(p, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", view.Passengers[1].FirstName)
	assert.Empty(t, view.BookingID)
	handoff.AssertNotCalled(t, "Begin", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_HandoffFailureRetriesWithoutRecreating(t *testing.T) {
	repo := &MockBookingRepository{}
	handoff := &MockHandoff{}
	svc := NewBookingService(repo, handoff, zap.NewNop())
	p := loggedIn()
	_, err := svc.Start(p, offer)
	require.NoError(t, err)
	fillDraft(t, svc, p, "f1", 2)

	repo.On("Create", mock.Anything, mock.Anything).Return(&domain.Booking{ID: "b1"}, nil).Once()
	handoff.On("Begin", mock.Anything, p, "b1").Return("", &domain.BackendError{Message: "Invalid checkout session URL."}).Once()
	handoff.On("Begin", mock.Anything, p, "b1").Return("https://checkout.example/s/2", nil).Once()

	_, err = svc.Confirm(context.Background(), p, "f1")
	assert.Equal(t, "Invalid checkout session URL.", domain.UserMessage(err, ""))
	view, err := svc.Current(p, "f1")
	require.NoError(t, err)
	assert.Equal(t, "b1", view.BookingID)

	location, err := svc.Confirm(context.Background(), p, "f1")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/s/2", location)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestConfirm_UnknownDraft(t *testing.T) {
	svc := NewBookingService(&MockBookingRepository{}, &MockHandoff{}, zap.NewNop())

	_, err := svc.Confirm(context.Background(), loggedIn(), "nope")

	assert.True(t, domain.IsNotFound(err))
}

func TestAddPassenger_WarnsAtLimit(t *testing.T) {
	svc := NewBookingService(&MockBookingRepository{}, &MockHandoff{}, zap.NewNop())
	p := loggedIn()
	_, err := svc.Start(p, domain.FlightOffer{ID: "f1", Passengers: 9})
	require.NoError(t, err)

	view, err := svc.AddPassenger(p, "f1")

	assert.Error(t, err)
	assert.Len(t, view.Passengers, 9)
	assert.False(t, errors.Is(err, domain.ErrLoginRequired))
}

func TestDraftStore_Forget(t *testing.T) {
	store := NewDraftStore()
	store.Put("s1", NewDraft(offer))
	store.Put("s2", NewDraft(offer))

	store.Forget("s1")

	_, ok := store.Get("s1", offer.ID)
	assert.False(t, ok)
	_, ok = store.Get("s2", offer.ID)
	assert.True(t, ok)
}

func TestConfirm_DraftReadableWhileCreateInFlight(t *testing.T) {
	repo := &MockBookingRepository{}
	handoff := &MockHandoff{}
	svc := NewBookingService(repo, handoff, zap.NewNop())
	p := loggedIn()
	_, err := svc.Start(p, offer)
	require.NoError(t, err)
	fillDraft(t, svc, p, "f1", 2)

	entered := make(chan struct{})
	release := make(chan struct{})
	repo.On("Create", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(&domain.Booking{ID: "b1"}, nil).Once()
	handoff.On("Begin", mock.Anything, p, "b1").Return("https://checkout.example/s/1", nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Confirm(context.Background(), p, "f1")
		done <- err
	}()
	<-entered

	view, err := svc.Current(p, "f1")
	require.NoError(t, err)
	assert.Len(t, view.Passengers, 2)
	_, err = svc.EditPassenger(p, "f1", 0, "firstName", "Janet")
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestDraftStore_Move(t *testing.T) {
	store := NewDraftStore()
	d := NewDraft(offer)
	store.Put("before", d)

	store.Move("before", "after")

	_, ok := store.Get("before", offer.ID)
	assert.False(t, ok)
	moved, ok := store.Get("after", offer.ID)
	require.True(t, ok)
	assert.Same(t, d, moved)

	store.Move("missing", "after")
	_, ok = store.Get("after", offer.ID)
	assert.True(t, ok)
}
