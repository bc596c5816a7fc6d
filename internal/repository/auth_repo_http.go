package repository

import (
	"context"
	"net/http"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

type AuthRepository interface {
	Register(ctx context.Context, payload RegisterPayload) (*domain.AuthResult, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
	Me(ctx context.Context) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, profile domain.Profile) (*domain.Identity, error)
}

// RegisterPayload is the backend shape of a registration form.
type RegisterPayload struct {
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Password    string             `json:"password"`
	DateOfBirth string             `json:"dateOfBirth"`
	Preferences domain.Preferences `json:"preferences"`
}

func NewRegisterPayload(form domain.RegistrationForm) RegisterPayload {
	return RegisterPayload{
		Name:        form.Name,
		Email:       form.Email,
		Phone:       form.Phone,
		Password:    form.Password,
		DateOfBirth: form.DateOfBirth,
		Preferences: domain.Preferences{
			SeatPreference: form.SeatPreference,
			MealPreference: form.MealPreference,
		},
	}
}

type userEnvelope struct {
	User *domain.Identity `json:"user"`
}

type HTTPAuthRepository struct {
	client *Client
}

func NewAuthRepository(client *Client) AuthRepository {
	return &HTTPAuthRepository{client: client}
}

func (r *HTTPAuthRepository) Register(ctx context.Context, payload RegisterPayload) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := r.client.do(ctx, http.MethodPost, "/auth/register", nil, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *HTTPAuthRepository) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := r.client.do(ctx, http.MethodPost, "/auth/login", nil, creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *HTTPAuthRepository) Me(ctx context.Context) (*domain.Identity, error) {
	var env userEnvelope
	if err := r.client.do(ctx, http.MethodGet, "/auth/me", nil, nil, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &domain.AuthError{Message: "no identity in session response"}
	}
	return env.User, nil
}

func (r *HTTPAuthRepository) UpdateProfile(ctx context.Context, profile domain.Profile) (*domain.Identity, error) {
	var env userEnvelope
	if err := r.client.do(ctx, http.MethodPut, "/user/me", nil, profile, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &domain.BackendError{Status: http.StatusOK, Message: "no user in profile response"}
	}
	return env.User, nil
}

var _ AuthRepository = (*HTTPAuthRepository)(nil)
