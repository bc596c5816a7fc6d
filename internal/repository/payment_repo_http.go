package repository

import (
	"context"
	"net/http"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

type PaymentRepository interface {
	CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error)
	Verify(ctx context.Context, bookingID string) (*domain.PaymentVerification, error)
}

type HTTPPaymentRepository struct {
	client *Client
}

func NewPaymentRepository(client *Client) PaymentRepository {
	return &HTTPPaymentRepository{client: client}
}

func (r *HTTPPaymentRepository) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	var session domain.CheckoutSession
	if err := r.client.do(ctx, http.MethodPost, "/payments/checkout", nil, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *HTTPPaymentRepository) Verify(ctx context.Context, bookingID string) (*domain.PaymentVerification, error) {
	var res domain.PaymentVerification
	if err := r.client.do(ctx, http.MethodGet, "/payments/verify/"+escape(bookingID), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

var _ PaymentRepository = (*HTTPPaymentRepository)(nil)
