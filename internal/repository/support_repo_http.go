package repository

import (
	"context"
	"net/http"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

type SupportRepository interface {
	ReportSummary(ctx context.Context) (domain.ReportSummary, error)
	SubmitTicket(ctx context.Context, ticket domain.SupportTicket) error
}

type HTTPSupportRepository struct {
	client *Client
}

func NewSupportRepository(client *Client) SupportRepository {
	return &HTTPSupportRepository{client: client}
}

func (r *HTTPSupportRepository) ReportSummary(ctx context.Context) (domain.ReportSummary, error) {
	var summary domain.ReportSummary
	if err := r.client.do(ctx, http.MethodGet, "/reports/summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *HTTPSupportRepository) SubmitTicket(ctx context.Context, ticket domain.SupportTicket) error {
	return r.client.do(ctx, http.MethodPost, "/support", nil, ticket, nil)
}

var _ SupportRepository = (*HTTPSupportRepository)(nil)
