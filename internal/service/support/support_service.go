package support

import (
	"context"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/repository"
	"github.com/Domenick1991/airbooking-web/internal/validation"
	"go.uber.org/zap"
)

const (
	msgTicketSubmitted = "Support ticket submitted. We'll get back to you soon!"
	msgTicketFailed    = "Failed to submit support ticket."
	msgContactReceived = "Thanks for reaching out! We'll reply shortly."
	msgReportsFailed   = "Failed to load reports."
)

type SupportUseCase interface {
	Reports(ctx context.Context, p domain.Principal) (domain.ReportSummary, error)
	SubmitTicket(ctx context.Context, p domain.Principal, ticket domain.SupportTicket) (string, error)
	Contact(ctx context.Context, msg domain.ContactMessage) (string, error)
}

type SupportService struct {
	repo repository.SupportRepository
	log  *zap.Logger
}

func NewSupportService(repo repository.SupportRepository, log *zap.Logger) *SupportService {
	return &SupportService{repo: repo, log: log.With(zap.String("component", "support"))}
}

func (s *SupportService) Reports(ctx context.Context, p domain.Principal) (domain.ReportSummary, error) {
	if p.Identity() == nil {
		return nil, domain.ErrLoginRequired
	}
	summary, err := s.repo.ReportSummary(repository.WithCredentialSource(ctx, p))
	if err != nil {
		s.log.Warn("load reports", zap.Error(err))
		return nil, domain.WithMessage(err, msgReportsFailed)
	}
	return summary, nil
}

func (s *SupportService) SubmitTicket(ctx context.Context, p domain.Principal, ticket domain.SupportTicket) (string, error) {
	if err := validation.Check(ticket, "Please fill all required fields."); err != nil {
		return "", err
	}
	if err := s.repo.SubmitTicket(repository.WithCredentialSource(ctx, p), ticket); err != nil {
		s.log.Warn("submit ticket", zap.Error(err))
		return "", domain.WithMessage(err, msgTicketFailed)
	}
	return msgTicketSubmitted, nil
}

// Contact only acknowledges the message; there is no backend endpoint for it.
func (s *SupportService) Contact(_ context.Context, msg domain.ContactMessage) (string, error) {
	if err := validation.Check(msg, "Please fill all required fields."); err != nil {
		return "", err
	}
	s.log.Info("contact message", zap.String("email", msg.Email), zap.Int("length", len(msg.Message)))
	return msgContactReceived, nil
}

var _ SupportUseCase = (*SupportService)(nil)
