package domain

import "encoding/json"

// ReportSummary is passed through to the reports view as the backend returned it.
type ReportSummary json.RawMessage

func (r ReportSummary) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *ReportSummary) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

type SupportTicket struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}
