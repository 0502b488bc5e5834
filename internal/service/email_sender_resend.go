package service

import (
	"context"
	"errors"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendEmailSender delivers transactional mail through Resend. When no API
// key is configured it stays inert and every Send returns an error, which the
// caller treats as a non-fatal delivery failure.
type ResendEmailSender struct {
	client *resend.Client
	from   string
}

func NewResendEmailSender(apiKey string, from string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendEmailSender) Send(ctx context.Context, to string, subject string, html string) error {
	if s.client == nil {
		return errors.New("email sender not configured")
	}
	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	return err
}
