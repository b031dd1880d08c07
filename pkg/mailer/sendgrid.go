package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridPath = "/v3/mail/send"

type SendGridSender struct {
	apiKey  string
	baseURL string
	from    *mail.Email
}

// NewSendGridSender builds a sender; baseURL overrides the API host when set.
func NewSendGridSender(apiKey, from, baseURL string) *SendGridSender {
	return &SendGridSender{
		apiKey:  apiKey,
		baseURL: baseURL,
		from:    mail.NewEmail("", from),
	}
}

func (s *SendGridSender) Send(ctx context.Context, email, code string) error {
	// The client stores the request body on itself, so one per call.
	client := sendgrid.NewSendClient(s.apiKey)
	if s.baseURL != "" {
		client.BaseURL = s.baseURL + sendGridPath
	}

	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", email), plainBody(code), htmlBody(code))

	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", email, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send to %s: status %d: %s", email, resp.StatusCode, resp.Body)
	}
	return nil
}
