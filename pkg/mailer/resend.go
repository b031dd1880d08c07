package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ResendSender posts to a Resend-compatible JSON mail API.
type ResendSender struct {
	client *resty.Client
	from   string
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

func NewResendSender(apiKey, from, baseURL string) *ResendSender {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(5*time.Second).
		SetHeader("Content-Type", "application/json")

	return &ResendSender{client: client, from: from}
}

func (s *ResendSender) Send(ctx context.Context, email, code string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(sendRequest{
			From:    s.from,
			To:      []string{email},
			Subject: subject,
			HTML:    htmlBody(code),
			Text:    plainBody(code),
		}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("resend send to %s: %w", email, err)
	}
	if resp.IsError() {
		return fmt.Errorf("resend send to %s: status %d: %s", email, resp.StatusCode(), resp.String())
	}
	return nil
}
