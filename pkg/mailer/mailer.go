// Package mailer delivers one-time codes out of band.
package mailer

import (
	"context"
	"fmt"

	"credential-vault/pkg/utils"

	"go.uber.org/zap"
)

const (
	ProviderLog      = "log"
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
	ProviderResend   = "resend"
)

// Sender delivers a verification code to an email address.
type Sender interface {
	Send(ctx context.Context, email, code string) error
}

// New picks a Sender implementation from config.
func New(cfg utils.EmailConfig, log *zap.Logger) (Sender, error) {
	switch cfg.Provider {
	case "", ProviderLog:
		return NewLogSender(log), nil
	case ProviderSMTP:
		if cfg.Host == "" || cfg.From == "" {
			return nil, fmt.Errorf("smtp provider needs SMTP_HOST and EMAIL_FROM")
		}
		return NewSMTPSender(cfg), nil
	case ProviderSendGrid:
		if cfg.APIKey == "" || cfg.From == "" {
			return nil, fmt.Errorf("sendgrid provider needs EMAIL_API_KEY and EMAIL_FROM")
		}
		return NewSendGridSender(cfg.APIKey, cfg.From, ""), nil
	case ProviderResend:
		if cfg.APIKey == "" || cfg.From == "" {
			return nil, fmt.Errorf("resend provider needs EMAIL_API_KEY and EMAIL_FROM")
		}
		return NewResendSender(cfg.APIKey, cfg.From, cfg.APIURL), nil
	default:
		return nil, fmt.Errorf("unsupported EMAIL_PROVIDER %q", cfg.Provider)
	}
}

const subject = "Your verification code"

func plainBody(code string) string {
	return fmt.Sprintf("Your OTP is %s. Do not share it with anyone.", code)
}

func htmlBody(code string) string {
	return fmt.Sprintf(`<p>Your OTP is <strong>%s</strong>.</p><p>Do not share it with anyone.</p>`, code)
}
