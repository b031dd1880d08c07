package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes codes to the log instead of sending them. Development only.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.With(zap.String("mailer", ProviderLog))}
}

func (s *LogSender) Send(_ context.Context, email, code string) error {
	s.log.Info("OTP generated",
		zap.String("email", email),
		zap.String("otp_code", code),
	)
	return nil
}
