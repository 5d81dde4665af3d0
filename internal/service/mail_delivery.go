package service

import (
	"context"

	"github.com/rs/zerolog"
)

// MailSender delivers transactional mail such as password reset links.
type MailSender interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

type logMailSender struct {
	logger zerolog.Logger
}

// NewLogMailSender returns a sender that records deliveries to the log.
// Deployments without an SMTP relay run with this one.
func NewLogMailSender(logger zerolog.Logger) MailSender {
	return &logMailSender{logger: logger.With().Str("component", "mail_delivery").Logger()}
}

func (s *logMailSender) SendPasswordReset(ctx context.Context, email, token string) error {
	s.logger.Info().
		Str("email", email).
		Str("token", token).
		Msg("password reset token issued")
	return nil
}
