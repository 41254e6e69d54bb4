package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// LogMailer writes notifications to the log instead of delivering them.
// Default driver for development and tests.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendMail(_ context.Context, mail ports.Mail) error {
	m.log.Info().
		Str("to", mail.To).
		Str("subject", mail.Subject).
		Str("body", mail.Body).
		Msg("mail (log driver)")
	return nil
}
