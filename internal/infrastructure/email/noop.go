package email

import (
	"context"

	"github.com/rs/zerolog"
)

// NoopSender logs instead of sending. Used when no provider key is configured.
type NoopSender struct {
	log zerolog.Logger
}

func NewNoopSender(log zerolog.Logger) *NoopSender {
	return &NoopSender{log: log}
}

func (s *NoopSender) Send(_ context.Context, to, subject, _ string) error {
	s.log.Info().Str("to", to).Str("subject", subject).Msg("email suppressed (noop sender)")
	return nil
}
