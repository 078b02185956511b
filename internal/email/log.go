package email

import (
	"context"
	"log/slog"
)

// LogTransport logs the envelope instead of sending. Bodies are not logged.
type LogTransport struct {
	logger *slog.Logger
}

func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger.With("component", "mail")}
}

func (l *LogTransport) Send(ctx context.Context, msg Message) error {
	l.logger.InfoContext(ctx, "mail not sent (log transport)",
		"from", msg.From.Email,
		"to", msg.To.Email,
		"reply_to", msg.ReplyTo.Email,
		"subject", msg.Subject,
	)
	return nil
}
