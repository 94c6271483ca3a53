package channel

import (
	"context"

	"notify-pipeline/internal/domain"
)

// Message is one outbound delivery. Subject is only meaningful for channels
// that have one (email).
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message via one external transport. Implementations are
// stateless and safe for concurrent use.
type Sender interface {
	Kind() domain.ChannelKind
	Send(ctx context.Context, msg Message) error
}
