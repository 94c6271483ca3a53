package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope wraps every message on the bus. MessageID is the bus-assigned
// identifier carried through ingestion as the idempotency token.
type Envelope struct {
	MessageID   string          `json:"message_id"`
	Topic       string          `json:"topic"`
	Subject     string          `json:"subject,omitempty"`
	PublishedAt time.Time       `json:"published_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Publisher publishes a raw payload to a named topic. Delivery guarantees
// are the bus's, not the caller's.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// PublishJSON wraps v in an Envelope and publishes it, returning the
// bus-assigned message identifier.
func PublishJSON(ctx context.Context, p Publisher, topic, subject string, v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	env := Envelope{
		MessageID:   uuid.NewString(),
		Topic:       topic,
		Subject:     subject,
		PublishedAt: time.Now().UTC(),
		Payload:     payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := p.Publish(ctx, topic, data); err != nil {
		return "", err
	}
	return env.MessageID, nil
}
