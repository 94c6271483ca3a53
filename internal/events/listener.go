package events

import (
	"context"
	"encoding/json"

	"notify-pipeline/pkg/logger"

	"github.com/google/uuid"
)

// StreamSubscriber delivers raw bus payloads for a set of topics.
type StreamSubscriber interface {
	Subscribe(ctx context.Context, channels []string, handler func(channel string, payload []byte)) error
}

// Listener ties a topic subscription to a batching consumer. One Listener
// per consumer; each owns its own batcher, so concurrent listeners share no
// mutable state.
type Listener struct {
	subscriber StreamSubscriber
	topic      string
	batcher    *Batcher
	logger     *logger.Logger
}

func NewListener(subscriber StreamSubscriber, topic string, batcher *Batcher, l *logger.Logger) *Listener {
	return &Listener{subscriber: subscriber, topic: topic, batcher: batcher, logger: l}
}

// Start runs the batcher and the subscription until ctx is cancelled.
func (l *Listener) Start(ctx context.Context) {
	go l.batcher.Run(ctx)
	go func() {
		err := l.subscriber.Subscribe(ctx, []string{l.topic}, func(channel string, payload []byte) {
			var env Envelope
			if err := json.Unmarshal(payload, &env); err != nil {
				l.logger.Errorf("malformed message on %s: %v", channel, err)
				return
			}
			if env.MessageID == "" {
				env.MessageID = uuid.NewString()
			}
			if err := l.batcher.Add(ctx, env); err != nil {
				return
			}
		})
		if err != nil && ctx.Err() == nil {
			l.logger.Errorf("subscription to %s ended: %v", l.topic, err)
		}
	}()
}
