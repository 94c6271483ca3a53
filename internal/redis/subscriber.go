package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe receives messages on exact topic names until ctx is cancelled.
func (s *Subscriber) Subscribe(ctx context.Context, topics []string, handler func(channel string, payload []byte)) error {
	sub := s.client.Subscribe(ctx, topics...)
	defer sub.Close()

	for {
		msg, err := sub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}
		handler(msg.Channel, []byte(msg.Payload))
	}
}
