package dispatch

import (
	"context"
	"encoding/json"

	"notify-pipeline/internal/domain"
	"notify-pipeline/internal/events"
	"notify-pipeline/pkg/logger"
)

// Consumer bridges the bus to the Dispatcher: it decodes one batch of
// envelopes from the OTP-delivery topic and hands the requests over.
type Consumer struct {
	dispatcher *Dispatcher
	logger     *logger.Logger
}

func NewConsumer(dispatcher *Dispatcher, l *logger.Logger) *Consumer {
	return &Consumer{dispatcher: dispatcher, logger: l}
}

func (c *Consumer) HandleBatch(ctx context.Context, batch []events.Envelope) {
	requests := make([]domain.DeliveryRequest, 0, len(batch))
	for _, env := range batch {
		var req domain.DeliveryRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			c.logger.Errorf("malformed delivery request %s: %v", env.MessageID, err)
			continue
		}
		requests = append(requests, req)
	}
	if len(requests) == 0 {
		return
	}
	c.dispatcher.Dispatch(ctx, requests)
}
