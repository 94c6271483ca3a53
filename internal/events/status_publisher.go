package events

import (
	"context"
	"fmt"
	"time"

	"notify-pipeline/internal/domain"
	pipeline_errors "notify-pipeline/pkg/errors"
)

const publishTimeout = 5 * time.Second

// StatusPublisher emits StatusEvents to the logging topic. Fire-and-forget
// from the caller's perspective: a failed publish is reported as an error but
// never retried here.
type StatusPublisher struct {
	publisher Publisher
	topic     string
}

func NewStatusPublisher(publisher Publisher, topic string) *StatusPublisher {
	return &StatusPublisher{publisher: publisher, topic: topic}
}

func (p *StatusPublisher) Emit(ctx context.Context, subject string, event domain.StatusEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", pipeline_errors.ErrPublishFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if _, err := PublishJSON(ctx, p.publisher, p.topic, subject, event); err != nil {
		return fmt.Errorf("%w: %v", pipeline_errors.ErrPublishFailed, err)
	}
	return nil
}
