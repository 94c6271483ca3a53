package events

import (
	"context"
	"errors"
	"testing"

	"notify-pipeline/internal/domain"
	pipeline_errors "notify-pipeline/pkg/errors"
)

type recordingPublisher struct {
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestEmitPublishesValidEvent(t *testing.T) {
	t.Parallel()

	bus := &recordingPublisher{}
	p := NewStatusPublisher(bus, "topic:logging")

	err := p.Emit(context.Background(), SubjectSendOTPSuccess, domain.StatusEvent{
		StatusID: domain.StatusSuccess,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(bus.payloads) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(bus.payloads))
	}
}

func TestEmitRejectsFailureWithoutDetail(t *testing.T) {
	t.Parallel()

	bus := &recordingPublisher{}
	p := NewStatusPublisher(bus, "topic:logging")

	err := p.Emit(context.Background(), SubjectSendOTPError, domain.StatusEvent{
		StatusID: domain.StatusFailure,
	})
	if !errors.Is(err, pipeline_errors.ErrPublishFailed) {
		t.Fatalf("expected publish rejected, got %v", err)
	}
	if len(bus.payloads) != 0 {
		t.Fatalf("invalid event must not reach the bus")
	}
}

func TestEmitRejectsSuccessWithDetail(t *testing.T) {
	t.Parallel()

	bus := &recordingPublisher{}
	p := NewStatusPublisher(bus, "topic:logging")

	err := p.Emit(context.Background(), SubjectSendOTPSuccess, domain.StatusEvent{
		StatusID:     domain.StatusSuccess,
		ErrorMessage: "leftover",
	})
	if !errors.Is(err, pipeline_errors.ErrPublishFailed) {
		t.Fatalf("expected publish rejected, got %v", err)
	}
	if len(bus.payloads) != 0 {
		t.Fatalf("invalid event must not reach the bus")
	}
}
