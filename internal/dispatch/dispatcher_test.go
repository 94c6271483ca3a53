package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"notify-pipeline/internal/channel"
	"notify-pipeline/internal/domain"
	"notify-pipeline/internal/events"
	"notify-pipeline/pkg/logger"
)

type fakeSender struct {
	kind domain.ChannelKind
	err  error

	mu    sync.Mutex
	calls []channel.Message
}

func (s *fakeSender) Kind() domain.ChannelKind { return s.kind }

func (s *fakeSender) Send(ctx context.Context, msg channel.Message) error {
	s.mu.Lock()
	s.calls = append(s.calls, msg)
	s.mu.Unlock()
	return s.err
}

type panicSender struct {
	kind domain.ChannelKind
}

func (s *panicSender) Kind() domain.ChannelKind { return s.kind }

func (s *panicSender) Send(ctx context.Context, msg channel.Message) error {
	panic("transport blew up")
}

type fakeBus struct {
	err error

	mu       sync.Mutex
	payloads [][]byte
}

func (b *fakeBus) Publish(ctx context.Context, topic string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.payloads = append(b.payloads, payload)
	return nil
}

func (b *fakeBus) events(t *testing.T) []domain.StatusEvent {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.StatusEvent, 0, len(b.payloads))
	for _, payload := range b.payloads {
		var env events.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		var event domain.StatusEvent
		if err := json.Unmarshal(env.Payload, &event); err != nil {
			t.Fatalf("unmarshal status event: %v", err)
		}
		out = append(out, event)
	}
	return out
}

func newTestDispatcher(sms, email channel.Sender, bus *fakeBus) *Dispatcher {
	status := events.NewStatusPublisher(bus, "topic:logging")
	return New(sms, email, status, logger.New(logger.DevelopmentMode))
}

func TestDispatchSMSSuccess(t *testing.T) {
	t.Parallel()

	sms := &fakeSender{kind: domain.ChannelSMS}
	email := &fakeSender{kind: domain.ChannelEmail}
	bus := &fakeBus{}
	d := newTestDispatcher(sms, email, bus)

	results := d.Dispatch(context.Background(), []domain.DeliveryRequest{
		{PhoneNumber: "+15551234567", OTPCode: "482913"},
	})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got := results[0]
	want := domain.StatusEvent{
		LogTypeID:         domain.LogTypeOTPSent,
		CategoryID:        domain.CategoryOTPDelivery,
		TransactionTypeID: domain.TransactionSendOTP,
		StatusID:          domain.StatusSuccess,
		PhoneNumber:       "+15551234567",
	}
	if got != want {
		t.Fatalf("unexpected status event: %+v", got)
	}
	if len(sms.calls) != 1 {
		t.Fatalf("expected 1 sms call, got %d", len(sms.calls))
	}
	if !strings.Contains(sms.calls[0].Body, "482913") {
		t.Fatalf("sms body missing code: %q", sms.calls[0].Body)
	}
	if !strings.Contains(sms.calls[0].Body, "expires in 5 minutes") {
		t.Fatalf("sms body missing expiry notice: %q", sms.calls[0].Body)
	}
	if len(email.calls) != 0 {
		t.Fatalf("email should not be attempted without an address")
	}
	if published := bus.events(t); len(published) != 1 || published[0] != want {
		t.Fatalf("expected the outcome published once, got %+v", published)
	}
}

func TestDispatchBothChannels(t *testing.T) {
	t.Parallel()

	sms := &fakeSender{kind: domain.ChannelSMS}
	email := &fakeSender{kind: domain.ChannelEmail}
	d := newTestDispatcher(sms, email, &fakeBus{})

	results := d.Dispatch(context.Background(), []domain.DeliveryRequest{
		{PhoneNumber: "+15551234567", Email: "a@b.com", OTPCode: "1234"},
	})

	if results[0].StatusID != domain.StatusSuccess {
		t.Fatalf("expected success, got %+v", results[0])
	}
	if len(sms.calls) != 1 || len(email.calls) != 1 {
		t.Fatalf("expected one attempt per channel, got sms=%d email=%d", len(sms.calls), len(email.calls))
	}
	if email.calls[0].Subject == "" {
		t.Fatalf("email must carry a subject")
	}
}

func TestDispatchMissingOTPCode(t *testing.T) {
	t.Parallel()

	sms := &fakeSender{kind: domain.ChannelSMS}
	email := &fakeSender{kind: domain.ChannelEmail}
	d := newTestDispatcher(sms, email, &fakeBus{})

	results := d.Dispatch(context.Background(), []domain.DeliveryRequest{
		{Email: "a@b.com", OTPCode: ""},
	})

	got := results[0]
	if got.StatusID != domain.StatusFailure {
		t.Fatalf("expected failure, got %+v", got)
	}
	if got.ErrorMessage != "Missing OTP code" {
		t.Fatalf("unexpected error message: %q", got.ErrorMessage)
	}
	if len(sms.calls) != 0 || len(email.calls) != 0 {
		t.Fatalf("no channel may be attempted on validation failure")
	}
}

func TestDispatchNoTargets(t *testing.T) {
	t.Parallel()

	sms := &fakeSender{kind: domain.ChannelSMS}
	email := &fakeSender{kind: domain.ChannelEmail}
	d := newTestDispatcher(sms, email, &fakeBus{})

	results := d.Dispatch(context.Background(), []domain.DeliveryRequest{
		{OTPCode: "1234"},
	})

	got := results[0]
	if got.StatusID != domain.StatusFailure || got.ErrorMessage == "" {
		t.Fatalf("expected failure with detail, got %+v", got)
	}
	if !strings.Contains(got.ErrorMessage, "no delivery target") {
		t.Fatalf("unexpected error message: %q", got.ErrorMessage)
	}
	if len(sms.calls) != 0 || len(email.calls) != 0 {
		t.Fatalf("no channel may be attempted without targets")
	}
}

func TestDispatchPartialChannelFailure(t *testing.T) {
	t.Parallel()

	sms := &fakeSender{kind: domain.ChannelSMS, err: errors.New("carrier rejected")}
	email := &fakeSender{kind: domain.ChannelEmail}
	d := newTestDispatcher(sms, email, &fakeBus{})

	results := d.Dispatch(context.Background(), []domain.DeliveryRequest{
		{PhoneNumber: "+15551234567", Email: "a@b.com", OTPCode: "1234"},
	})

	got := results[0]
	if got.StatusID != domain.StatusFailure {
		t.Fatalf("any failed channel must fail the request, got %+v", got)
	}
	if !strings.Contains(got.ErrorMessage, "carrier rejected") {
		t.Fatalf("error must name the failing channel: %q", got.ErrorMessage)
	}
	if len(email.calls) != 1 {
		t.Fatalf("sms failure must not prevent the email attempt")
	}
}

func TestDispatchPerRequestIsolation(t *testing.T) {
	t.Parallel()

	sms := &panicSender{kind: domain.ChannelSMS}
	email := &fakeSender{kind: domain.ChannelEmail}
	d := newTestDispatcher(sms, email, &fakeBus{})

	results := d.Dispatch(context.Background(), []domain.DeliveryRequest{
		{PhoneNumber: "+15551111111", OTPCode: "1111"},
		{Email: "a@b.com", OTPCode: "2222"},
	})

	if len(results) != 2 {
		t.Fatalf("a panic in one request must not abort the batch, got %d results", len(results))
	}
	if results[0].StatusID != domain.StatusFailure || results[0].ErrorMessage == "" {
		t.Fatalf("panicking request must yield a failure event, got %+v", results[0])
	}
	if results[1].StatusID != domain.StatusSuccess {
		t.Fatalf("sibling request must still succeed, got %+v", results[1])
	}
}

func TestDispatchPublishFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	sms := &fakeSender{kind: domain.ChannelSMS}
	email := &fakeSender{kind: domain.ChannelEmail}
	bus := &fakeBus{err: errors.New("bus down")}
	d := newTestDispatcher(sms, email, bus)

	results := d.Dispatch(context.Background(), []domain.DeliveryRequest{
		{PhoneNumber: "+15551111111", OTPCode: "1111"},
		{PhoneNumber: "+15552222222", OTPCode: "2222"},
	})

	if len(results) != 2 {
		t.Fatalf("publish failures must be swallowed, got %d results", len(results))
	}
	if len(sms.calls) != 2 {
		t.Fatalf("expected both requests dispatched, got %d sms calls", len(sms.calls))
	}
}
