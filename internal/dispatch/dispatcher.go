package dispatch

import (
	"context"
	"fmt"
	"strings"

	"notify-pipeline/internal/channel"
	"notify-pipeline/internal/domain"
	"notify-pipeline/internal/events"
	pipeline_errors "notify-pipeline/pkg/errors"
	"notify-pipeline/pkg/logger"
)

const bodyTemplate = "Your OTP code is %s. It expires in 5 minutes."
const emailSubject = "Your OTP Code"

// Dispatcher fans one batch of queued delivery requests out to the channel
// senders that apply per request and emits exactly one StatusEvent per
// request. Requests are processed with full isolation: no shared mutable
// state, and one request's failure never aborts its siblings.
type Dispatcher struct {
	sms    channel.Sender
	email  channel.Sender
	status *events.StatusPublisher
	logger *logger.Logger
}

func New(sms, email channel.Sender, status *events.StatusPublisher, l *logger.Logger) *Dispatcher {
	return &Dispatcher{sms: sms, email: email, status: status, logger: l}
}

// Dispatch processes the batch to completion and returns the per-request
// outcomes in input order. Each outcome is published synchronously before
// the next request is taken; a publish failure is logged and swallowed. The
// bus owns redelivery of unacknowledged work items, not the status event.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []domain.DeliveryRequest) []domain.StatusEvent {
	results := make([]domain.StatusEvent, 0, len(batch))
	for _, req := range batch {
		event := d.dispatchOne(ctx, req)
		results = append(results, event)

		subject := events.SubjectSendOTPSuccess
		if event.StatusID == domain.StatusFailure {
			subject = events.SubjectSendOTPError
		}
		if err := d.status.Emit(ctx, subject, event); err != nil {
			d.logger.Errorf("failed to publish status event: %v", err)
		}
	}
	return results
}

// dispatchOne is the per-request boundary: validation errors, channel
// failures and panics all collapse into a FAILURE StatusEvent here.
func (d *Dispatcher) dispatchOne(ctx context.Context, req domain.DeliveryRequest) (event domain.StatusEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf("panic dispatching request: %v", r)
			event = failureEvent(req, fmt.Sprintf("dispatch panic: %v", r))
		}
	}()

	if req.OTPCode == "" {
		return failureEvent(req, pipeline_errors.ErrMissingOTPCode.Error())
	}
	if !req.HasTarget() {
		return failureEvent(req, pipeline_errors.ErrNoDeliveryTarget.Error())
	}

	body := fmt.Sprintf(bodyTemplate, req.OTPCode)

	// Channel attempts are independent: a failed SMS never blocks the email
	// attempt, and vice versa.
	var outcomes []domain.ChannelOutcome
	if req.PhoneNumber != "" {
		outcomes = append(outcomes, attempt(ctx, d.sms, channel.Message{To: req.PhoneNumber, Body: body}))
	}
	if req.Email != "" {
		outcomes = append(outcomes, attempt(ctx, d.email, channel.Message{To: req.Email, Subject: emailSubject, Body: body}))
	}

	var failures []string
	for _, outcome := range outcomes {
		if !outcome.Success {
			failures = append(failures, fmt.Sprintf("%s to %s failed: %s", outcome.Channel, outcome.Target, outcome.Error))
		}
	}
	if len(failures) > 0 {
		return failureEvent(req, strings.Join(failures, "; "))
	}

	return domain.StatusEvent{
		LogTypeID:         domain.LogTypeOTPSent,
		CategoryID:        domain.CategoryOTPDelivery,
		TransactionTypeID: domain.TransactionSendOTP,
		StatusID:          domain.StatusSuccess,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
	}
}

func attempt(ctx context.Context, sender channel.Sender, msg channel.Message) domain.ChannelOutcome {
	outcome := domain.ChannelOutcome{Channel: sender.Kind(), Target: msg.To}
	if err := sender.Send(ctx, msg); err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Success = true
	return outcome
}

func failureEvent(req domain.DeliveryRequest, detail string) domain.StatusEvent {
	return domain.StatusEvent{
		LogTypeID:         domain.LogTypeError,
		CategoryID:        domain.CategoryOTPDelivery,
		TransactionTypeID: domain.TransactionSendOTP,
		StatusID:          domain.StatusFailure,
		ErrorMessage:      detail,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
	}
}
