package cleanup

import (
	"context"

	"notify-pipeline/internal/domain"
	"notify-pipeline/internal/events"
	"notify-pipeline/internal/repository"
	"notify-pipeline/pkg/logger"
)

// Cleaner removes expired OTP rows and reports the outcome to the logging
// topic like any other pipeline operation.
type Cleaner struct {
	otps   repository.OTPRepository
	status *events.StatusPublisher
	logger *logger.Logger
}

func NewCleaner(otps repository.OTPRepository, status *events.StatusPublisher, l *logger.Logger) *Cleaner {
	return &Cleaner{otps: otps, status: status, logger: l}
}

func (c *Cleaner) Run(ctx context.Context) error {
	deleted, err := c.otps.DeleteExpired(ctx)
	if err != nil {
		c.emit(ctx, err)
		return err
	}

	c.logger.Infof("otp cleanup removed %d expired rows", deleted)
	c.emit(ctx, nil)
	return nil
}

func (c *Cleaner) emit(ctx context.Context, cause error) {
	event := domain.StatusEvent{
		LogTypeID:         domain.LogTypeInfo,
		CategoryID:        domain.CategoryDBCleanup,
		TransactionTypeID: domain.TransactionOTPCleanup,
		StatusID:          domain.StatusSuccess,
	}
	subject := events.SubjectCleanupSuccess
	if cause != nil {
		event.LogTypeID = domain.LogTypeError
		event.StatusID = domain.StatusFailure
		event.ErrorMessage = cause.Error()
		subject = events.SubjectCleanupError
	}
	if err := c.status.Emit(ctx, subject, event); err != nil {
		c.logger.Errorf("failed to publish cleanup status: %v", err)
	}
}
