package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"notify-pipeline/internal/domain"
	"notify-pipeline/internal/events"
	"notify-pipeline/internal/repository"
	pipeline_errors "notify-pipeline/pkg/errors"
	"notify-pipeline/pkg/logger"
)

const otpTTL = 5 * time.Minute

// OTPRequest is the inbound shape of a code request.
type OTPRequest struct {
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Purpose     string `json:"otp_purpose"`
}

// OTPService is the request-facing side of the pipeline: it generates and
// stores codes, enqueues DeliveryRequests for the dispatcher, and consumes
// codes on verification.
type OTPService struct {
	otps          repository.OTPRepository
	bus           events.Publisher
	status        *events.StatusPublisher
	deliveryTopic string
	logger        *logger.Logger
}

func NewOTPService(otps repository.OTPRepository, bus events.Publisher, status *events.StatusPublisher, deliveryTopic string, l *logger.Logger) *OTPService {
	return &OTPService{otps: otps, bus: bus, status: status, deliveryTopic: deliveryTopic, logger: l}
}

// Request validates, stores and enqueues one OTP request, returning the
// bus-assigned message identifier of the queued delivery.
func (s *OTPService) Request(ctx context.Context, req OTPRequest) (string, error) {
	if req.PhoneNumber == "" && req.Email == "" {
		return "", fmt.Errorf("%w: missing phone number or email", pipeline_errors.ErrInvalidInput)
	}
	if req.Purpose == "" {
		req.Purpose = domain.OTPPurposeSignup
	}
	if req.Purpose != domain.OTPPurposeSignup && req.Purpose != domain.OTPPurposeForgotPassword {
		return "", fmt.Errorf("%w: invalid OTP purpose %q", pipeline_errors.ErrInvalidInput, req.Purpose)
	}

	code, err := generateCode()
	if err != nil {
		s.emitStatus(ctx, req, err)
		return "", err
	}

	otp := &domain.OTPVerification{
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		OTPCode:        code,
		ExpirationTime: time.Now().UTC().Add(otpTTL),
		Purpose:        req.Purpose,
	}
	if err := s.otps.Upsert(ctx, otp); err != nil {
		s.emitStatus(ctx, req, err)
		return "", err
	}

	delivery := domain.DeliveryRequest{
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		OTPCode:     code,
	}
	messageID, err := events.PublishJSON(ctx, s.bus, s.deliveryTopic, events.SubjectOTPQueued, delivery)
	if err != nil {
		s.emitStatus(ctx, req, err)
		return "", fmt.Errorf("%w: %v", pipeline_errors.ErrPublishFailed, err)
	}

	s.emitStatus(ctx, req, nil)
	return messageID, nil
}

// VerifyRequest is the inbound shape of a code verification.
type VerifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	OTPCode     string `json:"otp_code"`
	Purpose     string `json:"otp_purpose"`
}

// Verify consumes the pending code for the request's target. A matching,
// unexpired code is deleted so it cannot be replayed. Returns the resolved
// purpose so callers can echo it.
func (s *OTPService) Verify(ctx context.Context, req VerifyRequest) (string, error) {
	if req.OTPCode == "" {
		return "", fmt.Errorf("%w: %v", pipeline_errors.ErrInvalidInput, pipeline_errors.ErrMissingOTPCode)
	}
	if req.PhoneNumber == "" && req.Email == "" {
		return "", fmt.Errorf("%w: missing phone number or email", pipeline_errors.ErrInvalidInput)
	}
	if req.Purpose == "" {
		req.Purpose = domain.OTPPurposeSignup
	}
	if req.Purpose != domain.OTPPurposeSignup && req.Purpose != domain.OTPPurposeForgotPassword {
		return "", fmt.Errorf("%w: invalid OTP purpose %q", pipeline_errors.ErrInvalidInput, req.Purpose)
	}

	target := domain.OTPTarget(req.PhoneNumber, req.Email)
	err := s.otps.Consume(ctx, target, req.OTPCode, req.Purpose)
	s.emitVerifyStatus(ctx, req, err)
	return req.Purpose, err
}

// emitVerifyStatus publishes the verification outcome. Best-effort, like the
// request path.
func (s *OTPService) emitVerifyStatus(ctx context.Context, req VerifyRequest, cause error) {
	event := domain.StatusEvent{
		LogTypeID:         domain.LogTypeOTPSent,
		CategoryID:        domain.CategoryOTPDelivery,
		TransactionTypeID: domain.TransactionVerifyOTP,
		StatusID:          domain.StatusSuccess,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
	}
	subject := events.SubjectVerifySuccess
	if cause != nil {
		event.LogTypeID = domain.LogTypeError
		event.StatusID = domain.StatusFailure
		event.ErrorMessage = cause.Error()
		if errors.Is(cause, pipeline_errors.ErrNotFound) {
			event.ErrorMessage = "Invalid OTP"
		}
		subject = events.SubjectVerifyError
	}
	if err := s.status.Emit(ctx, subject, event); err != nil {
		s.logger.Errorf("failed to publish otp verify status: %v", err)
	}
}

// emitStatus publishes the request outcome to the logging topic. Best-effort:
// a publish failure must not turn a queued request into a client error.
func (s *OTPService) emitStatus(ctx context.Context, req OTPRequest, cause error) {
	event := domain.StatusEvent{
		LogTypeID:         domain.LogTypeInfo,
		CategoryID:        domain.CategoryOTPDelivery,
		TransactionTypeID: domain.TransactionSendOTP,
		StatusID:          domain.StatusSuccess,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
	}
	subject := events.SubjectSendOTPSuccess
	if cause != nil {
		event.LogTypeID = domain.LogTypeError
		event.StatusID = domain.StatusFailure
		event.ErrorMessage = cause.Error()
		subject = events.SubjectSendOTPError
	}
	if err := s.status.Emit(ctx, subject, event); err != nil {
		s.logger.Errorf("failed to publish otp request status: %v", err)
	}
}

// generateCode returns a 4-digit code from a CSPRNG.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
