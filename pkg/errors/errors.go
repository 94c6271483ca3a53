package pipeline_errors

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrMissingOTPCode        = errors.New("Missing OTP code")
	ErrNoDeliveryTarget      = errors.New("no delivery target")
	ErrChannelDelivery       = errors.New("channel delivery failed")
	ErrPublishFailed         = errors.New("status event publish failed")
	ErrStorage               = errors.New("storage write failed")
	ErrMissingConfig         = errors.New("required configuration missing")
	ErrMissingErrorDetail    = errors.New("failure event requires an error message")
	ErrUnexpectedErrorDetail = errors.New("success event must not carry an error message")
	ErrNotFound              = errors.New("not found")
	ErrOTPExpired            = errors.New("OTP has expired")
	ErrInvalidInput          = errors.New("invalid input")
)

// NowPtr returns a pointer to current time
func NowPtr() *time.Time {
	now := time.Now()
	return &now
}
