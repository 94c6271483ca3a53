package domain

// ChannelKind identifies one delivery transport.
type ChannelKind string

const (
	ChannelSMS   ChannelKind = "SMS"
	ChannelEmail ChannelKind = "EMAIL"
)

// DeliveryRequest is one queued OTP-delivery work item, deserialized from a
// single bus message. It is consumed entirely within one dispatch attempt and
// never persisted.
type DeliveryRequest struct {
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
	OTPCode     string `json:"otp_code"`
}

// HasTarget reports whether at least one delivery target is present.
func (r DeliveryRequest) HasTarget() bool {
	return r.PhoneNumber != "" || r.Email != ""
}

// ChannelOutcome is the result of one channel attempt.
type ChannelOutcome struct {
	Channel ChannelKind
	Target  string
	Success bool
	Error   string
}
