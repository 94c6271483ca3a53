package domain

import "time"

// OTP purposes accepted by the request producer.
const (
	OTPPurposeSignup         = "signup"
	OTPPurposeForgotPassword = "forgot_password"
)

// OTPTarget returns the key a pending code is stored and looked up under:
// the phone number when present, the email address otherwise. Email-only
// requests from different users must never share a key.
func OTPTarget(phoneNumber, email string) string {
	if phoneNumber != "" {
		return phoneNumber
	}
	return email
}

// OTPVerification is one pending code, keyed by its target. A new request
// for the same target replaces the previous code.
type OTPVerification struct {
	PhoneNumber    string
	Email          string
	OTPCode        string
	ExpirationTime time.Time
	Purpose        string
}

func (o *OTPVerification) Target() string {
	return OTPTarget(o.PhoneNumber, o.Email)
}
