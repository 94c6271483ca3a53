package events

// Publish subjects, mirrored into the envelope for operators reading the
// raw stream.
const (
	SubjectOTPQueued      = "OTP Request Queued"
	SubjectSendOTPSuccess = "SendOTP - Success"
	SubjectSendOTPError   = "SendOTP - Error"
	SubjectVerifySuccess  = "VerifyOTP - Success"
	SubjectVerifyError    = "VerifyOTP - Error"
	SubjectCleanupSuccess = "OTP Cleanup - Success"
	SubjectCleanupError   = "OTP Cleanup - Error"
)
