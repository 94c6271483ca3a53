package domain

import (
	"time"

	pipeline_errors "notify-pipeline/pkg/errors"
)

// Log type identifiers as stored in logs.events.logtypeid.
type LogType int

const (
	LogTypeInfo    LogType = 1
	LogTypeOTPSent LogType = 2
	LogTypeError   LogType = 3
)

// Outcome status identifiers.
type Status int

const (
	StatusSuccess Status = 1
	StatusFailure Status = 2
)

// Domain-area category identifiers.
type Category int

const (
	CategoryLookup      Category = 2
	CategoryDBCleanup   Category = 4
	CategoryOTPDelivery Category = 8
)

// Operation identifiers.
type TransactionType int

const (
	TransactionOTPCleanup TransactionType = 5
	TransactionSendOTP    TransactionType = 9
	TransactionVerifyOTP  TransactionType = 10
)

// StatusEvent is the unit published to the logging topic after any dispatch
// or maintenance operation, and the unit ingested into the audit log.
// Zero-valued fields mean "absent on the wire" and are normalized to
// documented defaults at ingestion time.
type StatusEvent struct {
	LogTypeID         LogType         `json:"logtypeid,omitempty"`
	CategoryID        Category        `json:"categoryid,omitempty"`
	TransactionTypeID TransactionType `json:"transactiontypeid,omitempty"`
	StatusID          Status          `json:"statusid,omitempty"`
	ErrorMessage      string          `json:"error,omitempty"`
	PhoneNumber       string          `json:"phone_number,omitempty"`
	Email             string          `json:"email,omitempty"`
}

// Normalized returns a copy with absent optional fields set to their
// defaults: logtypeid=1 (Info), categoryid=1, transactiontypeid=1,
// statusid=1 (Success). A minimally-formed event never blocks ingestion.
func (e StatusEvent) Normalized() StatusEvent {
	if e.LogTypeID == 0 {
		e.LogTypeID = LogTypeInfo
	}
	if e.CategoryID == 0 {
		e.CategoryID = 1
	}
	if e.TransactionTypeID == 0 {
		e.TransactionTypeID = 1
	}
	if e.StatusID == 0 {
		e.StatusID = StatusSuccess
	}
	return e
}

// Validate enforces the status/error invariant: a failure carries a
// non-empty error message and a success carries none.
func (e StatusEvent) Validate() error {
	if e.StatusID == StatusFailure && e.ErrorMessage == "" {
		return pipeline_errors.ErrMissingErrorDetail
	}
	if e.StatusID == StatusSuccess && e.ErrorMessage != "" {
		return pipeline_errors.ErrUnexpectedErrorDetail
	}
	return nil
}

// LogRecord is the persisted, append-only form of a StatusEvent. MessageID is
// the bus-assigned identifier of the message the event arrived in; CreatedAt
// is set by the store at ingestion time, never by the producer.
type LogRecord struct {
	ID                int64           `json:"id"`
	MessageID         string          `json:"message_id"`
	LogTypeID         LogType         `json:"logtypeid"`
	CategoryID        Category        `json:"categoryid"`
	TransactionTypeID TransactionType `json:"transactiontypeid"`
	StatusID          Status          `json:"statusid"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	PhoneNumber       string          `json:"phone_number,omitempty"`
	Email             string          `json:"email,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
