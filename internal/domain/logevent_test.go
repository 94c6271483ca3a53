package domain

import (
	"encoding/json"
	"testing"
)

func TestStatusEventNormalizedDefaults(t *testing.T) {
	t.Parallel()

	got := StatusEvent{}.Normalized()
	if got.LogTypeID != LogTypeInfo || got.CategoryID != 1 || got.TransactionTypeID != 1 || got.StatusID != StatusSuccess {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestStatusEventNormalizedKeepsPresentFields(t *testing.T) {
	t.Parallel()

	event := StatusEvent{
		LogTypeID:         LogTypeOTPSent,
		CategoryID:        CategoryOTPDelivery,
		TransactionTypeID: TransactionSendOTP,
		StatusID:          StatusFailure,
		ErrorMessage:      "boom",
	}
	if got := event.Normalized(); got != event {
		t.Fatalf("present fields must not be overwritten: %+v", got)
	}
}

func TestStatusEventValidate(t *testing.T) {
	t.Parallel()

	failure := StatusEvent{StatusID: StatusFailure}
	if err := failure.Validate(); err == nil {
		t.Fatalf("failure without error message must be invalid")
	}

	success := StatusEvent{StatusID: StatusSuccess, ErrorMessage: "leftover"}
	if err := success.Validate(); err == nil {
		t.Fatalf("success with error message must be invalid")
	}

	ok := StatusEvent{StatusID: StatusFailure, ErrorMessage: "boom"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid failure rejected: %v", err)
	}
}

func TestStatusEventWireShape(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"logtypeid":2,"categoryid":8,"transactiontypeid":9,"statusid":1,"phone_number":"+15551234567"}`)
	var event StatusEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := StatusEvent{
		LogTypeID:         LogTypeOTPSent,
		CategoryID:        CategoryOTPDelivery,
		TransactionTypeID: TransactionSendOTP,
		StatusID:          StatusSuccess,
		PhoneNumber:       "+15551234567",
	}
	if event != want {
		t.Fatalf("wire shape mismatch: %+v", event)
	}
}

func TestDeliveryRequestHasTarget(t *testing.T) {
	t.Parallel()

	if (DeliveryRequest{OTPCode: "1234"}).HasTarget() {
		t.Fatalf("no targets present")
	}
	if !(DeliveryRequest{Email: "a@b.com", OTPCode: "1234"}).HasTarget() {
		t.Fatalf("email is a target")
	}
	if !(DeliveryRequest{PhoneNumber: "+15551234567", OTPCode: "1234"}).HasTarget() {
		t.Fatalf("phone is a target")
	}
}
