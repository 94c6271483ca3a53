package ingest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"notify-pipeline/internal/domain"
	"notify-pipeline/internal/events"
	"notify-pipeline/internal/repository"
	pipeline_errors "notify-pipeline/pkg/errors"
	"notify-pipeline/pkg/logger"
)

type fakeLogRepository struct {
	failOn  map[string]bool
	records []*domain.LogRecord
}

func (r *fakeLogRepository) Insert(ctx context.Context, record *domain.LogRecord) error {
	if r.failOn[record.MessageID] {
		return pipeline_errors.ErrStorage
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeLogRepository) List(ctx context.Context, filter repository.LogFilter) ([]domain.LogRecord, error) {
	out := make([]domain.LogRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, *record)
	}
	return out, nil
}

func newTestConsumer(repo repository.LogRepository) *Consumer {
	return NewConsumer(repo, logger.New(logger.DevelopmentMode))
}

func TestIngestAppliesDefaults(t *testing.T) {
	t.Parallel()

	repo := &fakeLogRepository{}
	c := newTestConsumer(repo)

	summary := c.Ingest(context.Background(), []Entry{
		{MessageID: "msg-1", Event: domain.StatusEvent{}},
	})

	if summary.RecordsWritten != 1 || summary.RecordsFailed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	record := repo.records[0]
	if record.LogTypeID != 1 || record.CategoryID != 1 || record.TransactionTypeID != 1 || record.StatusID != 1 {
		t.Fatalf("defaults not applied: %+v", record)
	}
	if record.MessageID != "msg-1" {
		t.Fatalf("message id not carried through: %q", record.MessageID)
	}
}

func TestIngestPerRecordFailureIsolation(t *testing.T) {
	t.Parallel()

	repo := &fakeLogRepository{failOn: map[string]bool{"msg-2": true}}
	c := newTestConsumer(repo)

	batch := []Entry{
		{MessageID: "msg-1", Event: domain.StatusEvent{StatusID: domain.StatusSuccess}},
		{MessageID: "msg-2", Event: domain.StatusEvent{StatusID: domain.StatusSuccess}},
		{MessageID: "msg-3", Event: domain.StatusEvent{StatusID: domain.StatusSuccess}},
	}
	summary := c.Ingest(context.Background(), batch)

	if summary.RecordsWritten != 2 {
		t.Fatalf("expected 2 written, got %d", summary.RecordsWritten)
	}
	if summary.RecordsFailed != 1 {
		t.Fatalf("expected exactly 1 failure, got %d", summary.RecordsFailed)
	}
	if len(repo.records) != 2 {
		t.Fatalf("expected the surviving records stored, got %d", len(repo.records))
	}
}

func TestIngestRoundTripFieldsVerbatim(t *testing.T) {
	t.Parallel()

	repo := &fakeLogRepository{}
	c := newTestConsumer(repo)

	event := domain.StatusEvent{
		LogTypeID:         domain.LogTypeOTPSent,
		CategoryID:        domain.CategoryOTPDelivery,
		TransactionTypeID: domain.TransactionSendOTP,
		StatusID:          domain.StatusSuccess,
		PhoneNumber:       "+15551234567",
	}
	c.Ingest(context.Background(), []Entry{{MessageID: "msg-1", Event: event}})

	record := repo.records[0]
	if record.LogTypeID != event.LogTypeID ||
		record.CategoryID != event.CategoryID ||
		record.TransactionTypeID != event.TransactionTypeID ||
		record.StatusID != event.StatusID ||
		record.PhoneNumber != event.PhoneNumber {
		t.Fatalf("business columns must match the event verbatim: %+v", record)
	}
	if !record.CreatedAt.IsZero() {
		t.Fatalf("created_at must be left to the store, got %v", record.CreatedAt)
	}
}

func TestHandleBatchDecodesEnvelopes(t *testing.T) {
	t.Parallel()

	repo := &fakeLogRepository{}
	c := newTestConsumer(repo)

	payload, err := json.Marshal(domain.StatusEvent{
		LogTypeID:  domain.LogTypeError,
		StatusID:   domain.StatusFailure,
		CategoryID: domain.CategoryDBCleanup,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	c.HandleBatch(context.Background(), []events.Envelope{
		{MessageID: "msg-1", PublishedAt: time.Now(), Payload: payload},
		{MessageID: "msg-2", Payload: []byte("{not json")},
	})

	if len(repo.records) != 1 {
		t.Fatalf("malformed payload must not block valid records, got %d stored", len(repo.records))
	}
	if repo.records[0].CategoryID != domain.CategoryDBCleanup {
		t.Fatalf("unexpected record: %+v", repo.records[0])
	}
}
