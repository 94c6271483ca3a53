package ingest

import (
	"context"
	"encoding/json"
	"time"

	"notify-pipeline/internal/domain"
	"notify-pipeline/internal/events"
	"notify-pipeline/internal/repository"
	"notify-pipeline/pkg/logger"
)

const storageTimeout = 5 * time.Second

// Entry is one received status event together with the bus-assigned message
// identifier it arrived under.
type Entry struct {
	MessageID string
	Event     domain.StatusEvent
}

// Summary is the aggregate outcome of one batch.
type Summary struct {
	RecordsWritten int
	RecordsFailed  int
}

// Consumer persists status events from the logging topic into the audit log.
// Records are ingested independently: a storage failure on one record is
// reported in the summary and the batch continues.
//
// Redelivery of the same bus message produces a duplicate LogRecord; the
// message identifier is stored for traceability, not deduplication.
type Consumer struct {
	logs   repository.LogRepository
	logger *logger.Logger
}

func NewConsumer(logs repository.LogRepository, l *logger.Logger) *Consumer {
	return &Consumer{logs: logs, logger: l}
}

// Ingest writes one LogRecord per entry and returns the batch summary.
func (c *Consumer) Ingest(ctx context.Context, batch []Entry) Summary {
	var summary Summary
	for _, entry := range batch {
		if err := c.ingestOne(ctx, entry); err != nil {
			c.logger.Errorf("failed to store log record for message %s: %v", entry.MessageID, err)
			summary.RecordsFailed++
			continue
		}
		summary.RecordsWritten++
	}
	return summary
}

func (c *Consumer) ingestOne(ctx context.Context, entry Entry) error {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	// Explicit normalization before storage: a minimally-formed event never
	// blocks ingestion. created_at is assigned by the store, not taken from
	// the producer.
	event := entry.Event.Normalized()
	return c.logs.Insert(ctx, &domain.LogRecord{
		MessageID:         entry.MessageID,
		LogTypeID:         event.LogTypeID,
		CategoryID:        event.CategoryID,
		TransactionTypeID: event.TransactionTypeID,
		StatusID:          event.StatusID,
		ErrorMessage:      event.ErrorMessage,
		PhoneNumber:       event.PhoneNumber,
		Email:             event.Email,
	})
}

// HandleBatch decodes envelopes from the logging topic and ingests them.
// A malformed payload counts as a failed record, not a failed batch.
func (c *Consumer) HandleBatch(ctx context.Context, batch []events.Envelope) {
	entries := make([]Entry, 0, len(batch))
	failed := 0
	for _, env := range batch {
		var event domain.StatusEvent
		if err := json.Unmarshal(env.Payload, &event); err != nil {
			c.logger.Errorf("malformed status event %s: %v", env.MessageID, err)
			failed++
			continue
		}
		entries = append(entries, Entry{MessageID: env.MessageID, Event: event})
	}

	summary := c.Ingest(ctx, entries)
	summary.RecordsFailed += failed
	if summary.RecordsFailed > 0 {
		c.logger.Warnf("log ingestion batch: %d written, %d failed", summary.RecordsWritten, summary.RecordsFailed)
	} else {
		c.logger.Infof("log ingestion batch: %d written", summary.RecordsWritten)
	}
}
