package events

import (
	"context"
	"time"
)

// BatchHandler processes one bus-delivered batch to completion before the
// next batch is handed over.
type BatchHandler interface {
	HandleBatch(ctx context.Context, batch []Envelope)
}

// Batcher groups individual bus messages into batches, flushing when the
// batch is full or the flush interval elapses. Records inside a batch are
// still processed independently by the handler.
type Batcher struct {
	in       chan Envelope
	size     int
	interval time.Duration
	handler  BatchHandler
}

func NewBatcher(size int, interval time.Duration, handler BatchHandler) *Batcher {
	if size <= 0 {
		size = 1
	}
	return &Batcher{
		in:       make(chan Envelope, size*2),
		size:     size,
		interval: interval,
		handler:  handler,
	}
}

// Add enqueues one message for batching. Blocks if the handler is behind,
// which keeps backpressure on the bus subscription.
func (b *Batcher) Add(ctx context.Context, env Envelope) error {
	select {
	case b.in <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run flushes batches until ctx is cancelled. On shutdown the buffered batch
// is flushed so in-flight records finish rather than being dropped mid-way.
func (b *Batcher) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	batch := make([]Envelope, 0, b.size)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		out := make([]Envelope, len(batch))
		copy(out, batch)
		batch = batch[:0]
		b.handler.HandleBatch(ctx, out)
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case env := <-b.in:
			batch = append(batch, env)
			if len(batch) >= b.size {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
