package cleanup

import (
	"context"
	"time"
)

// Runner invokes the cleaner on a fixed interval.
type Runner struct {
	cleaner  *Cleaner
	interval time.Duration
}

func NewRunner(cleaner *Cleaner, interval time.Duration) *Runner {
	return &Runner{cleaner: cleaner, interval: interval}
}

func (r *Runner) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = r.cleaner.Run(ctx)
			}
		}
	}()
}
