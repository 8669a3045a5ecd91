package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// InlineScheduler applies fulfillment jobs on a background goroutine inside
// the serving process. It is the single-instance deployment mode: no queue
// to operate, but jobs die with the process.
type InlineScheduler struct {
	Applier Applier
	Logger  *slog.Logger
	// Timeout bounds one job application.
	Timeout time.Duration
}

// NewInlineScheduler creates a new InlineScheduler.
func NewInlineScheduler(applier Applier, logger *slog.Logger) *InlineScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InlineScheduler{Applier: applier, Logger: logger, Timeout: 30 * time.Second}
}

// Make sure we conform to the interface
var _ Scheduler = (*InlineScheduler)(nil)

// EnqueueFulfillment applies the job asynchronously. The job gets its own
// context: the webhook response that triggered it has already been sent, so
// the request context is about to be cancelled.
func (s *InlineScheduler) EnqueueFulfillment(_ context.Context, job *FulfillmentJob) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
		defer cancel()

		if err := s.Applier.ApplyPayment(ctx, job.Content, job.Amount); err != nil {
			s.Logger.Error("fulfillment job failed",
				slog.String("content", job.Content),
				slog.Int64("amount", job.Amount),
				slog.Any("error", err))
		}
	}()
	return nil
}
