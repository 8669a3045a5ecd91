// Package scheduler decouples webhook acknowledgement from ledger work.
// Payment gateways treat anything but an immediate 200 as a delivery failure
// and retry, so webhook handlers enqueue a fulfillment job and return; the
// job is applied by a worker afterwards.
package scheduler

import (
	"context"
	"time"
)

// FulfillmentJob is one confirmed gateway payment awaiting ledger work.
type FulfillmentJob struct {
	Content    string    `json:"content"`
	Amount     int64     `json:"amount"`
	ReceivedAt time.Time `json:"received_at"`
}

// Scheduler defines the interface for a component that hands a fulfillment
// job to asynchronous processing.
type Scheduler interface {
	// EnqueueFulfillment submits the job for later processing.
	EnqueueFulfillment(ctx context.Context, job *FulfillmentJob) error
}

// Applier consumes fulfillment jobs. Implemented by the reconciliation
// workflow.
type Applier interface {
	// ApplyPayment routes a confirmed payment to the matching ledger.
	ApplyPayment(ctx context.Context, content string, amount int64) error
}
