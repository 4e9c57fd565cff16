// Package queue provides lease-based access to the job queue. A received
// message carries a lease that must be renewed while the job runs and deleted
// only after the job's terminal state is durable; an abandoned lease expires
// and the message becomes visible to another worker.
package queue

import (
	"context"
	"time"
)

// Lease is the opaque token bound to one in-flight message. It is owned by
// the worker that received it and shared only with the heartbeat renewer.
type Lease struct {
	receipt string
}

// Message is one unit of work leased from the queue.
type Message struct {
	Body  []byte
	Lease Lease
}

// JobEnvelope is the expected message body.
type JobEnvelope struct {
	JobID string `json:"job_id"`
}

// Consumer is the queue contract used by the worker loop.
type Consumer interface {
	// Receive long-polls for one message. It returns (nil, nil) when the
	// queue is empty; the caller retries immediately.
	Receive(ctx context.Context) (*Message, error)
	// Renew extends the lease expiry. Failures are non-fatal to the job.
	Renew(ctx context.Context, lease Lease, timeout time.Duration) error
	// Delete removes the message permanently. Call only after the job's
	// completion or failure write is durable.
	Delete(ctx context.Context, lease Lease) error
}

// Renewer is the subset of Consumer needed by the heartbeat.
type Renewer interface {
	Renew(ctx context.Context, lease Lease, timeout time.Duration) error
}
