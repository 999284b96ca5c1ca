package port

import (
	"context"
	"time"
)

// Task is a background job: a stable type name plus opaque payload bytes.
// Payload encoding belongs to the task package that owns the type.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes one task. Returning a non-nil error requests a retry per
// the adapter's policy, so handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption tunes delivery. Zero values mean "adapter default". The
// surface is deliberately the subset the messaging tasks use: queue routing,
// a retry budget for notification fan-out, and a uniqueness window so a
// retried send cannot enqueue the same fan-out twice.
type EnqueueOption struct {
	Queue     string
	MaxRetry  int
	UniqueTTL time.Duration
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs task handlers. Run blocks until the context is canceled.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}
