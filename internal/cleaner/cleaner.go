package cleaner

import (
	"context"
	"time"
	"wipeit/internal/connectors"
	"wipeit/internal/lib/retry"
	"wipeit/internal/resources"
)

// Handler deletes resources of a single type. Handlers hold configuration only
// and are shared by concurrent runs.
type Handler interface {
	Type() resources.ResourceType
	// PreDelete brings the resource to a deletable state. It must succeed when
	// the resource is already prepared.
	PreDelete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error
	Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error
}

// NoPreDelete is embedded by handlers whose resources need no preparation.
type NoPreDelete struct{}

func (NoPreDelete) PreDelete(context.Context, *connectors.SAwsSession, resources.ResourceId) error {
	return nil
}

type Options struct {
	// EbsWaitAttempts and EbsWaitDelay bound the wait for a detached volume to become available.
	EbsWaitAttempts int
	EbsWaitDelay    time.Duration
	// S3BatchSize is the number of keys sent per DeleteObjects call, at most 1000.
	S3BatchSize int
	// Retry applies to polling calls made while preparing a resource.
	Retry retry.Policy
}

func DefaultOptions() Options {
	return Options{
		EbsWaitAttempts: 40,
		EbsWaitDelay:    15 * time.Second,
		S3BatchSize:     MaxDeleteObjectsBatch,
		Retry:           retry.DefaultPolicy(),
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.EbsWaitAttempts <= 0 {
		o.EbsWaitAttempts = defaults.EbsWaitAttempts
	}
	if o.EbsWaitDelay <= 0 {
		o.EbsWaitDelay = defaults.EbsWaitDelay
	}
	if o.S3BatchSize <= 0 || o.S3BatchSize > MaxDeleteObjectsBatch {
		o.S3BatchSize = defaults.S3BatchSize
	}
	if o.Retry.Attempts <= 0 {
		o.Retry = defaults.Retry
	}
	return o
}
