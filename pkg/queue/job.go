package queue

import (
	"context"
	"errors"
)

var (
	ErrQueueFull   = errors.New("watermark queue is full")
	ErrQueueClosed = errors.New("watermark queue is closed")
)

// WatermarkJob describes one stored file awaiting its overlay.
type WatermarkJob struct {
	AssetID string `json:"asset_id"`
	Path    string `json:"path"`
	Kind    string `json:"kind"`
}

// Handler processes a job. Errors are logged by the consumer and never retried.
type Handler func(ctx context.Context, job WatermarkJob) error

type Publisher interface {
	Publish(ctx context.Context, job WatermarkJob) error
}

// Consumer delivers published jobs to a handler until shut down.
type Consumer interface {
	Consume(handler Handler) error
	Shutdown(ctx context.Context) error
}
