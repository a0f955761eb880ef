package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called when a pipeline has been flattened into tasks.
	OnPlanEmit(tasks []string, target string)

	// OnTaskStart is called when a task begins execution.
	// parentID is empty for root spans.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a task emits output.
	// data may contain partial lines or ANSI sequences.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a task finishes execution.
	// err is nil if successful.
	OnTaskComplete(spanID string, endTime time.Time, err error)

	// OnTaskCached is called instead of OnTaskComplete when a task was
	// skipped because nothing changed.
	OnTaskCached(spanID string, endTime time.Time)
}
