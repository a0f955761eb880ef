package ports

import (
	"context"
	"io"

	"github.com/chensid/grunt-demo/internal/core/domain"
)

// Task is the implementation bound to a registered task identifier.
//
//go:generate mockgen -source=task.go -destination=mocks/mock_task.go -package=mocks
type Task interface {
	// Run executes the task against cfg and returns the configuration
	// handed to the next task. Output meant for the user goes to out.
	Run(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error)
}

// Fingerprinter is implemented by tasks whose work can be skipped when
// neither their inputs nor their outputs changed since the last run.
type Fingerprinter interface {
	Fingerprint(cfg domain.Config) (domain.Fingerprint, error)
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error)

// Run calls f.
func (f TaskFunc) Run(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
	return f(ctx, cfg, out)
}
