// Package lint runs the external style and script linters.
package lint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
)

// Linter runs a linter command over the files matching its patterns.
type Linter struct {
	executor ports.Executor
	resolver ports.FileResolver
}

// NewLinter creates a new Linter.
func NewLinter(executor ports.Executor, resolver ports.FileResolver) *Linter {
	return &Linter{executor: executor, resolver: resolver}
}

// Lint runs tool against its matching files. Any violation fails with
// domain.ErrLintViolation carrying the linter output. No matching files is a
// success and the tool is not started.
func (l *Linter) Lint(ctx context.Context, cfg domain.Config, tool domain.LintTool, out io.Writer) error {
	files, err := l.resolver.Glob(cfg.Root, tool.Patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintf(out, "no files match %s\n", strings.Join(tool.Patterns, ", "))
		return nil
	}
	if len(tool.Command) == 0 {
		return domain.ErrEmptyCommand
	}

	cmd := &domain.Command{
		Args: append(slices.Clone(tool.Command), files...),
		Dir:  cfg.Root,
		Path: []string{filepath.Join(cfg.Root, filepath.FromSlash(cfg.Dirs.Deps), ".bin")},
		TTY:  true,
	}

	var captured bytes.Buffer
	w := io.MultiWriter(out, &captured)
	if err := l.executor.Execute(ctx, cmd, w, w); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrLintViolation.Error()),
			"linter", cmd.Name()), "output", strings.TrimSpace(captured.String()))
	}

	_, _ = fmt.Fprintf(out, "%d file(s) lint free\n", len(files))
	return nil
}

// Styles returns the task linting stylesheets.
func (l *Linter) Styles() ports.Task {
	return ports.TaskFunc(func(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
		return cfg, l.Lint(ctx, cfg, cfg.Lint.Styles, out)
	})
}

// Scripts returns the task linting scripts.
func (l *Linter) Scripts() ports.Task {
	return ports.TaskFunc(func(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
		return cfg, l.Lint(ctx, cfg, cfg.Lint.Scripts, out)
	})
}
