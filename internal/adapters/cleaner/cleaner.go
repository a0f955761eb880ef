// Package cleaner removes build directories.
package cleaner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
)

// Cleaner deletes directory trees below the project root.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean removes every target recursively. Absent targets are not an error.
// Every target is checked before anything is removed.
func (c *Cleaner) Clean(root string, targets []string, out io.Writer) error {
	paths := make([]string, 0, len(targets))
	for _, target := range targets {
		p, err := safePath(root, target)
		if err != nil {
			return err
		}
		paths = append(paths, p)
	}

	for i, p := range paths {
		if _, err := os.Lstat(p); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", targets[i])
		}
		_, _ = fmt.Fprintf(out, "removed %s\n", targets[i])
	}
	return nil
}

// All returns the task removing the intermediate and output directories.
func (c *Cleaner) All() ports.Task {
	return ports.TaskFunc(func(_ context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
		return cfg, c.Clean(cfg.Root, cfg.Clean, out)
	})
}

// Temp returns the task removing the intermediate directory.
func (c *Cleaner) Temp() ports.Task {
	return ports.TaskFunc(func(_ context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
		return cfg, c.Clean(cfg.Root, cfg.CleanTemp, out)
	})
}

func safePath(root, target string) (string, error) {
	p := filepath.Join(root, filepath.FromSlash(target))
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(domain.ErrUnsafeCleanTarget, "path", target)
	}
	return p, nil
}
