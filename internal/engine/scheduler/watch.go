package scheduler

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/chensid/grunt-demo/internal/adapters/watcher" //nolint:depguard // shared debouncer
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
)

const defaultDebounceWindow = watcher.DefaultDebounceWindow

// watchTask reruns the task mapped to each watch rule when matching sources
// change. It blocks until the context ends. A failed rerun is logged and
// watching continues.
func (s *Scheduler) watchTask() ports.Task {
	return ports.TaskFunc(func(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
		if err := s.watcher.Start(ctx, cfg.Root); err != nil {
			return cfg, err
		}
		defer func() { _ = s.watcher.Stop() }()

		// Reruns never overlap.
		var mu sync.Mutex
		debouncers := make([]*watcher.Debouncer, len(cfg.Watch))
		names := make([]string, len(cfg.Watch))
		for i, rule := range cfg.Watch {
			names[i] = rule.Name
			debouncers[i] = watcher.NewDebouncer(s.debounceWindow, func(paths []string) {
				mu.Lock()
				defer mu.Unlock()
				if ctx.Err() != nil {
					return
				}
				s.rerun(ctx, cfg, rule, paths, out)
			})
		}
		_, _ = fmt.Fprintf(out, "watching %s\n", strings.Join(names, ", "))

		for event := range s.watcher.Events() {
			rel, err := filepath.Rel(cfg.Root, event.Path)
			if err != nil || strings.HasPrefix(rel, "..") {
				continue
			}
			rel = filepath.ToSlash(rel)
			for i, rule := range cfg.Watch {
				if s.resolver.Match(rule.Patterns, rel) {
					debouncers[i].Add(rel)
				}
			}
		}
		return cfg, nil
	})
}

func (s *Scheduler) rerun(ctx context.Context, cfg domain.Config, rule domain.WatchRule, paths []string, out io.Writer) {
	_, _ = fmt.Fprintf(out, "%s changed: %s\n", rule.Name, strings.Join(paths, ", "))

	before := s.snapshot(cfg)
	if _, err := s.execute(ctx, rule.Task, cfg, RunOptions{}); err != nil {
		s.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", rule.Task.String()))
		return
	}
	if s.reloader == nil {
		return
	}

	changed := changedFiles(before, s.snapshot(cfg))
	urls := make([]string, 0, len(changed))
	for _, rel := range changed {
		if url, ok := cfg.DevServer.URLPath(rel); ok {
			urls = append(urls, url)
		}
	}
	if len(urls) > 0 {
		s.reloader.Reload(urls)
	}
}

// snapshot hashes the files served by the development server.
func (s *Scheduler) snapshot(cfg domain.Config) map[string]uint64 {
	files, err := s.resolver.Glob(cfg.Root, cfg.DevServer.Files)
	if err != nil {
		s.logger.Warn("watch: " + err.Error())
		return nil
	}
	hashes := make(map[string]uint64, len(files))
	for _, rel := range files {
		h, err := s.hasher.ComputeFileHash(filepath.Join(cfg.Root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		hashes[rel] = h
	}
	return hashes
}

// changedFiles lists the files whose hash differs between two snapshots.
// Added and removed files count as changed.
func changedFiles(before, after map[string]uint64) []string {
	var changed []string
	for rel, h := range after {
		if old, ok := before[rel]; !ok || old != h {
			changed = append(changed, rel)
		}
	}
	for rel := range before {
		if _, ok := after[rel]; !ok {
			changed = append(changed, rel)
		}
	}
	slices.Sort(changed)
	return changed
}
