// Package app implements the application layer for the site pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chensid/grunt-demo/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"github.com/chensid/grunt-demo/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/chensid/grunt-demo/internal/engine/scheduler"
	"github.com/chensid/grunt-demo/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// NoOpenEnv disables opening a browser when set to "1".
const NoOpenEnv = "SITE_NO_OPEN"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	store        ports.BuildInfoStore
	hasher       ports.Hasher
	resolver     ports.FileResolver
	watcher      ports.Watcher
	reloader     ports.Reloader
	tasks        scheduler.Tasks
	pipelines    domain.Pipelines

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	resolver ports.FileResolver,
	watcher ports.Watcher,
	reloader ports.Reloader,
	tasks scheduler.Tasks,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		store:        store,
		hasher:       hasher,
		resolver:     resolver,
		watcher:      watcher,
		reloader:     reloader,
		tasks:        tasks,
		pipelines:    domain.DefaultPipelines(),
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput redirects task output and progress lines.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithPipelines replaces the pipeline registry.
func (a *App) WithPipelines(pipelines domain.Pipelines) *App {
	a.pipelines = pipelines
	return a
}

// RunOptions configuration for the Run methods.
type RunOptions struct {
	// Root is the project directory.
	Root string
	// NoCache runs every task even when its inputs did not change.
	NoCache bool
	// NoOpen keeps the servers from opening a browser.
	NoOpen bool
}

// RunPipeline runs the named pipeline against the project configuration.
func (a *App) RunPipeline(ctx context.Context, name string, opts RunOptions) error {
	id := domain.PipelineID(name)
	return a.run(ctx, opts, func(ctx context.Context, s *scheduler.Scheduler, cfg domain.Config) error {
		_, err := s.RunPipeline(ctx, id, cfg, scheduler.RunOptions{NoCache: opts.NoCache})
		return err
	})
}

// RunTask runs a single task.
func (a *App) RunTask(ctx context.Context, name string, opts RunOptions) error {
	id, err := domain.ParseTaskID(name)
	if err != nil {
		return err
	}
	return a.run(ctx, opts, func(ctx context.Context, s *scheduler.Scheduler, cfg domain.Config) error {
		_, err := s.RunTask(ctx, id, cfg, scheduler.RunOptions{NoCache: opts.NoCache})
		return err
	})
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Root string
	// Cache also removes the build info store.
	Cache bool
}

// Clean removes the intermediate and output directories, and optionally the
// build info store.
func (a *App) Clean(ctx context.Context, opts CleanOptions) error {
	err := a.RunTask(ctx, domain.TaskClean.String(), RunOptions{Root: opts.Root, NoCache: true})
	if err != nil || !opts.Cache {
		return err
	}

	cfg, err := a.configLoader.Load(opts.Root)
	if err != nil {
		return err
	}
	if err := a.store.Clear(cfg.Root); err != nil {
		return err
	}
	a.logger.Info("removed build info store")
	return nil
}

// List prints the pipelines with their flattened task order, then every task.
func (a *App) List(w io.Writer) error {
	order := []domain.PipelineID{
		domain.PipelineLint, domain.PipelineCompile, domain.PipelineServe,
		domain.PipelineBuild, domain.PipelineStart, domain.PipelineDeploy,
	}

	label := lipgloss.NewStyle().Width(14)
	_, _ = fmt.Fprintln(w, "Pipelines:")
	for _, id := range order {
		if _, ok := a.pipelines[id]; !ok {
			continue
		}
		tasks, err := a.pipelines.Flatten(id)
		if err != nil {
			return err
		}
		steps := make([]string, len(tasks))
		for i, task := range tasks {
			steps[i] = task.String()
		}
		_, _ = fmt.Fprintf(w, "  %s%s\n", label.Render(id.String()), strings.Join(steps, " "+style.Arrow+" "))
	}

	_, _ = fmt.Fprintln(w, "\nTasks:")
	for _, id := range domain.AllTasks() {
		_, _ = fmt.Fprintf(w, "  %s%s\n", label.Render(id.String()), id.Description())
	}
	return nil
}

func (a *App) run(
	ctx context.Context,
	opts RunOptions,
	fn func(context.Context, *scheduler.Scheduler, domain.Config) error,
) error {
	cfg, err := a.configLoader.Load(opts.Root)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if opts.NoOpen || os.Getenv(NoOpenEnv) == "1" {
		cfg.DevServer.Open = false
		cfg.Preview.Open = false
	}

	renderer := linear.NewRenderer(a.stdout, a.stderr)
	tracer, shutdown := telemetry.Setup(renderer)
	defer func() {
		_ = shutdown(context.Background())
	}()

	sched, err := scheduler.NewScheduler(
		a.tasks,
		a.pipelines,
		a.store,
		a.hasher,
		tracer,
		a.logger,
		scheduler.WithWatch(a.watcher, a.resolver, a.reloader),
	)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		// Servers started by the pipeline stop with this context.
		runCtx, cancel := context.WithCancel(gctx)
		defer cancel()
		defer func() { _ = renderer.Stop() }()

		if err := fn(runCtx, sched, cfg); err != nil {
			return errors.Join(domain.ErrPipelineFailed, err)
		}
		return nil
	})

	return g.Wait()
}
