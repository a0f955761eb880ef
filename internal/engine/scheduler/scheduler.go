// Package scheduler runs pipelines of build tasks.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
	// StatusCached indicates the task was skipped because it was cached.
	StatusCached TaskStatus = "Cached"
)

// RunOptions tunes a single run.
type RunOptions struct {
	// NoCache runs every task even when its fingerprint is unchanged.
	NoCache bool
}

// Scheduler runs tasks one at a time in pipeline order, threading the
// configuration returned by each task into the next.
type Scheduler struct {
	tasks     map[domain.TaskID]ports.Task
	pipelines domain.Pipelines
	store     ports.BuildInfoStore
	hasher    ports.Hasher
	tracer    ports.Tracer
	logger    ports.Logger

	watcher        ports.Watcher
	reloader       ports.Reloader
	resolver       ports.FileResolver
	debounceWindow time.Duration

	mu         sync.RWMutex
	taskStatus map[domain.TaskID]TaskStatus
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWatch binds the watch task to a file watcher. Tasks rerun by the watch
// task refresh browsers through reloader.
func WithWatch(watcher ports.Watcher, resolver ports.FileResolver, reloader ports.Reloader) Option {
	return func(s *Scheduler) {
		s.watcher = watcher
		s.resolver = resolver
		s.reloader = reloader
	}
}

// WithDebounceWindow sets the quiet period the watch task waits for before
// rerunning a task.
func WithDebounceWindow(window time.Duration) Option {
	return func(s *Scheduler) {
		s.debounceWindow = window
	}
}

// NewScheduler creates a Scheduler. Every registered task must have an
// implementation and every pipeline must flatten.
func NewScheduler(
	tasks map[domain.TaskID]ports.Task,
	pipelines domain.Pipelines,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	tracer ports.Tracer,
	logger ports.Logger,
	opts ...Option,
) (*Scheduler, error) {
	s := &Scheduler{
		tasks:          make(map[domain.TaskID]ports.Task, len(tasks)+1),
		pipelines:      pipelines,
		store:          store,
		hasher:         hasher,
		tracer:         tracer,
		logger:         logger,
		debounceWindow: defaultDebounceWindow,
		taskStatus:     make(map[domain.TaskID]TaskStatus),
	}
	for _, opt := range opts {
		opt(s)
	}

	for id, task := range tasks {
		s.tasks[id] = task
	}
	if _, ok := s.tasks[domain.TaskWatch]; !ok && s.watcher != nil {
		s.tasks[domain.TaskWatch] = s.watchTask()
	}

	for _, id := range domain.AllTasks() {
		if s.tasks[id] == nil {
			return nil, zerr.With(domain.ErrMissingTaskImplementation, "task", id.String())
		}
	}
	if err := pipelines.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Pipelines returns the pipeline registry the scheduler runs.
func (s *Scheduler) Pipelines() domain.Pipelines {
	return s.pipelines
}

// RunPipeline flattens the pipeline and runs its tasks in order. The first
// failure stops the run; later tasks never start.
func (s *Scheduler) RunPipeline(
	ctx context.Context,
	id domain.PipelineID,
	cfg domain.Config,
	opts RunOptions,
) (domain.Config, error) {
	order, err := s.pipelines.Flatten(id)
	if err != nil {
		return cfg, err
	}
	return s.run(ctx, id.String(), order, cfg, opts)
}

// RunTask runs a single task outside any pipeline.
func (s *Scheduler) RunTask(
	ctx context.Context,
	id domain.TaskID,
	cfg domain.Config,
	opts RunOptions,
) (domain.Config, error) {
	if !id.Valid() {
		return cfg, zerr.With(domain.ErrUnknownTask, "task", id.String())
	}
	return s.run(ctx, id.String(), []domain.TaskID{id}, cfg, opts)
}

// initTaskStatuses resets the status of the planned tasks to Pending.
func (s *Scheduler) initTaskStatuses(tasks []domain.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.taskStatus)
	for _, task := range tasks {
		s.taskStatus[task] = StatusPending
	}
}

// updateStatus updates the status of a task.
func (s *Scheduler) updateStatus(id domain.TaskID, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[id] = status
}

func (s *Scheduler) run(
	ctx context.Context,
	target string,
	order []domain.TaskID,
	cfg domain.Config,
	opts RunOptions,
) (domain.Config, error) {
	names := make([]string, len(order))
	for i, id := range order {
		names[i] = id.String()
	}
	s.tracer.EmitPlan(ctx, names, target)
	s.initTaskStatuses(order)

	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return cfg, err
		}

		next, err := s.execute(ctx, id, cfg, opts)
		if err != nil {
			return cfg, zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", id.String())
		}
		cfg = next

		// An interrupt while serving ends the run; anywhere else it fails it.
		if ctx.Err() != nil && id.Blocking() {
			return cfg, nil
		}
	}
	return cfg, nil
}

// execute runs one task inside its own span. Tasks that can fingerprint
// themselves are skipped when inputs and outputs match the last run.
func (s *Scheduler) execute(
	ctx context.Context,
	id domain.TaskID,
	cfg domain.Config,
	opts RunOptions,
) (domain.Config, error) {
	ctx, span := s.tracer.Start(ctx, id.String())
	defer span.End()

	s.updateStatus(id, StatusRunning)
	task := s.tasks[id]

	fingerprinter, cacheable := task.(ports.Fingerprinter)
	var inputHash string
	if cacheable {
		hit, hash, err := s.checkTaskCache(id, fingerprinter, cfg, opts.NoCache)
		if err != nil {
			span.RecordError(err)
			s.updateStatus(id, StatusFailed)
			return cfg, err
		}
		if hit {
			span.SetAttribute(ports.CachedAttribute, true)
			s.updateStatus(id, StatusCached)
			return cfg, nil
		}
		inputHash = hash
	}

	next, err := task.Run(ctx, cfg, span)
	if err != nil && id.Blocking() && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		next, err = cfg, nil
	}
	if err != nil {
		span.RecordError(err)
		s.updateStatus(id, StatusFailed)
		return cfg, err
	}

	if cacheable {
		s.updateCache(id, fingerprinter, next, inputHash)
	}
	s.updateStatus(id, StatusCompleted)
	return next, nil
}

// checkTaskCache reports whether the task can be skipped, along with the
// input hash to record after a successful run.
func (s *Scheduler) checkTaskCache(
	id domain.TaskID,
	fingerprinter ports.Fingerprinter,
	cfg domain.Config,
	noCache bool,
) (skipped bool, hash string, err error) {
	fp, err := fingerprinter.Fingerprint(cfg)
	if err != nil {
		return false, "", zerr.Wrap(err, domain.ErrInputResolutionFailed.Error())
	}

	hash, err = s.hasher.ComputeInputHash(id.String(), fp.Inputs, cfg.Root)
	if err != nil {
		return false, "", zerr.Wrap(err, domain.ErrInputHashComputationFailed.Error())
	}
	if noCache {
		return false, hash, nil
	}

	info, err := s.store.Get(cfg.Root, id.String())
	if err != nil {
		return false, hash, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	if info == nil || info.InputHash != hash {
		return false, hash, nil
	}
	return s.verifyOutputsMatch(fp.Outputs, info, cfg.Root), hash, nil
}

// verifyOutputsMatch checks the outputs on disk against the recorded hash.
// A missing output is a mismatch.
func (s *Scheduler) verifyOutputsMatch(outputs []string, info *domain.BuildInfo, root string) bool {
	if len(outputs) == 0 {
		return true
	}
	outputHash, err := s.hasher.ComputeOutputHash(outputs, root)
	if err != nil {
		return false
	}
	return info.OutputHash == outputHash
}

// updateCache records the fingerprint of a successful run. Failing to record
// it only costs a rebuild next time.
func (s *Scheduler) updateCache(id domain.TaskID, fingerprinter ports.Fingerprinter, cfg domain.Config, inputHash string) {
	fp, err := fingerprinter.Fingerprint(cfg)
	if err != nil {
		s.logger.Warn("cache: " + err.Error())
		return
	}

	var outputHash string
	if len(fp.Outputs) > 0 {
		outputHash, err = s.hasher.ComputeOutputHash(fp.Outputs, cfg.Root)
		if err != nil {
			s.logger.Warn("cache: " + err.Error())
			return
		}
	}

	err = s.store.Put(cfg.Root, domain.BuildInfo{
		TaskName:   id.String(),
		InputHash:  inputHash,
		OutputHash: outputHash,
		Timestamp:  time.Now(),
	})
	if err != nil {
		s.logger.Warn("cache: " + err.Error())
	}
}
