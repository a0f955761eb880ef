package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/chensid/grunt-demo/internal/app"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/chensid/grunt-demo/internal/core/ports/mocks"
	"github.com/chensid/grunt-demo/internal/engine/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// The app installs the global tracer provider, so these tests do not run in
// parallel.

type appFixture struct {
	app    *app.App
	loader *mocks.MockConfigLoader
	store  *mocks.MockBuildInfoStore
	logger *mocks.MockLogger
	tasks  scheduler.Tasks
	stdout *bytes.Buffer
	stderr *bytes.Buffer

	mu  sync.Mutex
	ran []domain.TaskID
}

func (f *appFixture) record(id domain.TaskID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ran = append(f.ran, id)
}

func (f *appFixture) recorded() []domain.TaskID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TaskID(nil), f.ran...)
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	t.Setenv(app.NoOpenEnv, "")

	ctrl := gomock.NewController(t)
	f := &appFixture{
		loader: mocks.NewMockConfigLoader(ctrl),
		store:  mocks.NewMockBuildInfoStore(ctrl),
		logger: mocks.NewMockLogger(ctrl),
		tasks:  make(scheduler.Tasks),
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
	}
	for _, id := range domain.AllTasks() {
		f.tasks[id] = ports.TaskFunc(func(_ context.Context, cfg domain.Config, _ io.Writer) (domain.Config, error) {
			f.record(id)
			return cfg, nil
		})
	}

	f.app = app.New(
		f.loader,
		f.logger,
		f.store,
		mocks.NewMockHasher(ctrl),
		mocks.NewMockFileResolver(ctrl),
		mocks.NewMockWatcher(ctrl),
		mocks.NewMockReloader(ctrl),
		f.tasks,
	).WithOutput(f.stdout, f.stderr)
	return f
}

func TestApp_RunPipeline(t *testing.T) {
	f := newAppFixture(t)
	root := t.TempDir()
	f.loader.EXPECT().Load("site").Return(domain.DefaultConfig(root), nil)
	f.tasks[domain.TaskTemplates] = ports.TaskFunc(func(_ context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
		f.record(domain.TaskTemplates)
		_, _ = io.WriteString(out, "src/index.html -> temp/index.html\n")
		return cfg, nil
	})

	err := f.app.RunPipeline(t.Context(), "compile", app.RunOptions{Root: "site"})
	require.NoError(t, err)

	assert.Equal(t, []domain.TaskID{domain.TaskTemplates, domain.TaskStyles, domain.TaskScripts}, f.recorded())
	assert.Contains(t, f.stderr.String(), "Running compile (3 task(s)): templates → styles → scripts")
	assert.Contains(t, f.stderr.String(), "[templates] Starting...")
	assert.Contains(t, f.stderr.String(), "[scripts] ✓ Completed in")
	assert.Contains(t, f.stdout.String(), "[templates] src/index.html -> temp/index.html")
}

func TestApp_RunPipeline_FailureMarksPipelineFailed(t *testing.T) {
	f := newAppFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(t.TempDir()), nil)
	f.tasks[domain.TaskLintStyles] = ports.TaskFunc(func(_ context.Context, cfg domain.Config, _ io.Writer) (domain.Config, error) {
		f.record(domain.TaskLintStyles)
		return cfg, zerr.Wrap(errors.New("exit status 2"), domain.ErrLintViolation.Error())
	})

	err := f.app.RunPipeline(t.Context(), "lint", app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrPipelineFailed)
	require.ErrorContains(t, err, domain.ErrTaskExecutionFailed.Error())

	assert.Equal(t, []domain.TaskID{domain.TaskLintStyles}, f.recorded())
	assert.Contains(t, f.stderr.String(), "[lint-styles] ✗ Failed after")
}

func TestApp_RunPipeline_Unknown(t *testing.T) {
	f := newAppFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(t.TempDir()), nil)

	err := f.app.RunPipeline(t.Context(), "release", app.RunOptions{})
	require.ErrorContains(t, err, domain.ErrUnknownPipeline.Error())
	assert.Empty(t, f.recorded())
}

func TestApp_ConfigErrorStopsBeforeAnyTask(t *testing.T) {
	f := newAppFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(domain.Config{}, domain.ErrInvalidConfig)

	err := f.app.RunPipeline(t.Context(), "build", app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Empty(t, f.recorded())
}

func TestApp_NoOpen(t *testing.T) {
	tests := []struct {
		name string
		env  string
		opts app.RunOptions
	}{
		{name: "flag", opts: app.RunOptions{NoOpen: true}},
		{name: "environment", env: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppFixture(t)
			t.Setenv(app.NoOpenEnv, tt.env)
			f.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(t.TempDir()), nil)

			var seen domain.Config
			f.tasks[domain.TaskServeDev] = ports.TaskFunc(func(_ context.Context, cfg domain.Config, _ io.Writer) (domain.Config, error) {
				seen = cfg
				return cfg, nil
			})

			require.NoError(t, f.app.RunTask(t.Context(), "serve-dev", tt.opts))
			assert.False(t, seen.DevServer.Open)
			assert.False(t, seen.Preview.Open)
		})
	}
}

func TestApp_RunTask_Unknown(t *testing.T) {
	f := newAppFixture(t)

	err := f.app.RunTask(t.Context(), "uglify", app.RunOptions{})
	require.ErrorContains(t, err, domain.ErrUnknownTask.Error())
}

func TestApp_InterruptEndsLongRunningTaskCleanly(t *testing.T) {
	f := newAppFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(t.TempDir()), nil)

	started := make(chan struct{})
	f.tasks[domain.TaskWatch] = ports.TaskFunc(func(ctx context.Context, cfg domain.Config, _ io.Writer) (domain.Config, error) {
		close(started)
		<-ctx.Done()
		return cfg, ctx.Err()
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- f.app.RunTask(ctx, "watch", app.RunOptions{}) }()

	<-started
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}

func TestApp_InterruptDuringBuildFails(t *testing.T) {
	f := newAppFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(t.TempDir()), nil)

	started := make(chan struct{})
	f.tasks[domain.TaskImages] = ports.TaskFunc(func(ctx context.Context, cfg domain.Config, _ io.Writer) (domain.Config, error) {
		f.record(domain.TaskImages)
		close(started)
		<-ctx.Done()
		return cfg, ctx.Err()
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- f.app.RunPipeline(ctx, "build", app.RunOptions{}) }()

	<-started
	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, domain.ErrPipelineFailed)
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}

	ran := f.recorded()
	assert.Equal(t, domain.TaskImages, ran[len(ran)-1])
	assert.NotContains(t, ran, domain.TaskCleanTemp)
}

func TestApp_Clean(t *testing.T) {
	f := newAppFixture(t)
	root := t.TempDir()
	f.loader.EXPECT().Load("site").Return(domain.DefaultConfig(root), nil).Times(2)
	f.store.EXPECT().Clear(root).Return(nil)
	f.logger.EXPECT().Info("removed build info store")

	require.NoError(t, f.app.Clean(t.Context(), app.CleanOptions{Root: "site", Cache: true}))
	assert.Equal(t, []domain.TaskID{domain.TaskClean}, f.recorded())
}

func TestApp_CleanKeepsStoreByDefault(t *testing.T) {
	f := newAppFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(domain.DefaultConfig(t.TempDir()), nil)

	require.NoError(t, f.app.Clean(t.Context(), app.CleanOptions{}))
	assert.Equal(t, []domain.TaskID{domain.TaskClean}, f.recorded())
}

func TestApp_List(t *testing.T) {
	f := newAppFixture(t)

	var out bytes.Buffer
	require.NoError(t, f.app.List(&out))

	assert.Contains(t, out.String(), "Pipelines:")
	assert.Contains(t, out.String(), "compile       templates → styles → scripts")
	assert.Contains(t, out.String(), "deploy        clean → templates")
	assert.Contains(t, out.String(), "publish       Push the output directory to the hosting branch")
}
