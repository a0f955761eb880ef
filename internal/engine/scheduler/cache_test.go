package scheduler_test

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/chensid/grunt-demo/internal/engine/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fingerprintedTask is a task whose work can be skipped.
type fingerprintedTask struct {
	runs atomic.Int32
	fp   domain.Fingerprint
}

func (f *fingerprintedTask) Run(_ context.Context, cfg domain.Config, _ io.Writer) (domain.Config, error) {
	f.runs.Add(1)
	return cfg, nil
}

func (f *fingerprintedTask) Fingerprint(domain.Config) (domain.Fingerprint, error) {
	return f.fp, nil
}

func newFingerprintedTask() *fingerprintedTask {
	return &fingerprintedTask{fp: domain.Fingerprint{
		Inputs:  []string{"src/assets/scripts/main.js"},
		Outputs: []string{"temp/assets/scripts/main.js"},
	}}
}

func TestScheduler_CacheHitSkipsTask(t *testing.T) {
	t.Parallel()
	m := newMocks(t)
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any())
	root := t.TempDir()

	task := newFingerprintedTask()
	tasks := recordingTasks(&journal{})
	tasks[domain.TaskScripts] = task

	m.hasher.EXPECT().ComputeInputHash("scripts", task.fp.Inputs, root).Return("in-1", nil)
	m.store.EXPECT().Get(root, "scripts").Return(&domain.BuildInfo{TaskName: "scripts", InputHash: "in-1", OutputHash: "out-1"}, nil)
	m.hasher.EXPECT().ComputeOutputHash(task.fp.Outputs, root).Return("out-1", nil)
	m.span.EXPECT().SetAttribute(ports.CachedAttribute, true)

	s := newScheduler(t, tasks, m)
	_, err := s.RunTask(t.Context(), domain.TaskScripts, domain.DefaultConfig(root), scheduler.RunOptions{})
	require.NoError(t, err)

	assert.Zero(t, task.runs.Load())
	assert.Equal(t, scheduler.StatusCached, s.GetTaskStatusMap()[domain.TaskScripts])
}

func TestScheduler_CacheMissRecordsBuildInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stored *domain.BuildInfo
		// outputHashes counts output hashing: once to verify, once to record.
		outputHashes int
	}{
		{name: "no record", stored: nil, outputHashes: 1},
		{name: "inputs changed", stored: &domain.BuildInfo{InputHash: "in-0", OutputHash: "out-1"}, outputHashes: 1},
		{name: "outputs changed", stored: &domain.BuildInfo{InputHash: "in-1", OutputHash: "out-0"}, outputHashes: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newMocks(t)
			m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any())
			root := t.TempDir()

			task := newFingerprintedTask()
			tasks := recordingTasks(&journal{})
			tasks[domain.TaskScripts] = task

			m.hasher.EXPECT().ComputeInputHash("scripts", gomock.Any(), root).Return("in-1", nil)
			m.store.EXPECT().Get(root, "scripts").Return(tt.stored, nil)
			m.hasher.EXPECT().ComputeOutputHash(task.fp.Outputs, root).Return("out-1", nil).Times(tt.outputHashes)
			m.store.EXPECT().Put(root, gomock.Any()).DoAndReturn(func(_ string, info domain.BuildInfo) error {
				assert.Equal(t, "scripts", info.TaskName)
				assert.Equal(t, "in-1", info.InputHash)
				assert.Equal(t, "out-1", info.OutputHash)
				assert.WithinDuration(t, time.Now(), info.Timestamp, time.Minute)
				return nil
			})

			s := newScheduler(t, tasks, m)
			_, err := s.RunTask(t.Context(), domain.TaskScripts, domain.DefaultConfig(root), scheduler.RunOptions{})
			require.NoError(t, err)

			assert.Equal(t, int32(1), task.runs.Load())
			assert.Equal(t, scheduler.StatusCompleted, s.GetTaskStatusMap()[domain.TaskScripts])
		})
	}
}

func TestScheduler_NoCacheAlwaysRuns(t *testing.T) {
	t.Parallel()
	m := newMocks(t)
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any())
	root := t.TempDir()

	task := newFingerprintedTask()
	tasks := recordingTasks(&journal{})
	tasks[domain.TaskScripts] = task

	m.hasher.EXPECT().ComputeInputHash("scripts", gomock.Any(), root).Return("in-1", nil)
	m.hasher.EXPECT().ComputeOutputHash(gomock.Any(), root).Return("out-1", nil)
	m.store.EXPECT().Put(root, gomock.Any()).Return(nil)

	s := newScheduler(t, tasks, m)
	_, err := s.RunTask(t.Context(), domain.TaskScripts, domain.DefaultConfig(root), scheduler.RunOptions{NoCache: true})
	require.NoError(t, err)
	assert.Equal(t, int32(1), task.runs.Load())
}

func TestScheduler_CacheWriteFailureIsOnlyLogged(t *testing.T) {
	t.Parallel()
	m := newMocks(t)
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any())
	root := t.TempDir()

	task := newFingerprintedTask()
	tasks := recordingTasks(&journal{})
	tasks[domain.TaskScripts] = task

	m.hasher.EXPECT().ComputeInputHash(gomock.Any(), gomock.Any(), root).Return("in-1", nil)
	m.store.EXPECT().Get(root, "scripts").Return(nil, nil)
	m.hasher.EXPECT().ComputeOutputHash(gomock.Any(), root).Return("", domain.ErrOutputMissing)
	m.logger.EXPECT().Warn(gomock.Any())

	s := newScheduler(t, tasks, m)
	_, err := s.RunTask(t.Context(), domain.TaskScripts, domain.DefaultConfig(root), scheduler.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), task.runs.Load())
}

func TestScheduler_StoreReadFailureFailsTask(t *testing.T) {
	t.Parallel()
	m := newMocks(t)
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any())
	root := t.TempDir()

	task := newFingerprintedTask()
	tasks := recordingTasks(&journal{})
	tasks[domain.TaskScripts] = task

	m.hasher.EXPECT().ComputeInputHash(gomock.Any(), gomock.Any(), root).Return("in-1", nil)
	m.store.EXPECT().Get(root, "scripts").Return(nil, domain.ErrStoreUnmarshalFailed)

	s := newScheduler(t, tasks, m)
	_, err := s.RunTask(t.Context(), domain.TaskScripts, domain.DefaultConfig(root), scheduler.RunOptions{})
	require.ErrorIs(t, err, domain.ErrStoreUnmarshalFailed)
	assert.Zero(t, task.runs.Load())
}
