package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chensid/grunt-demo/internal/adapters/watcher"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/chensid/grunt-demo/internal/core/ports/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// nextEvent waits for an event matching path.
func nextEvent(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed")
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func startWatcher(t *testing.T, root string) (*watcher.Watcher, <-chan ports.WatchEvent) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	w := watcher.NewWatcher(log)
	require.NoError(t, w.Start(t.Context(), root))
	t.Cleanup(func() { _ = w.Stop() })

	ch := make(chan ports.WatchEvent, 100)
	go func() {
		defer close(ch)
		for ev := range w.Events() {
			ch <- ev
		}
	}()
	return w, ch
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, domain.DirPerm))

	_, events := startWatcher(t, root)

	file := filepath.Join(src, "main.js")
	require.NoError(t, os.WriteFile(file, []byte("let a = 1"), domain.FilePerm))

	ev := nextEvent(t, events, file)
	require.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	_, events := startWatcher(t, root)

	dir := filepath.Join(root, "src", "assets")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), domain.DirPerm))
	nextEvent(t, events, filepath.Join(root, "src"))
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	nextEvent(t, events, dir)

	file := filepath.Join(dir, "main.scss")
	require.NoError(t, os.WriteFile(file, []byte("a{}"), domain.FilePerm))
	nextEvent(t, events, file)
}

func TestWatcher_StopEndsStream(t *testing.T) {
	w, events := startWatcher(t, t.TempDir())
	require.NoError(t, w.Stop())

	select {
	case _, ok := <-events:
		require.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("event stream still open")
	}
}
