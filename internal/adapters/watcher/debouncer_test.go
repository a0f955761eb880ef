package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/chensid/grunt-demo/internal/adapters/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects debouncer callbacks.
type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) callback(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, paths)
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(watcher.DefaultDebounceWindow, rec.callback)

		d.Add("src/assets/scripts/b.js")
		d.Add("src/assets/scripts/a.js")
		d.Add("src/assets/scripts/b.js")

		time.Sleep(watcher.DefaultDebounceWindow + time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"src/assets/scripts/a.js", "src/assets/scripts/b.js"}}, rec.snapshot())
	})
}

func TestDebouncer_TimerResetsOnAdd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.callback)

		d.Add("a.scss")
		time.Sleep(60 * time.Millisecond)
		d.Add("b.scss")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, rec.snapshot())

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		require.Len(t, rec.snapshot(), 1)
	})
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(50*time.Millisecond, rec.callback)

		d.Add("index.html")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Add("about.html")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"index.html"}, {"about.html"}}, rec.snapshot())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(100*time.Millisecond, rec.callback)

		d.Add("main.js")
		d.Flush()
		assert.Equal(t, [][]string{{"main.js"}}, rec.snapshot())

		// The stopped timer must not deliver again.
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, rec.snapshot(), 1)
	})
}

func TestDebouncer_FlushEmpty(t *testing.T) {
	rec := &recorder{}
	watcher.NewDebouncer(time.Second, rec.callback).Flush()
	assert.Empty(t, rec.snapshot())
}

func TestDebouncer_FlushAfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &recorder{}
		d := watcher.NewDebouncer(50*time.Millisecond, rec.callback)

		d.Add("main.js")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		d.Flush()

		assert.Len(t, rec.snapshot(), 1)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)
		d.Add("main.js")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.NotPanics(t, d.Flush)
	})
}
