// Package linear provides a line-buffered renderer that prefixes task output
// with the task name.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/chensid/grunt-demo/internal/ui/output"
	"github.com/chensid/grunt-demo/internal/ui/style"
	"github.com/muesli/termenv"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer with chronological, prefixed lines.
// Task output goes to stdout; lifecycle messages go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	tasks   map[string]*taskState
	stopped bool
}

type taskState struct {
	name      string
	startTime time.Time
	buf       bytes.Buffer
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	profile func() termenv.Profile
}

// WithProfile forces a color profile.
func WithProfile(p termenv.Profile) Option {
	return func(o *options) {
		o.profile = func() termenv.Profile { return p }
	}
}

// NewRenderer creates a Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer, opts ...Option) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	o := options{profile: output.ColorProfileANSI}
	for _, opt := range opts {
		opt(&o)
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, o.profile),
		tasks:  make(map[string]*taskState),
	}
}

// Start does nothing; the renderer writes synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes partial lines of tasks that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, task := range r.tasks {
		r.flushLocked(task)
	}
	r.stopped = true
	return nil
}

// Wait does nothing; the renderer writes synchronously.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the flattened task order.
func (r *Renderer) OnPlanEmit(tasks []string, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	arrow := r.output.String(" " + style.Arrow + " ").Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "Running %s (%d task(s)): %s\n",
		r.output.String(target).Bold().String(), len(tasks), strings.Join(tasks, arrow))
}

// OnTaskStart prints a start message.
func (r *Renderer) OnTaskStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.tasks[spanID] = &taskState{name: name, startTime: startTime}

	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", r.prefix(name))
}

// OnTaskLog buffers data and prints every complete line.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	task.buf.Write(data)
	for {
		idx := bytes.IndexByte(task.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := task.buf.Next(idx + 1)
		r.printLineLocked(task.name, line)
	}
}

// OnTaskComplete flushes the remaining output and prints the outcome.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)

	r.flushLocked(task)

	duration := endTime.Sub(task.startTime).Round(time.Millisecond)
	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", r.prefix(task.name), symbol, duration, err)
		return
	}
	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", r.prefix(task.name), symbol, duration)
}

// OnTaskCached flushes the remaining output and reports the task as up to date.
func (r *Renderer) OnTaskCached(spanID string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)

	r.flushLocked(task)

	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Up to date\n", r.prefix(task.name), symbol)
}

func (r *Renderer) prefix(name string) string {
	return r.output.String("[" + name + "]").Faint().String()
}

func (r *Renderer) flushLocked(task *taskState) {
	if task.buf.Len() > 0 {
		r.printLineLocked(task.name, task.buf.Bytes())
		task.buf.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
