// Package shell runs external tools such as sass, stylelint, eslint and git.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/creack/pty"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec and, for TTY commands, a pty.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs cmd to completion, streaming its output to stdout and stderr.
// A non-zero exit is reported with its exit code attached.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error {
	if cmd == nil || len(cmd.Args) == 0 {
		return domain.ErrEmptyCommand
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	env := resolveEnvironment(os.Environ(), cmd.Path, cmd.Env)

	name := cmd.Args[0]
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // commands come from project configuration
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = env

	var err error
	if cmd.TTY {
		err = runPTY(c, stdout)
	} else {
		c.Stdout = stdout
		c.Stderr = stderr
		err = c.Run()
	}
	if err == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "exit_code", exitCode), "command", name)
}

func runPTY(c *exec.Cmd, out io.Writer) error {
	ptmx, err := pty.Start(c)
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading the master fails with EIO once the child exits; that ends the copy.
		_, _ = io.Copy(&crlfWriter{w: out}, ptmx)
	}()

	err = c.Wait()
	<-ioDone
	_ = ptmx.Close()
	return err
}

// crlfWriter turns the terminal's CRLF line endings back into LF.
type crlfWriter struct {
	w io.Writer
}

func (cw *crlfWriter) Write(p []byte) (int, error) {
	if _, err := cw.w.Write(bytes.ReplaceAll(p, []byte("\r\n"), []byte("\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// allowListedEnvVars are the inherited variables tools may see.
var allowListedEnvVars = []string{
	"HOME",
	"TERM",
	"USER",
	"PATH",
	"LANG",
	"TMPDIR",
	"SSH_AUTH_SOCK",
	"NO_COLOR",
}

// resolveEnvironment filters sysEnv through the allow-list, prepends extraPath
// to PATH and applies overrides last.
func resolveEnvironment(sysEnv, extraPath []string, overrides map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok && slices.Contains(allowListedEnvVars, k) {
			envMap[k] = v
		}
	}

	if len(extraPath) > 0 {
		parts := slices.Clone(extraPath)
		if sysPath := envMap["PATH"]; sysPath != "" {
			parts = append(parts, sysPath)
		}
		envMap["PATH"] = strings.Join(parts, string(os.PathListSeparator))
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches the PATH of env rather than the PATH of this process.
func lookPath(file string, env []string) (string, error) {
	var pathList string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			pathList = v
			break
		}
	}
	if pathList == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func isExecutable(file string) bool {
	info, err := os.Stat(file)
	if err != nil {
		return false
	}
	m := info.Mode()
	return !m.IsDir() && m&0o111 != 0
}
