package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chensid/grunt-demo/internal/adapters/shell"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func TestExecutor_Execute_SeparateStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := shell.NewExecutor().Execute(t.Context(), &domain.Command{
		Args: []string{"sh", "-c", "echo out; echo err >&2"},
		Dir:  t.TempDir(),
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestExecutor_Execute_TTY(t *testing.T) {
	var out bytes.Buffer
	err := shell.NewExecutor().Execute(t.Context(), &domain.Command{
		Args: []string{"sh", "-c", "echo line1; echo line2 >&2"},
		Dir:  t.TempDir(),
		TTY:  true,
	}, &out, nil)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "line1\n")
	assert.Contains(t, out.String(), "line2\n")
	assert.NotContains(t, out.String(), "\r")
}

func TestExecutor_Execute_ExitCode(t *testing.T) {
	err := shell.NewExecutor().Execute(t.Context(), &domain.Command{
		Args: []string{"sh", "-c", "exit 3"},
	}, nil, nil)

	require.ErrorContains(t, err, domain.ErrCommandFailed.Error())
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, 3, zErr.Metadata()["exit_code"])
	assert.Equal(t, "sh", zErr.Metadata()["command"])
}

func TestExecutor_Execute_Empty(t *testing.T) {
	err := shell.NewExecutor().Execute(t.Context(), &domain.Command{}, nil, nil)
	require.ErrorContains(t, err, domain.ErrEmptyCommand.Error())
}

func TestExecutor_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := shell.NewExecutor().Execute(ctx, &domain.Command{Args: []string{"sleep", "5"}}, nil, nil)
	require.Error(t, err)
}

func TestExecutor_Execute_LocalBinFirst(t *testing.T) {
	root := t.TempDir()
	bin := filepath.Join(root, "node_modules", ".bin")
	require.NoError(t, os.MkdirAll(bin, domain.DirPerm))
	//nolint:gosec // test needs an executable script
	require.NoError(t, os.WriteFile(filepath.Join(bin, "sass"), []byte("#!/bin/sh\necho local sass \"$@\"\n"), 0o700))

	var out bytes.Buffer
	err := shell.NewExecutor().Execute(t.Context(), &domain.Command{
		Args: []string{"sass", "--version"},
		Dir:  root,
		Path: []string{bin},
	}, &out, nil)

	require.NoError(t, err)
	assert.Equal(t, "local sass --version\n", out.String())
}

func TestExecutor_Execute_EnvOverrides(t *testing.T) {
	t.Setenv("SECRET_TOKEN", "leak")

	var out bytes.Buffer
	err := shell.NewExecutor().Execute(t.Context(), &domain.Command{
		Args: []string{"sh", "-c", "echo \"[$SECRET_TOKEN][$GIT_AUTHOR_NAME]\""},
		Env:  map[string]string{"GIT_AUTHOR_NAME": "site"},
	}, &out, nil)

	require.NoError(t, err)
	assert.Equal(t, "[][site]\n", out.String())
}
