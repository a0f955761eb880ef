package shell_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chensid/grunt-demo/internal/adapters/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvironment(t *testing.T) {
	sep := string(os.PathListSeparator)
	env := shell.ResolveEnvironment(
		[]string{"PATH=/usr/bin", "HOME=/home/u", "AWS_SECRET=x", "broken"},
		[]string{"/p/node_modules/.bin"},
		map[string]string{"FORCE_COLOR": "1"},
	)

	assert.Equal(t, []string{
		"FORCE_COLOR=1",
		"HOME=/home/u",
		"PATH=/p/node_modules/.bin" + sep + "/usr/bin",
	}, env)
}

func TestResolveEnvironment_NoSystemPath(t *testing.T) {
	env := shell.ResolveEnvironment(nil, []string{"/bin/local"}, nil)
	assert.Equal(t, []string{"PATH=/bin/local"}, env)
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "eslint")
	//nolint:gosec // test needs an executable script
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain"), []byte(""), 0o600))

	got, err := shell.LookPath("eslint", []string{"PATH=" + dir})
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = shell.LookPath("plain", []string{"PATH=" + dir})
	require.Error(t, err)

	_, err = shell.LookPath("eslint", nil)
	require.Error(t, err)
}
