package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/stretchr/testify/require"
)

// writeTree creates files below root from a map of slash paths to contents.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	}
}
