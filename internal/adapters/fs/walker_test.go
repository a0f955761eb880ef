package fs_test

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/stretchr/testify/assert"
)

func TestWalker_WalkFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".git/config":          "git",
		".site/store/abc.json": "{}",
		"node_modules/x/a.js":  "x",
		"src/main.js":          "main",
		"README.md":            "readme",
	})

	var got []string
	for path := range fs.NewWalker().WalkFiles(root, []string{"node_modules"}) {
		rel, _ := filepath.Rel(root, path)
		got = append(got, filepath.ToSlash(rel))
	}
	slices.Sort(got)

	assert.Equal(t, []string{"README.md", "src/main.js"}, got)
}

func TestWalker_WalkFiles_StopsEarly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "1", "b": "2", "c": "3"})

	count := 0
	for range fs.NewWalker().WalkFiles(root, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	count := 0
	for range fs.NewWalker().WalkFiles(filepath.Join(t.TempDir(), "absent"), nil) {
		count++
	}
	assert.Zero(t, count)
}
