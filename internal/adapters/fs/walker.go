// Package fs provides file system adapters for walking, matching and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
)

// skippedDirs are never descended into.
var skippedDirs = []string{".git", ".jj", ".site"}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file below root, with root joined in front.
// Directories whose base name matches one of ignores are skipped. A missing
// root yields nothing.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && w.skip(d.Name(), ignores) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) skip(name string, ignores []string) bool {
	if slices.Contains(skippedDirs, name) {
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
