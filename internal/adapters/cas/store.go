// Package cas persists per-task build records under the project's .site directory.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.BuildInfoStore with one JSON file per task.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the last record for taskName, or nil when there is none.
func (s *Store) Get(root, taskName string) (*domain.BuildInfo, error) {
	filename := s.filename(root, taskName)
	data, err := os.ReadFile(filename) //nolint:gosec // path is built from the root and a hashed name
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "task", taskName)
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "task", taskName)
	}
	return &info, nil
}

// Put records info, replacing any earlier record for the same task.
func (s *Store) Put(root string, info domain.BuildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.filename(root, info.TaskName)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil { //nolint:gosec // see Get
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp, filename); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

// Clear removes every record below root.
func (s *Store) Clear(root string) error {
	if err := os.RemoveAll(filepath.Join(root, domain.DefaultStorePath())); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "root", root)
	}
	return nil
}

func (s *Store) filename(root, taskName string) string {
	sum := sha256.Sum256([]byte(taskName))
	return filepath.Join(root, domain.DefaultStorePath(), hex.EncodeToString(sum[:])+".json")
}
