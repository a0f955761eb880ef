package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash digests of task inputs and outputs.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeInputHash hashes the task name together with the path and content of
// every input. Inputs are relative to root; a directory contributes all files below it.
func (h *Hasher) ComputeInputHash(taskName string, inputs []string, root string) (string, error) {
	hasher := xxhash.New()
	_, _ = hasher.WriteString(taskName)
	_, _ = hasher.Write([]byte{0})

	sorted := slices.Clone(inputs)
	slices.Sort(sorted)

	for _, input := range slices.Compact(sorted) {
		path := filepath.Join(root, filepath.FromSlash(input))
		info, err := os.Stat(path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrInputHashComputationFailed.Error()), "path", path)
		}
		if !info.IsDir() {
			if err := h.hashFile(hasher, root, path); err != nil {
				return "", err
			}
			continue
		}
		for file := range h.walker.WalkFiles(path, nil) {
			if err := h.hashFile(hasher, root, file); err != nil {
				return "", err
			}
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) hashFile(digest io.Writer, root, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	_, _ = digest.Write([]byte(filepath.ToSlash(rel)))
	_, _ = digest.Write([]byte{0})

	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}
	if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, domain.ErrFileHashFailed.Error())
	}
	return nil
}

// ComputeOutputHash hashes the content of outputs in sorted order. A missing
// output is reported as domain.ErrOutputMissing.
func (h *Hasher) ComputeOutputHash(outputs []string, root string) (string, error) {
	sorted := slices.Clone(outputs)
	slices.Sort(sorted)

	hasher := xxhash.New()
	for _, output := range sorted {
		path := filepath.Join(root, filepath.FromSlash(output))

		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", zerr.With(zerr.Wrap(iofs.ErrNotExist, domain.ErrOutputMissing.Error()), "path", path)
			}
			return "", zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
		}

		sum, err := h.ComputeFileHash(path)
		if err != nil {
			return "", err
		}
		if err := binary.Write(hasher, binary.LittleEndian, sum); err != nil {
			return "", zerr.Wrap(err, domain.ErrFileHashFailed.Error())
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
