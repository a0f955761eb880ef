package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"go.trai.ch/zerr"
)

// ReadFile reads the slash-separated path rel below root.
func ReadFile(root, rel string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", rel)
	}
	return data, nil
}

// WriteFile writes data to rel below root, creating parent directories.
func WriteFile(root, rel string, data []byte) error {
	dest := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", rel)
	}
	if err := os.WriteFile(dest, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", rel)
	}
	return nil
}

// CopyFile copies src to dest, both relative to root, keeping the file mode.
func CopyFile(root, src, dest string) error {
	in, err := os.Open(filepath.Join(root, filepath.FromSlash(src)))
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", src)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", src)
	}

	destPath := filepath.Join(root, filepath.FromSlash(dest))
	if err := os.MkdirAll(filepath.Dir(destPath), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", dest)
	}

	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", dest)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", dest)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", dest)
	}
	return nil
}

// Exists reports whether rel below root exists.
func Exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}
