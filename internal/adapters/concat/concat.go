// Package concat merges the files of each concatenation group.
package concat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Task = (*Concatenator)(nil)

// Concatenator writes every group target into the intermediate directory.
// Members are looked up in the intermediate directory first, then relative to
// the project root.
type Concatenator struct{}

// NewConcatenator creates a new Concatenator.
func NewConcatenator() *Concatenator {
	return &Concatenator{}
}

// Run writes each group as the exact byte concatenation of its members.
// A target may be one of its own members, so members are read in full first.
func (c *Concatenator) Run(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
	for _, group := range cfg.Concat {
		if err := ctx.Err(); err != nil {
			return cfg, err
		}

		var buf bytes.Buffer
		for _, member := range group.Sources {
			data, err := c.read(cfg, member)
			if err != nil {
				return cfg, zerr.With(err, "target", group.Target)
			}
			buf.Write(data)
		}

		target := path.Join(cfg.Dirs.Temp, group.Target)
		if err := fs.WriteFile(cfg.Root, target, buf.Bytes()); err != nil {
			return cfg, err
		}
		_, _ = fmt.Fprintf(out, "%s (%d file(s), %d bytes)\n", target, len(group.Sources), buf.Len())
	}
	return cfg, nil
}

func (c *Concatenator) read(cfg domain.Config, member string) ([]byte, error) {
	for _, candidate := range []string{path.Join(cfg.Dirs.Temp, member), path.Clean(member)} {
		data, err := os.ReadFile(filepath.Join(cfg.Root, filepath.FromSlash(candidate)))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", candidate)
		}
	}
	return nil, zerr.With(domain.ErrConcatMemberMissing, "member", member)
}
