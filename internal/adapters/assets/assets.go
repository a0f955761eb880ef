// Package assets copies public files and fonts into the output tree.
package assets

import (
	"context"
	"fmt"
	"io"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
)

var (
	_ ports.Task          = (*Copier)(nil)
	_ ports.Fingerprinter = (*Copier)(nil)
)

// Copier copies the files of every copy mapping unchanged.
type Copier struct {
	resolver ports.FileResolver
}

// NewCopier creates a new Copier.
func NewCopier(resolver ports.FileResolver) *Copier {
	return &Copier{resolver: resolver}
}

func (c *Copier) expand(cfg domain.Config) ([]domain.FilePair, error) {
	var pairs []domain.FilePair
	for _, mapping := range cfg.Copy {
		expanded, err := c.resolver.Expand(cfg.Root, mapping)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, expanded...)
	}
	return pairs, nil
}

// Fingerprint lists the copied files and their destinations.
func (c *Copier) Fingerprint(cfg domain.Config) (domain.Fingerprint, error) {
	pairs, err := c.expand(cfg)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	var fp domain.Fingerprint
	for _, pair := range pairs {
		fp.Inputs = append(fp.Inputs, pair.Src)
		fp.Outputs = append(fp.Outputs, pair.Dest)
	}
	return fp, nil
}

// Run copies every file. Directories are recreated as needed.
func (c *Copier) Run(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
	pairs, err := c.expand(cfg)
	if err != nil {
		return cfg, err
	}
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return cfg, err
		}
		if err := fs.CopyFile(cfg.Root, pair.Src, pair.Dest); err != nil {
			return cfg, err
		}
	}
	_, _ = fmt.Fprintf(out, "copied %d file(s)\n", len(pairs))
	return cfg, nil
}
