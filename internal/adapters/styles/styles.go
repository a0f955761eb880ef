// Package styles compiles SCSS with the sass command line compiler.
package styles

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var (
	_ ports.Task          = (*Compiler)(nil)
	_ ports.Fingerprinter = (*Compiler)(nil)
)

// Compiler compiles every stylesheet of the styles mapping. Partials, whose
// names start with an underscore, are only compiled through their importers.
type Compiler struct {
	executor ports.Executor
	resolver ports.FileResolver
}

// NewCompiler creates a new Compiler.
func NewCompiler(executor ports.Executor, resolver ports.FileResolver) *Compiler {
	return &Compiler{executor: executor, resolver: resolver}
}

// Fingerprint lists every stylesheet below the source directory, partials
// included, and the compiled outputs.
func (c *Compiler) Fingerprint(cfg domain.Config) (domain.Fingerprint, error) {
	pairs, err := c.resolver.Expand(cfg.Root, cfg.Styles.Mapping)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	inputs, err := c.resolver.Glob(cfg.Root, []string{path.Join(cfg.Styles.Mapping.Cwd, "**/*.scss")})
	if err != nil {
		return domain.Fingerprint{}, err
	}
	fp := domain.Fingerprint{Inputs: inputs}
	for _, pair := range pairs {
		fp.Outputs = append(fp.Outputs, pair.Dest)
	}
	return fp, nil
}

// Run compiles the stylesheets concurrently, without source maps.
func (c *Compiler) Run(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
	if len(cfg.Styles.Command) == 0 {
		return cfg, domain.ErrEmptyCommand
	}

	pairs, err := c.resolver.Expand(cfg.Root, cfg.Styles.Mapping)
	if err != nil {
		return cfg, err
	}

	binDir := filepath.Join(cfg.Root, filepath.FromSlash(cfg.Dirs.Deps), ".bin")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, pair := range pairs {
		g.Go(func() error {
			return c.compile(ctx, cfg, binDir, pair)
		})
	}
	if err := g.Wait(); err != nil {
		return cfg, err
	}

	_, _ = fmt.Fprintf(out, "compiled %d stylesheet(s)\n", len(pairs))
	return cfg, nil
}

func (c *Compiler) compile(ctx context.Context, cfg domain.Config, binDir string, pair domain.FilePair) error {
	dest := filepath.Join(cfg.Root, filepath.FromSlash(pair.Dest))
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", pair.Dest)
	}

	cmd := &domain.Command{
		Args: append(slices.Clone(cfg.Styles.Command), pair.Src, pair.Dest),
		Dir:  cfg.Root,
		Path: []string{binDir},
	}

	var output bytes.Buffer
	if err := c.executor.Execute(ctx, cmd, &output, &output); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrStyleCompile.Error()),
			"file", pair.Src), "output", strings.TrimSpace(output.String()))
	}
	return nil
}
