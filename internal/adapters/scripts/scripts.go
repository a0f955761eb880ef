// Package scripts transpiles modern JavaScript down to ES2015 with esbuild.
package scripts

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var (
	_ ports.Task          = (*Transpiler)(nil)
	_ ports.Fingerprinter = (*Transpiler)(nil)
)

// Transpiler transpiles every script of the scripts mapping.
type Transpiler struct {
	resolver ports.FileResolver
}

// NewTranspiler creates a new Transpiler.
func NewTranspiler(resolver ports.FileResolver) *Transpiler {
	return &Transpiler{resolver: resolver}
}

// Fingerprint lists the scripts and their transpiled counterparts.
func (t *Transpiler) Fingerprint(cfg domain.Config) (domain.Fingerprint, error) {
	pairs, err := t.resolver.Expand(cfg.Root, cfg.Scripts)
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

// Run transpiles the scripts concurrently. The first failure stops the task.
func (t *Transpiler) Run(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
	pairs, err := t.resolver.Expand(cfg.Root, cfg.Scripts)
	if err != nil {
		return cfg, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, pair := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return transpileFile(cfg.Root, pair)
		})
	}
	if err := g.Wait(); err != nil {
		return cfg, err
	}

	_, _ = fmt.Fprintf(out, "transpiled %d script(s)\n", len(pairs))
	return cfg, nil
}

func transpileFile(root string, pair domain.FilePair) error {
	src, err := fs.ReadFile(root, pair.Src)
	if err != nil {
		return err
	}

	code, err := Transpile(pair.Src, src)
	if err != nil {
		return err
	}
	return fs.WriteFile(root, pair.Dest, code)
}

// Transpile converts a single script to ES2015.
func Transpile(name string, src []byte) ([]byte, error) {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:     api.LoaderJS,
		Target:     api.ES2015,
		Sourcefile: name,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return nil, zerr.With(zerr.With(
			zerr.Wrap(fmt.Errorf("%s", formatMessages(result.Errors)), domain.ErrScriptTranspile.Error()),
			"file", name), "errors", len(result.Errors))
	}
	return result.Code, nil
}

func formatMessages(msgs []api.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Location == nil {
			lines = append(lines, msg.Text)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s:%d:%d: %s",
			msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text))
	}
	return strings.Join(lines, "\n")
}
