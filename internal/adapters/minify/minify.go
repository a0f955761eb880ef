// Package minify shrinks the HTML, CSS and JS of the intermediate tree into
// the output tree.
package minify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"runtime"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Kind selects the content type a minifier handles.
type Kind string

// Supported kinds.
const (
	KindHTML Kind = "html"
	KindCSS  Kind = "css"
	KindJS   Kind = "js"
)

// Minifier minifies files of every kind. HTML is handled by tdewolff/minify,
// including inline styles and scripts; stylesheets and scripts go through esbuild.
type Minifier struct {
	resolver ports.FileResolver
	html     *minify.M
}

// NewMinifier creates a new Minifier.
func NewMinifier(resolver ports.FileResolver) *Minifier {
	m := minify.New()
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	return &Minifier{resolver: resolver, html: m}
}

// Task returns the task minifying files of kind.
func (m *Minifier) Task(kind Kind) ports.Task {
	return ports.TaskFunc(func(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
		return cfg, m.run(ctx, cfg, kind, out)
	})
}

func mappingFor(cfg domain.Config, kind Kind) domain.FileMapping {
	switch kind {
	case KindHTML:
		return cfg.Minify.HTML
	case KindCSS:
		return cfg.Minify.CSS
	default:
		return cfg.Minify.JS
	}
}

func (m *Minifier) run(ctx context.Context, cfg domain.Config, kind Kind, out io.Writer) error {
	pairs, err := m.resolver.Expand(cfg.Root, mappingFor(cfg, kind))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, pair := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := fs.ReadFile(cfg.Root, pair.Src)
			if err != nil {
				return err
			}
			minified, err := m.Minify(kind, pair.Src, src)
			if err != nil {
				return err
			}
			if err := fs.WriteFile(cfg.Root, pair.Dest, minified); err != nil {
				return err
			}
			if cfg.Minify.Brotli {
				return writeBrotli(cfg.Root, pair.Dest+".br", minified)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "minified %d %s file(s)\n", len(pairs), kind)
	return nil
}

// Minify returns the minified content of the file called name.
func (m *Minifier) Minify(kind Kind, name string, src []byte) ([]byte, error) {
	switch kind {
	case KindHTML:
		out, err := m.html.Bytes("text/html", src)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrMinify.Error()), "file", name)
		}
		return out, nil
	case KindCSS:
		return transform(name, src, api.LoaderCSS)
	case KindJS:
		return transform(name, src, api.LoaderJS)
	default:
		return nil, zerr.With(domain.ErrMinify, "kind", string(kind))
	}
}

func transform(name string, src []byte, loader api.Loader) ([]byte, error) {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:            loader,
		Sourcefile:        name,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		texts := make([]string, 0, len(result.Errors))
		for _, msg := range result.Errors {
			texts = append(texts, msg.Text)
		}
		return nil, zerr.With(zerr.Wrap(fmt.Errorf("%s", strings.Join(texts, "; ")), domain.ErrMinify.Error()), "file", name)
	}
	return result.Code, nil
}

func writeBrotli(root, rel string, data []byte) error {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	if _, err := w.Write(data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", rel)
	}
	if err := w.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", rel)
	}
	return fs.WriteFile(root, rel, buf.Bytes())
}
