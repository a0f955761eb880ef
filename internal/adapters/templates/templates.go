// Package templates renders the top-level HTML pages with pongo2.
package templates

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/flosch/pongo2/v6"
	"go.trai.ch/zerr"
)

var _ ports.Task = (*Renderer)(nil)

// Renderer renders each page of the templates mapping with the menu, the
// package manifest and the build time in scope. Layouts and partials below the
// source directory can be extended and included but are not rendered on their own.
type Renderer struct {
	resolver ports.FileResolver
}

// NewRenderer creates a new Renderer.
func NewRenderer(resolver ports.FileResolver) *Renderer {
	return &Renderer{resolver: resolver}
}

// Run renders every page and writes it to the intermediate tree.
func (r *Renderer) Run(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
	if cfg.Package == nil {
		return cfg, zerr.With(domain.ErrPackageManifest, "path", domain.PackageFileName)
	}

	pairs, err := r.resolver.Expand(cfg.Root, cfg.Templates)
	if err != nil {
		return cfg, err
	}

	loader, err := pongo2.NewLocalFileSystemLoader(filepath.Join(cfg.Root, filepath.FromSlash(cfg.Templates.Cwd)))
	if err != nil {
		return cfg, zerr.Wrap(err, domain.ErrTemplateRender.Error())
	}
	set := pongo2.NewSet("site", loader)

	data := pongo2.Context{
		"menu": menuData(cfg.Menu),
		"pkg":  cfg.Package.TemplateData(),
		"date": cfg.BuildTime,
	}

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return cfg, err
		}

		tpl, err := set.FromFile(pair.Rel)
		if err != nil {
			return cfg, zerr.With(zerr.Wrap(err, domain.ErrTemplateRender.Error()), "template", pair.Src)
		}
		html, err := tpl.ExecuteBytes(data)
		if err != nil {
			return cfg, zerr.With(zerr.Wrap(err, domain.ErrTemplateRender.Error()), "template", pair.Src)
		}
		if err := fs.WriteFile(cfg.Root, pair.Dest, html); err != nil {
			return cfg, err
		}
		_, _ = fmt.Fprintf(out, "%s -> %s\n", pair.Src, pair.Dest)
	}
	return cfg, nil
}

// menuData exposes menu entries with lower-case keys, as templates address them.
func menuData(items []domain.MenuItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		entry := map[string]any{
			"name": item.Name,
			"link": item.Link,
		}
		if len(item.Children) > 0 {
			entry["children"] = menuData(item.Children)
		}
		out = append(out, entry)
	}
	return out
}
