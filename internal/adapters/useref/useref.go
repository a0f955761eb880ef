// Package useref collapses build blocks in rendered HTML into single
// references and collects the files each reference stands for.
package useref

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
)

var (
	blockStart = regexp.MustCompile(`^\s*build:(\w+)(?:\(([^)]*)\))?(?:\s+(\S+))?\s*$`)
	blockEnd   = regexp.MustCompile(`^\s*endbuild\s*$`)
)

const (
	blockJS     = "js"
	blockCSS    = "css"
	blockRemove = "remove"
)

var _ ports.Task = (*Resolver)(nil)

// Resolver rewrites the pages matched by the useref patterns in place and
// publishes the collected concatenation groups in the returned config.
//
// A reference found below the intermediate directory is recorded relative to
// it. A reference that cannot be found is recorded with the intermediate
// directory prepended, which is what the path correction task later undoes
// for dependency paths.
type Resolver struct {
	resolver ports.FileResolver
}

// NewResolver creates a new Resolver.
func NewResolver(resolver ports.FileResolver) *Resolver {
	return &Resolver{resolver: resolver}
}

// Run processes every page and returns cfg with Concat set.
func (r *Resolver) Run(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
	pages, err := r.resolver.Glob(cfg.Root, cfg.Useref.HTML)
	if err != nil {
		return cfg, err
	}

	var groups domain.ConcatGroups
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return cfg, err
		}

		content, err := fs.ReadFile(cfg.Root, page)
		if err != nil {
			return cfg, err
		}

		p := pageResolver{root: cfg.Root, page: page, tempPrefix: cfg.TempPrefix()}
		rewritten, found, err := p.process(content)
		if err != nil {
			return cfg, zerr.With(err, "page", page)
		}

		for _, group := range found {
			if groups, err = groups.Add(group); err != nil {
				return cfg, zerr.With(err, "page", page)
			}
		}

		if !bytes.Equal(rewritten, content) {
			if err := fs.WriteFile(cfg.Root, page, rewritten); err != nil {
				return cfg, err
			}
		}
	}

	for _, group := range groups {
		_, _ = fmt.Fprintf(out, "%s <- %s\n", group.Target, strings.Join(group.Sources, ", "))
	}
	cfg.Concat = groups
	return cfg, nil
}

// Fix returns the task correcting the dependency paths of the concatenation groups.
func Fix() ports.Task {
	return ports.TaskFunc(func(_ context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
		before := cfg.Concat
		cfg.Concat = domain.CorrectConcatPaths(cfg.Concat, cfg.TempPrefix(), cfg.Useref.DepsToken)
		for i, group := range cfg.Concat {
			for j, src := range group.Sources {
				if src != before[i].Sources[j] {
					_, _ = fmt.Fprintf(out, "%s -> %s\n", before[i].Sources[j], src)
				}
			}
		}
		return cfg, nil
	})
}

type block struct {
	kind    string
	search  []string
	target  string
	sources []string
}

type pageResolver struct {
	root       string
	page       string
	tempPrefix string
}

func (p pageResolver) process(content []byte) ([]byte, []domain.ConcatGroup, error) {
	var (
		out    bytes.Buffer
		groups []domain.ConcatGroup
		open   *block
	)

	z := html.NewTokenizer(bytes.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, nil, zerr.Wrap(z.Err(), domain.ErrMalformedBuildBlock.Error())
		}
		raw := z.Raw()

		switch {
		case tt == html.CommentToken && open == nil:
			b, ok, err := parseStart(string(z.Text()))
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				out.Write(raw)
				continue
			}
			open = b

		case tt == html.CommentToken && blockEnd.Match(z.Text()):
			group, err := p.closeBlock(open, &out)
			if err != nil {
				return nil, nil, err
			}
			if group != nil {
				groups = append(groups, *group)
			}
			open = nil

		case open != nil:
			if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
				if ref := reference(z.Token()); ref != "" {
					open.sources = append(open.sources, ref)
				}
			}

		default:
			out.Write(raw)
		}
	}

	if open != nil {
		return nil, nil, zerr.With(domain.ErrMalformedBuildBlock, "reason", "unclosed build:"+open.kind+" block")
	}
	return out.Bytes(), groups, nil
}

func parseStart(text string) (*block, bool, error) {
	m := blockStart.FindStringSubmatch(text)
	if m == nil {
		return nil, false, nil
	}
	b := &block{kind: m[1], target: m[3], sources: []string{}}
	if m[2] != "" {
		for _, dir := range strings.Split(m[2], ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				b.search = append(b.search, path.Clean(dir))
			}
		}
	}
	switch b.kind {
	case blockJS, blockCSS:
		if b.target == "" {
			return nil, false, zerr.With(domain.ErrMalformedBuildBlock, "reason", "build:"+b.kind+" block without target")
		}
	case blockRemove:
	default:
		return nil, false, zerr.With(domain.ErrMalformedBuildBlock, "reason", "unknown block type "+b.kind)
	}
	return b, true, nil
}

// closeBlock writes the replacement reference for b and returns its group.
func (p pageResolver) closeBlock(b *block, out *bytes.Buffer) (*domain.ConcatGroup, error) {
	switch b.kind {
	case blockJS:
		_, _ = fmt.Fprintf(out, `<script src="%s"></script>`, b.target)
	case blockCSS:
		_, _ = fmt.Fprintf(out, `<link rel="stylesheet" href="%s">`, b.target)
	default:
		return nil, nil
	}

	target, ok := strings.CutPrefix(p.locate(b.target), p.tempPrefix)
	if !ok {
		return nil, zerr.With(domain.ErrMalformedBuildBlock, "reason", "target "+b.target+" is outside the intermediate directory")
	}

	sources := make([]string, 0, len(b.sources))
	for _, ref := range b.sources {
		sources = append(sources, p.resolve(ref, b.search))
	}
	return &domain.ConcatGroup{Target: target, Sources: sources}, nil
}

// locate resolves ref against the page the way a browser would, treating the
// intermediate directory as the server root.
func (p pageResolver) locate(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if rest, ok := strings.CutPrefix(ref, "/"); ok {
		return path.Join(p.tempPrefix, rest)
	}
	return path.Join(path.Dir(p.page), ref)
}

func (p pageResolver) resolve(ref string, search []string) string {
	local := p.locate(ref)

	candidates := make([]string, 0, len(search)+1)
	for _, dir := range search {
		rel := strings.TrimPrefix(local, p.tempPrefix)
		candidates = append(candidates, path.Join(dir, rel))
	}
	candidates = append(candidates, local)

	for _, candidate := range candidates {
		if fs.Exists(p.root, candidate) {
			if rel, ok := strings.CutPrefix(candidate, p.tempPrefix); ok {
				return rel
			}
			return candidate
		}
	}
	return local
}

func reference(tok html.Token) string {
	var key string
	switch tok.Data {
	case "script":
		key = "src"
	case "link":
		key = "href"
	default:
		return ""
	}
	for _, attr := range tok.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
