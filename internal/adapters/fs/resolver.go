package fs

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileResolver = (*Resolver)(nil)

// Resolver expands glob patterns with doublestar semantics ("**", braces,
// and "!" exclusions).
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// Glob returns the files below root matched by patterns, relative to root and
// slash-separated. Matches keep pattern order; within a pattern they are sorted.
func (r *Resolver) Glob(root string, patterns []string) ([]string, error) {
	include, exclude, err := splitPatterns(patterns)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var result []string
	for _, pattern := range include {
		base, rest := doublestar.SplitPattern(pattern)

		var matches []string
		for file := range r.walker.WalkFiles(filepath.Join(root, filepath.FromSlash(base)), nil) {
			rel, err := filepath.Rel(root, file)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			relToBase := strings.TrimPrefix(rel, strings.TrimSuffix(base, "/")+"/")
			if base == "." {
				relToBase = rel
			}
			if ok, _ := doublestar.Match(rest, relToBase); !ok || seen[rel] {
				continue
			}
			if matchAny(exclude, rel) {
				continue
			}
			seen[rel] = true
			matches = append(matches, rel)
		}
		slices.Sort(matches)
		result = append(result, matches...)
	}
	return result, nil
}

// Expand resolves mapping into source/destination pairs relative to root.
func (r *Resolver) Expand(root string, mapping domain.FileMapping) ([]domain.FilePair, error) {
	cwd := filepath.Join(root, filepath.FromSlash(mapping.Cwd))
	rels, err := r.Glob(cwd, mapping.Src)
	if err != nil {
		return nil, zerr.With(err, "cwd", mapping.Cwd)
	}

	pairs := make([]domain.FilePair, 0, len(rels))
	for _, rel := range rels {
		pairs = append(pairs, domain.FilePair{
			Src:  path.Join(mapping.Cwd, rel),
			Dest: mapping.DestPath(rel),
			Rel:  rel,
		})
	}
	return pairs, nil
}

// Match reports whether rel is matched by patterns. Invalid patterns never match.
func (r *Resolver) Match(patterns []string, rel string) bool {
	include, exclude, err := splitPatterns(patterns)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return matchAny(include, rel) && !matchAny(exclude, rel)
}

func splitPatterns(patterns []string) (include, exclude []string, err error) {
	for _, p := range patterns {
		negated := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		p = strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(p)), "/")
		if p == "" {
			p = "."
		}
		if !doublestar.ValidatePattern(p) {
			return nil, nil, zerr.With(domain.ErrInvalidPattern, "pattern", p)
		}
		if negated {
			exclude = append(exclude, p)
		} else {
			include = append(include, p)
		}
	}
	return include, exclude, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
