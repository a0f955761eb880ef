package ports

import "github.com/chensid/grunt-demo/internal/core/domain"

// FileResolver expands glob patterns and file mappings into concrete files.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks -source=resolver.go
type FileResolver interface {
	// Glob returns the files under root matching patterns, sorted and slash-separated,
	// relative to root. Patterns starting with "!" exclude matches.
	Glob(root string, patterns []string) ([]string, error)
	// Expand resolves a mapping into source and destination pairs relative to root.
	Expand(root string, mapping domain.FileMapping) ([]domain.FilePair, error)
	// Match reports whether the slash-separated relative path matches patterns.
	Match(patterns []string, rel string) bool
}
