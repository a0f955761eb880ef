package domain

import (
	"path"
	"strings"
)

// ExtDot selects which dot of a file name starts its extension.
type ExtDot string

const (
	// ExtDotFirst treats everything after the first dot as the extension.
	ExtDotFirst ExtDot = "first"
	// ExtDotLast treats everything after the last dot as the extension.
	ExtDotLast ExtDot = "last"
)

// FileMapping describes a bulk file transformation from a source root to a destination root.
// Src patterns are matched relative to Cwd; a pattern starting with "!" excludes matches.
type FileMapping struct {
	Cwd     string   `yaml:"cwd"`
	Src     []string `yaml:"src"`
	Dest    string   `yaml:"dest"`
	Ext     string   `yaml:"ext,omitempty"`
	ExtDot  ExtDot   `yaml:"extDot,omitempty"`
	Flatten bool     `yaml:"flatten,omitempty"`
}

// FilePair is one expanded source file and the destination it maps to.
// Both paths are slash-separated and relative to the project root.
type FilePair struct {
	Src  string
	Dest string
	// Rel is the source path relative to the mapping's Cwd.
	Rel string
}

// DestPath computes the destination of a file whose path relative to Cwd is rel.
func (m FileMapping) DestPath(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	dir, base := path.Split(rel)
	if m.Flatten {
		dir = ""
	}
	if m.Ext != "" {
		base = replaceExt(base, m.Ext, m.ExtDot)
	}
	return path.Join(m.Dest, dir, base)
}

func replaceExt(base, ext string, dot ExtDot) string {
	var idx int
	if dot == ExtDotLast {
		idx = strings.LastIndex(base, ".")
	} else {
		// A leading dot marks a hidden file, not an extension.
		idx = strings.Index(base[min(1, len(base)):], ".")
		if idx >= 0 {
			idx++
		}
	}
	if idx <= 0 {
		return base + ext
	}
	return base[:idx] + ext
}
