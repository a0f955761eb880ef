package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// ConcatGroup is a merge target and the ordered files merged into it.
// Target is relative to the intermediate tree. Member order is load order.
type ConcatGroup struct {
	Target  string   `yaml:"target"`
	Sources []string `yaml:"sources"`
}

// ConcatGroups is the ordered list of groups produced by reference resolution.
type ConcatGroups []ConcatGroup

// Clone returns a deep copy of the groups.
func (g ConcatGroups) Clone() ConcatGroups {
	if g == nil {
		return nil
	}
	out := make(ConcatGroups, len(g))
	for i, group := range g {
		out[i] = ConcatGroup{Target: group.Target, Sources: slices.Clone(group.Sources)}
	}
	return out
}

// Lookup returns the group writing to target.
func (g ConcatGroups) Lookup(target string) (ConcatGroup, bool) {
	for _, group := range g {
		if group.Target == target {
			return group, true
		}
	}
	return ConcatGroup{}, false
}

// Add appends a group. A group for an existing target is accepted only when
// its sources are identical, in which case it is dropped.
func (g ConcatGroups) Add(group ConcatGroup) (ConcatGroups, error) {
	if existing, ok := g.Lookup(group.Target); ok {
		if slices.Equal(existing.Sources, group.Sources) {
			return g, nil
		}
		return g, zerr.With(ErrConflictingConcatGroup, "target", group.Target)
	}
	return append(g, group), nil
}

// CorrectConcatPaths strips tempPrefix from every member containing depsToken.
// The match is on substring containment, so a member such as
// "temp/my_node_modules_notes/a.js" is rewritten as well. The prefix is removed
// only when the member starts with it, and only once, so a tempPrefix further
// into the path ("node_modules/pkg/temp/x.js") is kept where a first-occurrence
// string replace would drop it. The input is not modified.
func CorrectConcatPaths(groups ConcatGroups, tempPrefix, depsToken string) ConcatGroups {
	if groups == nil {
		return nil
	}
	out := make(ConcatGroups, len(groups))
	for i, group := range groups {
		sources := make([]string, len(group.Sources))
		for j, src := range group.Sources {
			if strings.Contains(src, depsToken) {
				src = strings.TrimPrefix(src, tempPrefix)
			}
			sources[j] = src
		}
		out[i] = ConcatGroup{Target: group.Target, Sources: sources}
	}
	return out
}
