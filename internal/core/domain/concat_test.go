package domain_test

import (
	"strings"
	"testing"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectConcatPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    domain.ConcatGroups
		expected domain.ConcatGroups
	}{
		{
			name: "dependency path loses intermediate prefix",
			input: domain.ConcatGroups{
				{Target: "app.js", Sources: []string{"temp/node_modules/lib/x.js", "js/main.js"}},
			},
			expected: domain.ConcatGroups{
				{Target: "app.js", Sources: []string{"node_modules/lib/x.js", "js/main.js"}},
			},
		},
		{
			name: "unaffected groups pass through",
			input: domain.ConcatGroups{
				{Target: "assets/styles/main.css", Sources: []string{"assets/styles/a.css", "assets/styles/b.css"}},
			},
			expected: domain.ConcatGroups{
				{Target: "assets/styles/main.css", Sources: []string{"assets/styles/a.css", "assets/styles/b.css"}},
			},
		},
		{
			name:     "empty group stays empty",
			input:    domain.ConcatGroups{{Target: "empty.js", Sources: []string{}}},
			expected: domain.ConcatGroups{{Target: "empty.js", Sources: []string{}}},
		},
		{
			name: "token matched as a substring",
			input: domain.ConcatGroups{
				{Target: "notes.js", Sources: []string{"temp/my_node_modules_notes/a.js"}},
			},
			expected: domain.ConcatGroups{
				{Target: "notes.js", Sources: []string{"my_node_modules_notes/a.js"}},
			},
		},
		{
			name: "prefix removed only at the start",
			input: domain.ConcatGroups{
				{Target: "vendor.js", Sources: []string{"node_modules/pkg/temp/x.js"}},
			},
			expected: domain.ConcatGroups{
				{Target: "vendor.js", Sources: []string{"node_modules/pkg/temp/x.js"}},
			},
		},
		{
			name: "only the first prefix is removed",
			input: domain.ConcatGroups{
				{Target: "vendor.js", Sources: []string{"temp/temp/node_modules/x.js"}},
			},
			expected: domain.ConcatGroups{
				{Target: "vendor.js", Sources: []string{"temp/node_modules/x.js"}},
			},
		},
		{
			name: "group and member order preserved",
			input: domain.ConcatGroups{
				{Target: "b.js", Sources: []string{"temp/node_modules/z.js", "y.js", "temp/node_modules/a.js"}},
				{Target: "a.js", Sources: []string{"c.js"}},
			},
			expected: domain.ConcatGroups{
				{Target: "b.js", Sources: []string{"node_modules/z.js", "y.js", "node_modules/a.js"}},
				{Target: "a.js", Sources: []string{"c.js"}},
			},
		},
		{
			name:     "nil groups",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := domain.CorrectConcatPaths(tt.input, "temp/", "node_modules")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCorrectConcatPaths_Properties(t *testing.T) {
	t.Parallel()

	groups := domain.ConcatGroups{
		{Target: "assets/scripts/vendor.js", Sources: []string{
			"temp/node_modules/jquery/dist/jquery.js",
			"temp/node_modules/bootstrap/dist/js/bootstrap.js",
			"assets/scripts/plugins.js",
		}},
		{Target: "assets/styles/vendor.css", Sources: []string{
			"temp/node_modules/bootstrap/dist/css/bootstrap.css",
		}},
		{Target: "assets/scripts/main.js", Sources: []string{"assets/scripts/main.js"}},
		{Target: "assets/scripts/none.js", Sources: nil},
	}
	original := groups.Clone()

	once := domain.CorrectConcatPaths(groups, "temp/", "node_modules")
	twice := domain.CorrectConcatPaths(once, "temp/", "node_modules")

	t.Run("input is not mutated", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, original, groups)
	})

	t.Run("prefix removed exactly once from affected members", func(t *testing.T) {
		t.Parallel()
		for i, group := range groups {
			require.Len(t, once[i].Sources, len(group.Sources))
			for j, src := range group.Sources {
				if strings.Contains(src, "node_modules") {
					assert.Equal(t, strings.TrimPrefix(src, "temp/"), once[i].Sources[j])
				} else {
					assert.Equal(t, src, once[i].Sources[j])
				}
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, once, twice)
	})
}

func TestConcatGroups_Add(t *testing.T) {
	t.Parallel()

	var groups domain.ConcatGroups
	groups, err := groups.Add(domain.ConcatGroup{Target: "a.js", Sources: []string{"x.js", "y.js"}})
	require.NoError(t, err)

	groups, err = groups.Add(domain.ConcatGroup{Target: "a.js", Sources: []string{"x.js", "y.js"}})
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	_, err = groups.Add(domain.ConcatGroup{Target: "a.js", Sources: []string{"y.js", "x.js"}})
	require.ErrorContains(t, err, domain.ErrConflictingConcatGroup.Error())

	group, ok := groups.Lookup("a.js")
	require.True(t, ok)
	assert.Equal(t, []string{"x.js", "y.js"}, group.Sources)
}
