package logger_test

import (
	"errors"
	"testing"

	"github.com/chensid/grunt-demo/internal/adapters/logger"
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []logger.ErrorEntry
	}{
		{
			name: "plain error",
			err:  errors.New("template not found"),
			want: []logger.ErrorEntry{{Message: "template not found"}},
		},
		{
			name: "sentinel with metadata",
			err:  zerr.With(zerr.With(domain.ErrLintViolation, "linter", "stylelint"), "files", 2),
			want: []logger.ErrorEntry{
				{Message: "lint violation", Metadata: map[string]any{"linter": "stylelint", "files": 2}},
			},
		},
		{
			name: "task failure chain ends at the plain cause",
			err: zerr.With(zerr.Wrap(
				zerr.Wrap(errors.New("permission denied"), domain.ErrTemplateRender.Error()),
				domain.ErrTaskExecutionFailed.Error(),
			), "task", "templates"),
			want: []logger.ErrorEntry{
				{Message: "task execution failed", Metadata: map[string]any{"task": "templates"}},
				{Message: "failed to render template", Metadata: map[string]any{}},
				{Message: "permission denied"},
			},
		},
		{
			name: "nil",
			err:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.CollectErrorEntriesExported(tt.err))
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
		{
			name:    "single line",
			entries: []logger.ErrorEntry{{Message: "pipeline failed"}},
			want:    "Error: pipeline failed",
		},
		{
			name: "metadata sorted by key",
			entries: []logger.ErrorEntry{{
				Message:  "failed to publish site",
				Metadata: map[string]any{"remote": "origin", "branch": "gh-pages"},
			}},
			want: "Error: failed to publish site\n       branch: gh-pages\n       remote: origin",
		},
		{
			name: "linter output keeps its lines",
			entries: []logger.ErrorEntry{
				{Message: "lint violation", Metadata: map[string]any{"linter": "eslint"}},
				{Message: "main.js\n  3:1  error  'x' is not defined"},
			},
			want: "Error: lint violation\n" +
				"       linter: eslint\n\n" +
				"  Caused by:\n" +
				"    → main.js\n" +
				"        3:1  error  'x' is not defined",
		},
		{
			name: "every cause gets an arrow",
			entries: []logger.ErrorEntry{
				{Message: "task execution failed"},
				{Message: "failed to compile styles", Metadata: map[string]any{"file": "main.scss"}},
				{Message: "exit status 65"},
			},
			want: "Error: task execution failed\n\n" +
				"  Caused by:\n" +
				"    → failed to compile styles\n" +
				"      file: main.scss\n" +
				"    → exit status 65",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}
