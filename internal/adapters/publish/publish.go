// Package publish pushes the output tree to the hosting branch with git.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Task = (*Publisher)(nil)

// Publisher replaces the content of a remote branch with a local directory.
type Publisher struct {
	executor ports.Executor
	git      string
}

// NewPublisher creates a new Publisher.
func NewPublisher(executor ports.Executor) *Publisher {
	return &Publisher{executor: executor, git: "git"}
}

// Run publishes cfg.Publish.Dir as the whole content of cfg.Publish.Branch.
// The branch is cloned into a scratch directory, its files are replaced and
// the result is pushed. An unchanged tree is not committed.
func (p *Publisher) Run(ctx context.Context, cfg domain.Config, out io.Writer) (domain.Config, error) {
	src := filepath.Join(cfg.Root, filepath.FromSlash(cfg.Publish.Dir))
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return cfg, zerr.With(domain.ErrPublishDirMissing, "path", cfg.Publish.Dir)
	}

	if err := p.publish(ctx, cfg, src, out); err != nil {
		return cfg, zerr.With(zerr.Wrap(err, domain.ErrPublishFailed.Error()), "branch", cfg.Publish.Branch)
	}
	return cfg, nil
}

func (p *Publisher) publish(ctx context.Context, cfg domain.Config, src string, out io.Writer) error {
	pub := cfg.Publish
	url, err := p.output(ctx, cfg.Root, "remote", "get-url", pub.Remote)
	if err != nil {
		return err
	}

	work, err := os.MkdirTemp("", "site-publish-")
	if err != nil {
		return zerr.Wrap(err, domain.ErrIO.Error())
	}
	defer func() { _ = os.RemoveAll(work) }()

	cloneErr := p.run(ctx, cfg.Root, io.Discard,
		"clone", "--quiet", "--depth", "1", "--single-branch",
		"--origin", pub.Remote, "--branch", pub.Branch, url, work)
	if cloneErr != nil {
		// The branch does not exist yet; start it without history.
		if err := p.run(ctx, work, io.Discard, "init", "--quiet"); err != nil {
			return err
		}
		if err := p.run(ctx, work, io.Discard, "checkout", "--quiet", "--orphan", pub.Branch); err != nil {
			return err
		}
		if err := p.run(ctx, work, io.Discard, "remote", "add", pub.Remote, url); err != nil {
			return err
		}
	}

	if err := replaceTree(work, src); err != nil {
		return err
	}

	if err := p.run(ctx, work, out, "add", "--all"); err != nil {
		return err
	}
	status, err := p.output(ctx, work, "status", "--porcelain")
	if err != nil {
		return err
	}
	if status == "" {
		_, _ = fmt.Fprintf(out, "%s is up to date\n", pub.Branch)
		return nil
	}

	if err := p.run(ctx, work, out, "commit", "--quiet", "--message", pub.Message); err != nil {
		return err
	}
	if err := p.run(ctx, work, out, "push", "--quiet", pub.Remote, pub.Branch); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "published %s to %s/%s\n", pub.Dir, pub.Remote, pub.Branch)
	return nil
}

func (p *Publisher) run(ctx context.Context, dir string, out io.Writer, args ...string) error {
	var stderr bytes.Buffer
	cmd := &domain.Command{Args: append([]string{p.git}, args...), Dir: dir}
	if err := p.executor.Execute(ctx, cmd, out, io.MultiWriter(out, &stderr)); err != nil {
		return zerr.With(zerr.With(err, "command", strings.Join(cmd.Args[:2], " ")),
			"output", strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (p *Publisher) output(ctx context.Context, dir string, args ...string) (string, error) {
	var stdout bytes.Buffer
	if err := p.run(ctx, dir, &stdout, args...); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// replaceTree empties work, keeping its repository metadata, and copies src
// into it.
func replaceTree(work, src string) error {
	entries, err := os.ReadDir(work)
	if err != nil {
		return zerr.Wrap(err, domain.ErrIO.Error())
	}
	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(work, entry.Name())); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", entry.Name())
		}
	}
	if err := os.CopyFS(work, os.DirFS(src)); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return zerr.With(zerr.Wrap(err, domain.ErrIO.Error()), "path", pathErr.Path)
		}
		return zerr.Wrap(err, domain.ErrIO.Error())
	}
	return nil
}
