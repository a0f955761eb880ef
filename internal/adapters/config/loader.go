// Package config loads the project configuration from site.yaml and package.json.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader.
type Loader struct {
	Logger ports.Logger
	// Now stamps the build time. It defaults to time.Now.
	Now func() time.Time
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Now: time.Now}
}

// Load builds the configuration for the project at root.
func (l *Loader) Load(root string) (domain.Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "root", root)
	}

	site, err := l.readSiteFile(abs)
	if err != nil {
		return domain.Config{}, err
	}

	dirs := domain.DefaultDirs()
	if site.Dirs != nil {
		mergeDirs(&dirs, *site.Dirs)
	}
	cfg := domain.NewConfig(abs, dirs)
	applySiteFile(&cfg, site)

	cfg.Package, err = l.readPackage(abs)
	if err != nil {
		return domain.Config{}, err
	}

	now := l.Now
	if now == nil {
		now = time.Now
	}
	cfg.BuildTime = now()

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func (l *Loader) readSiteFile(root string) (SiteFile, error) {
	var site SiteFile

	path := filepath.Join(root, domain.ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the project root
	if errors.Is(err, fs.ErrNotExist) {
		return site, nil
	}
	if err != nil {
		return site, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&site); err != nil && !errors.Is(err, io.EOF) {
		return site, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return site, nil
}

// readPackage parses package.json. A missing manifest is not an error here;
// the tasks that need it fail when they run.
func (l *Loader) readPackage(root string) (*domain.Package, error) {
	path := filepath.Join(root, domain.PackageFileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the project root
	if errors.Is(err, fs.ErrNotExist) {
		l.Logger.Warn(fmt.Sprintf("%s not found in %s", domain.PackageFileName, root))
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	pkg, err := domain.ParsePackage(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return pkg, nil
}

func mergeDirs(dirs *domain.Dirs, dto DirsDTO) {
	for dst, src := range map[*string]string{
		&dirs.Source: dto.Source,
		&dirs.Temp:   dto.Temp,
		&dirs.Public: dto.Public,
		&dirs.Dist:   dto.Dist,
		&dirs.Deps:   dto.Deps,
	} {
		if src != "" {
			*dst = filepath.ToSlash(filepath.Clean(src))
		}
	}
}

func applySiteFile(cfg *domain.Config, site SiteFile) {
	if site.Menu != nil {
		cfg.Menu = site.Menu
	}
	if site.Lint != nil {
		if len(site.Lint.Styles) > 0 {
			cfg.Lint.Styles.Command = site.Lint.Styles
		}
		if len(site.Lint.Scripts) > 0 {
			cfg.Lint.Scripts.Command = site.Lint.Scripts
		}
	}
	applyServer(&cfg.DevServer, site.Server)
	applyServer(&cfg.Preview, site.Preview)
	if p := site.Publish; p != nil {
		if p.Branch != "" {
			cfg.Publish.Branch = p.Branch
		}
		if p.Remote != "" {
			cfg.Publish.Remote = p.Remote
		}
		if p.Message != "" {
			cfg.Publish.Message = p.Message
		}
	}
	if site.Minify != nil {
		cfg.Minify.Brotli = site.Minify.Brotli
	}
}

func applyServer(srv *domain.ServerConfig, dto *ServerDTO) {
	if dto == nil {
		return
	}
	if dto.Port != 0 {
		srv.Port = dto.Port
	}
	if dto.Open != nil {
		srv.Open = *dto.Open
	}
}
