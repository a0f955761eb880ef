package config

import "github.com/chensid/grunt-demo/internal/core/domain"

// SiteFile is the structure of site.yaml. Every field is optional and
// overrides the default configuration only when present.
type SiteFile struct {
	Dirs    *DirsDTO          `yaml:"dirs"`
	Menu    []domain.MenuItem `yaml:"menu"`
	Lint    *LintDTO          `yaml:"lint"`
	Server  *ServerDTO        `yaml:"server"`
	Preview *ServerDTO        `yaml:"preview"`
	Publish *PublishDTO       `yaml:"publish"`
	Minify  *MinifyDTO        `yaml:"minify"`
}

// DirsDTO overrides the directory layout.
type DirsDTO struct {
	Source string `yaml:"source"`
	Temp   string `yaml:"temp"`
	Public string `yaml:"public"`
	Dist   string `yaml:"dist"`
	Deps   string `yaml:"deps"`
}

// LintDTO overrides the linter command lines.
type LintDTO struct {
	Styles  []string `yaml:"styles"`
	Scripts []string `yaml:"scripts"`
}

// ServerDTO overrides a server's port and browser behaviour.
type ServerDTO struct {
	Port int   `yaml:"port"`
	Open *bool `yaml:"open"`
}

// PublishDTO overrides the publish target.
type PublishDTO struct {
	Branch  string `yaml:"branch"`
	Remote  string `yaml:"remote"`
	Message string `yaml:"message"`
}

// MinifyDTO toggles precompression of minified output.
type MinifyDTO struct {
	Brotli bool `yaml:"brotli"`
}
