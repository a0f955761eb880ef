package domain

import (
	"path"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// Dirs names the directory roots of a project, relative to the project root.
type Dirs struct {
	Source string `yaml:"source"`
	Temp   string `yaml:"temp"`
	Public string `yaml:"public"`
	Dist   string `yaml:"dist"`
	Deps   string `yaml:"deps"`
}

// MenuItem is one entry of the navigation data injected into templates.
type MenuItem struct {
	Name     string     `yaml:"name" json:"name"`
	Link     string     `yaml:"link" json:"link"`
	Children []MenuItem `yaml:"children,omitempty" json:"children,omitempty"`
}

// LintTool is an external linter and the sources it checks.
type LintTool struct {
	Command  []string `yaml:"command"`
	Patterns []string `yaml:"patterns"`
}

// LintConfig holds the style and script linters.
type LintConfig struct {
	Styles  LintTool `yaml:"styles"`
	Scripts LintTool `yaml:"scripts"`
}

// StyleConfig configures the SCSS compiler.
type StyleConfig struct {
	Mapping FileMapping `yaml:"mapping"`
	Command []string    `yaml:"command"`
}

// UserefConfig configures reference resolution over rendered HTML.
type UserefConfig struct {
	// HTML lists the pages to scan, relative to the project root.
	HTML []string `yaml:"html"`
	// DepsToken marks third-party dependency paths for the path correction.
	DepsToken string `yaml:"depsToken"`
}

// MinifyConfig holds the three minifier mappings.
type MinifyConfig struct {
	HTML FileMapping `yaml:"html"`
	CSS  FileMapping `yaml:"css"`
	JS   FileMapping `yaml:"js"`
	// Brotli writes a precompressed .br sibling next to every minified file.
	Brotli bool `yaml:"brotli"`
}

// Route overlays a URL prefix with a directory.
type Route struct {
	Prefix string `yaml:"prefix"`
	Dir    string `yaml:"dir"`
}

// ServerConfig configures a static file server.
type ServerConfig struct {
	Port    int      `yaml:"port"`
	BaseDir string   `yaml:"baseDir"`
	Routes  []Route  `yaml:"routes,omitempty"`
	Open    bool     `yaml:"open"`
	Files   []string `yaml:"files,omitempty"`
}

// WatchRule maps source patterns to the single task rerun when a match changes.
type WatchRule struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
	Task     TaskID   `yaml:"task"`
}

// PublishConfig configures publishing to the hosting branch.
type PublishConfig struct {
	Dir     string `yaml:"dir"`
	Branch  string `yaml:"branch"`
	Remote  string `yaml:"remote"`
	Message string `yaml:"message"`
}

// Config is the pipeline configuration passed into and returned from each task.
type Config struct {
	// Root is the absolute project root.
	Root      string
	Dirs      Dirs
	Package   *Package
	Menu      []MenuItem
	BuildTime time.Time

	Clean     []string
	CleanTemp []string
	Lint      LintConfig
	Templates FileMapping
	Styles    StyleConfig
	Scripts   FileMapping
	Copy      []FileMapping
	Images    FileMapping
	Useref    UserefConfig
	Concat    ConcatGroups
	Minify    MinifyConfig
	Watch     []WatchRule
	DevServer ServerConfig
	Preview   ServerConfig
	Publish   PublishConfig
}

// DefaultDirs returns the standard directory layout.
func DefaultDirs() Dirs {
	return Dirs{
		Source: "src",
		Temp:   "temp",
		Public: "public",
		Dist:   "dist",
		Deps:   "node_modules",
	}
}

// DefaultConfig returns the standard configuration rooted at root.
func DefaultConfig(root string) Config {
	return NewConfig(root, DefaultDirs())
}

// NewConfig returns the standard task configuration laid out over dirs.
func NewConfig(root string, dirs Dirs) Config {
	src, tmp, dist := dirs.Source, dirs.Temp, dirs.Dist
	return Config{
		Root:      root,
		Dirs:      dirs,
		Menu:      []MenuItem{{}, {}},
		Clean:     []string{tmp, dist},
		CleanTemp: []string{tmp},
		Lint: LintConfig{
			Styles: LintTool{
				Command:  []string{"stylelint", "--config", ".stylelintrc.json", "--formatter", "string"},
				Patterns: []string{path.Join(src, "**/*.scss")},
			},
			Scripts: LintTool{
				Command:  []string{"eslint"},
				Patterns: []string{path.Join(src, "**/*.js")},
			},
		},
		Templates: FileMapping{Cwd: src, Src: []string{"*.html"}, Dest: tmp, Ext: ".html"},
		Styles: StyleConfig{
			Mapping: FileMapping{Cwd: src, Src: []string{"**/*.scss", "!**/_*.scss"}, Dest: tmp, Ext: ".css"},
			Command: []string{"sass", "--no-source-map"},
		},
		Scripts: FileMapping{Cwd: src, Src: []string{"**/*.js"}, Dest: tmp},
		Copy: []FileMapping{
			{Cwd: dirs.Public, Src: []string{"**"}, Dest: dist},
			{Cwd: src, Src: []string{"assets/fonts/**"}, Dest: dist},
		},
		Images: FileMapping{Cwd: src, Src: []string{"**/*.{png,jpg,gif,svg}"}, Dest: dist},
		Useref: UserefConfig{
			HTML:      []string{path.Join(tmp, "**/*.html")},
			DepsToken: dirs.Deps,
		},
		Minify: MinifyConfig{
			HTML: FileMapping{Cwd: tmp, Src: []string{"*.html"}, Dest: dist, Ext: ".html", ExtDot: ExtDotFirst},
			CSS:  FileMapping{Cwd: tmp, Src: []string{"**/*.css"}, Dest: dist},
			JS:   FileMapping{Cwd: tmp, Src: []string{"**/*.js"}, Dest: dist},
		},
		Watch: []WatchRule{
			{Name: "scripts", Patterns: []string{path.Join(src, "**/*.js")}, Task: TaskScripts},
			{Name: "css", Patterns: []string{path.Join(src, "**/*.scss")}, Task: TaskStyles},
			{Name: "html", Patterns: []string{path.Join(src, "**/*.html")}, Task: TaskTemplates},
		},
		DevServer: ServerConfig{
			Port:    2020,
			BaseDir: tmp,
			Routes: []Route{
				{Prefix: "/assets/fonts", Dir: path.Join(dist, "assets/fonts")},
				{Prefix: "/assets/images", Dir: path.Join(dist, "assets/images")},
				{Prefix: "/" + dirs.Deps, Dir: dirs.Deps},
			},
			Open:  true,
			Files: []string{path.Join(tmp, "**/*")},
		},
		Preview: ServerConfig{
			Port:    3030,
			BaseDir: dist,
			Open:    true,
			Files:   []string{path.Join(dist, "**/*")},
		},
		Publish: PublishConfig{
			Dir:     dist,
			Branch:  "gh-pages",
			Remote:  "origin",
			Message: "Updates",
		},
	}
}

// TempPrefix returns the intermediate directory as a path prefix, e.g. "temp/".
func (c Config) TempPrefix() string {
	return strings.TrimSuffix(path.Clean(c.Dirs.Temp), "/") + "/"
}

// Validate checks the invariants the tasks rely on.
func (c Config) Validate() error {
	var problems []string
	if c.Root == "" {
		problems = append(problems, "root is empty")
	}
	for name, dir := range map[string]string{
		"dirs.source": c.Dirs.Source,
		"dirs.temp":   c.Dirs.Temp,
		"dirs.public": c.Dirs.Public,
		"dirs.dist":   c.Dirs.Dist,
		"dirs.deps":   c.Dirs.Deps,
	} {
		if dir == "" || path.IsAbs(dir) || strings.HasPrefix(path.Clean(dir), "..") {
			problems = append(problems, name+" must be a relative path inside the project")
		}
	}
	if c.Useref.DepsToken == "" {
		problems = append(problems, "useref.depsToken is empty")
	}
	for _, srv := range []ServerConfig{c.DevServer, c.Preview} {
		if srv.Port < 0 || srv.Port > 65535 {
			problems = append(problems, "server port out of range")
		}
	}
	for _, rule := range c.Watch {
		if !rule.Task.Valid() {
			problems = append(problems, "watch rule "+rule.Name+" targets unknown task "+rule.Task.String())
		}
	}
	if c.Publish.Branch == "" {
		problems = append(problems, "publish.branch is empty")
	}
	if len(problems) > 0 {
		return zerr.With(ErrInvalidConfig, "problems", strings.Join(problems, "; "))
	}
	return nil
}

// URLPath maps a file path relative to the project root to the URL path the
// server exposes it under. Route overlays take precedence over the base directory.
func (s ServerConfig) URLPath(rel string) (string, bool) {
	rel = path.Clean(rel)
	for _, route := range s.Routes {
		if sub, ok := cutDir(rel, route.Dir); ok {
			return path.Join("/", route.Prefix, sub), true
		}
	}
	if sub, ok := cutDir(rel, s.BaseDir); ok {
		return path.Join("/", sub), true
	}
	return "", false
}

func cutDir(rel, dir string) (string, bool) {
	dir = path.Clean(dir)
	if dir == "." {
		return rel, true
	}
	return strings.CutPrefix(rel, dir+"/")
}
