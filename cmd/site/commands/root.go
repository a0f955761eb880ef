// Package commands implements the CLI commands for the site pipeline.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/chensid/grunt-demo/internal/app"
	"github.com/chensid/grunt-demo/internal/build"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for site.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	root    string
	json    bool
	noCache bool
	noOpen  bool

	// onJSON is told when --json is given.
	onJSON func(bool)
}

// Application represents the application logic interface.
type Application interface {
	RunPipeline(ctx context.Context, name string, opts app.RunOptions) error
	RunTask(ctx context.Context, name string, opts app.RunOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	List(w io.Writer) error
}

// Option configures a CLI.
type Option func(*CLI)

// WithJSONSwitch registers fn to switch log output to JSON.
func WithJSONSwitch(fn func(bool)) Option {
	return func(c *CLI) {
		c.onJSON = fn
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "site",
		Short:         "Build, serve and publish the static site",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.root, "root", "C", ".", "Project root directory")
	flags.BoolVar(&c.json, "json", false, "Log as JSON records")
	flags.BoolVarP(&c.noCache, "no-cache", "n", false, "Bypass the build cache and force execution")
	flags.BoolVar(&c.noOpen, "no-open", false, "Do not open a browser when a server starts")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if c.onJSON != nil {
			c.onJSON(c.json)
		}
	}

	for _, p := range pipelines {
		rootCmd.AddCommand(c.newPipelineCmd(p.name, p.short))
	}
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) runOptions() app.RunOptions {
	return app.RunOptions{
		Root:    c.root,
		NoCache: c.noCache,
		NoOpen:  c.noOpen,
	}
}
