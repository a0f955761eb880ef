package commands

import (
	"github.com/chensid/grunt-demo/internal/core/domain"
	"github.com/spf13/cobra"
)

var pipelines = []struct {
	name  domain.PipelineID
	short string
}{
	{domain.PipelineLint, "Lint stylesheets and scripts"},
	{domain.PipelineCompile, "Render templates and compile styles and scripts into temp/"},
	{domain.PipelineServe, "Compile, serve temp/ with live reload and watch sources"},
	{domain.PipelineBuild, "Produce the optimized site in dist/"},
	{domain.PipelineStart, "Build and preview dist/"},
	{domain.PipelineDeploy, "Build and publish dist/ to the hosting branch"},
}

func (c *CLI) newPipelineCmd(name domain.PipelineID, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name.String(),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.RunPipeline(cmd.Context(), name.String(), c.runOptions())
		},
	}
}

func (c *CLI) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [task]",
		Short: "Run a single task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			return c.app.RunTask(cmd.Context(), args[0], c.runOptions())
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			names := make([]string, 0, len(domain.AllTasks()))
			for _, id := range domain.AllTasks() {
				names = append(names, id.String()+"\t"+id.Description())
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
	}
}

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pipelines and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.List(cmd.OutOrStdout())
		},
	}
}
