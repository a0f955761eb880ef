package commands

import (
	"github.com/chensid/grunt-demo/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove temp/ and dist/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, _ := cmd.Flags().GetBool("cache")
			return c.app.Clean(cmd.Context(), app.CleanOptions{Root: c.root, Cache: cache})
		},
	}
	cmd.Flags().Bool("cache", false, "Also remove the build cache")
	return cmd
}
