// Package cli implements the membox command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/entl/membox/internal/client"
	"github.com/entl/membox/internal/config"
)

// NewRootCommand builds the membox CLI.
func NewRootCommand(version string, cfg config.Config, c *client.Client) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "membox",
		Short: "membox captures and recalls your shell commands.",
		Long: `membox runs your shell under a capturing session, records every
command you execute to a searchable backend, and lets you recall them later.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(NewShellCommand(cfg, c))
	rootCmd.AddCommand(NewAddCommand(c))
	rootCmd.AddCommand(NewSearchCommand(c))
	rootCmd.AddCommand(NewListCommand(c))
	rootCmd.AddCommand(NewGetCommand(c))
	rootCmd.AddCommand(NewDeleteCommand(c))
	rootCmd.AddCommand(NewTagsCommand(c))
	rootCmd.AddCommand(NewCategoriesCommand(c))

	return rootCmd
}
