package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/entl/membox/internal/client"
	"github.com/entl/membox/internal/server"
)

// NewSearchCommand creates the 'search' subcommand.
func NewSearchCommand(c *client.Client) *cobra.Command {
	var opts client.SearchOptions

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search stored commands.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Query = args[0]
			}
			entries, err := c.Search(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("could not search commands: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println(infoColor("No matching commands found."))
				return nil
			}
			renderCommandTable(entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", `Filter by status ("success" or "failed").`)
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Filter by category.")
	cmd.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "Filter by tag (repeatable, all must match).")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of results.")

	return cmd
}

// NewListCommand creates the 'list' subcommand.
func NewListCommand(c *client.Client) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently stored commands.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := c.Search(cmd.Context(), client.SearchOptions{Limit: limit})
			if err != nil {
				return fmt.Errorf("could not list commands: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println(infoColor("No commands stored yet. Run 'membox shell' to start capturing."))
				return nil
			}
			renderCommandTable(entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results.")

	return cmd
}

// renderCommandTable prints commands in a table with relative timestamps.
func renderCommandTable(entries []server.CommandEntry) {
	fmt.Println(headerColor(fmt.Sprintf("Found %d command(s):", len(entries))))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Command", "Status", "When", "Tags"})
	table.SetBorder(true)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, entry := range entries {
		table.Append([]string{
			shortID(entry.ID),
			entry.Command,
			statusColor(entry.Status),
			humanize.Time(entry.CreatedAt),
			strings.Join(entry.Tags, ", "),
		})
	}
	table.Render()
}

// shortID trims a uuid to its first segment for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// formatLastUsed renders an optional recall timestamp.
func formatLastUsed(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return humanize.Time(*t)
}
