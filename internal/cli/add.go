package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entl/membox/internal/client"
	"github.com/entl/membox/internal/server"
)

// NewAddCommand creates the 'add' subcommand.
func NewAddCommand(c *client.Client) *cobra.Command {
	var description string
	var category string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add <command>",
		Short: "Store a command in membox.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := server.SubmitCommandRequest{
				Command:     strings.Join(args, " "),
				Description: description,
				Category:    category,
				Tags:        tags,
			}

			id, err := c.Add(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("could not store command: %w", err)
			}

			fmt.Println(successColor("Stored command ") + cmdColor(req.Command))
			fmt.Println(detailColor("id: " + id))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Human-readable description.")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Command category.")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag to attach (repeatable).")

	return cmd
}
