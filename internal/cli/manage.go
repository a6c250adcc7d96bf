package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entl/membox/internal/client"
)

// NewGetCommand creates the 'get' subcommand.
func NewGetCommand(c *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one stored command in full.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("could not get command: %w", err)
			}
			if entry == nil {
				fmt.Println(warningColor("No command found with id " + args[0]))
				return nil
			}

			fmt.Println(cmdColor(entry.Command))
			if entry.Description != "" {
				fmt.Println(entry.Description)
			}
			fmt.Println(detailColor("id:        " + entry.ID))
			if entry.Workdir != "" {
				fmt.Println(detailColor("workdir:   " + entry.Workdir))
			}
			if entry.Status != "" {
				fmt.Println(detailColor("status:    ") + statusColor(entry.Status))
			}
			if entry.Category != "" {
				fmt.Println(detailColor("category:  " + entry.Category))
			}
			if len(entry.Tags) > 0 {
				fmt.Println(detailColor("tags:      " + strings.Join(entry.Tags, ", ")))
			}
			fmt.Println(detailColor(fmt.Sprintf("recalled:  %d time(s), last %s", entry.UseCount, formatLastUsed(entry.LastUsed))))
			return nil
		},
	}
}

// NewDeleteCommand creates the 'delete' subcommand.
func NewDeleteCommand(c *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored command.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existed, err := c.Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("could not delete command: %w", err)
			}
			if !existed {
				fmt.Println(warningColor("No command found with id " + args[0]))
				return nil
			}
			fmt.Println(successColor("Deleted command " + args[0]))
			return nil
		},
	}
}

// NewTagsCommand creates the 'tags' subcommand.
func NewTagsCommand(c *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List all tags in use.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags, err := c.Tags(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not list tags: %w", err)
			}
			printNames("tags", tags)
			return nil
		},
	}
}

// NewCategoriesCommand creates the 'categories' subcommand.
func NewCategoriesCommand(c *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List all categories in use.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := c.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not list categories: %w", err)
			}
			printNames("categories", categories)
			return nil
		},
	}
}

func printNames(kind string, names []string) {
	if len(names) == 0 {
		fmt.Println(infoColor("No " + kind + " in use yet."))
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}
