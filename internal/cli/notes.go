package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmiralles/lorekeeper/internal/storage"
)

func (a *App) notesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notebook pages",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := a.Notebook.GetAllPages(cmd.Context())
			if err != nil {
				return err
			}
			for i := range pages {
				p := &pages[i]
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-40s [%s]\n", p.ID, p.Title, strings.Join(p.Tags, ", "))
			}
			return nil
		},
	}

	var content string
	var tags []string
	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := storage.Document{"title": args[0]}
			if content != "" {
				fields["content"] = content
			}
			if len(tags) > 0 {
				fields["tags"] = tags
			}
			page, err := a.Notebook.CreatePage(cmd.Context(), fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created page %s (%s)\n", page.Title, page.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&content, "content", "", "page content")
	addCmd.Flags().StringSliceVar(&tags, "tags", nil, "page tags")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search pages by title, content or tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := a.Notebook.SearchPages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for i := range pages {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", pages[i].ID, pages[i].Title)
			}
			return nil
		},
	}

	tagCmd := &cobra.Command{
		Use:   "tag <page-id> <tag>",
		Short: "Add a tag to a page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.Notebook.AddTagToPage(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: [%s]\n", page.Title, strings.Join(page.Tags, ", "))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := a.Notebook.DeletePage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to delete")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, searchCmd, tagCmd, deleteCmd)
	return cmd
}
