package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmiralles/lorekeeper/internal/storage"
)

func (a *App) dictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage the word dictionary",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories and word counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.Dictionary.GetAllCategories(cmd.Context())
			if err != nil {
				return err
			}
			for i := range cats {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s %d words\n", cats[i].ID, cats[i].Name, len(cats[i].Words))
			}
			return nil
		},
	}

	var placeholder string
	addCmd := &cobra.Command{
		Use:   "add <name> [word...]",
		Short: "Create a category, optionally seeded with words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := storage.Document{"name": args[0]}
			if len(args) > 1 {
				fields["words"] = args[1:]
			}
			if placeholder != "" {
				fields["placeholder"] = placeholder
			}
			cat, err := a.Dictionary.CreateCategory(cmd.Context(), fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created category %s (%s)\n", cat.Name, cat.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&placeholder, "placeholder", "", "example text for the category")

	wordCmd := &cobra.Command{
		Use:   "word <category-id> <word>",
		Short: "Add a word to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.Dictionary.AddWordToCategory(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", cat.Name, strings.Join(cat.Words, ", "))
			return nil
		},
	}

	var fromCategories []string
	randomCmd := &cobra.Command{
		Use:   "random <n>",
		Short: "Draw random words without replacement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid count %q", args[0])
			}
			words, err := a.Dictionary.RandomWords(cmd.Context(), n, fromCategories...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(words, ", "))
			return nil
		},
	}
	randomCmd.Flags().StringSliceVar(&fromCategories, "from", nil, "restrict to these categories")

	promptCmd := &cobra.Command{
		Use:   "prompt <n>",
		Short: "Build a comma-joined prompt from random words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid count %q", args[0])
			}
			prompt, err := a.Dictionary.BuildPrompt(cmd.Context(), n, fromCategories...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return nil
		},
	}
	promptCmd.Flags().StringSliceVar(&fromCategories, "from", nil, "restrict to these categories")

	cmd.AddCommand(listCmd, addCmd, wordCmd, randomCmd, promptCmd)
	return cmd
}
