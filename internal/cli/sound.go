package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pmiralles/lorekeeper/internal/storage"
)

func (a *App) soundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sound",
		Short: "Manage soundtrack prompts",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts, err := a.Soundtrack.GetAllPrompts(cmd.Context())
			if err != nil {
				return err
			}
			for i := range prompts {
				p := &prompts[i]
				rating := "-"
				if p.Calificacion != nil {
					rating = strconv.Itoa(*p.Calificacion)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-40s %s/10\n", p.ID, p.SongTitle, rating)
			}
			return nil
		},
	}

	var lyrics, style, momento string
	var weirdness, styleInfluence int
	addCmd := &cobra.Command{
		Use:   "add <song-title>",
		Short: "Create a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := storage.Document{
				"songTitle":      args[0],
				"weirdness":      weirdness,
				"styleInfluence": styleInfluence,
			}
			if lyrics != "" {
				fields["lyrics"] = lyrics
			}
			if style != "" {
				fields["styleDescription"] = style
			}
			if momento != "" {
				fields["momento"] = momento
			}
			prompt, err := a.Soundtrack.CreatePrompt(cmd.Context(), fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created prompt %s (%s)\n", prompt.SongTitle, prompt.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&lyrics, "lyrics", "", "song lyrics")
	addCmd.Flags().StringVar(&style, "style", "", "style description")
	addCmd.Flags().StringVar(&momento, "momento", "", "narrative moment")
	addCmd.Flags().IntVar(&weirdness, "weirdness", 0, "weirdness 0-100")
	addCmd.Flags().IntVar(&styleInfluence, "style-influence", 0, "style influence 0-100")

	rateCmd := &cobra.Command{
		Use:   "rate <id> <1-10>",
		Short: "Rate a prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating %q", args[1])
			}
			prompt, err := a.Soundtrack.RatePrompt(cmd.Context(), args[0], rating)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s rated %d/10\n", prompt.SongTitle, *prompt.Calificacion)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := a.Soundtrack.DeletePrompt(cmd.Context(), args[0])
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

	cmd.AddCommand(listCmd, addCmd, rateCmd, deleteCmd)
	return cmd
}
