package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// collection argument values accepted by export/import.
const (
	colItems      = "items"
	colDictionary = "dictionary"
	colNotebook   = "notebook"
	colSoundtrack = "soundtrack"
)

func (a *App) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <items|dictionary|notebook|soundtrack>",
		Short: "Export a collection as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				payload any
				err     error
			)
			switch args[0] {
			case colItems:
				payload, err = a.Items.ExportAll(ctx)
			case colDictionary:
				payload, err = a.Dictionary.ExportAll(ctx)
			case colNotebook:
				payload, err = a.Notebook.ExportPages(ctx)
			case colSoundtrack:
				payload, err = a.Soundtrack.ExportAll(ctx)
			default:
				return fmt.Errorf("unknown collection %q", args[0])
			}
			if err != nil {
				return err
			}

			raw, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			}
			if err := os.WriteFile(out, raw, 0o600); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <items|dictionary|notebook|soundtrack> <file>",
		Short: "Replace a collection from a JSON export (all-or-nothing)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			ctx := cmd.Context()
			switch args[0] {
			case colItems:
				err = a.Items.ImportAll(ctx, raw)
			case colDictionary:
				err = a.Dictionary.ImportAll(ctx, raw)
			case colNotebook:
				err = a.Notebook.ImportAll(ctx, raw)
			case colSoundtrack:
				err = a.Soundtrack.ImportAll(ctx, raw)
			default:
				return fmt.Errorf("unknown collection %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Imported")
			return nil
		},
	}
	return cmd
}

func (a *App) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for every collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if err := a.printItemStats(ctx, out); err != nil {
				return err
			}
			dictStats, err := a.Dictionary.Stats(ctx, 5)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Dictionary: %d categories, %d words (%.1f per category)\n",
				dictStats.TotalCategories, dictStats.TotalWords, dictStats.AvgWordsPerCat)

			noteStats, err := a.Notebook.Stats(ctx, 5)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Notebook: %d pages, %d distinct tags\n",
				noteStats.TotalPages, noteStats.DistinctTags)

			soundStats, err := a.Soundtrack.Stats(ctx, 5)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Soundtrack: %d prompts, %d rated (avg %.1f/10)\n",
				soundStats.Total, soundStats.Rated, soundStats.AvgCalificacion)
			return nil
		},
	}
}

func (a *App) printItemStats(ctx context.Context, out io.Writer) error {
	stats, err := a.Items.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Items: %d total (%d personajes, %d arcos, %d with image)\n",
		stats.Total, stats.Personajes, stats.Arcos, stats.ConImagen)
	return nil
}
