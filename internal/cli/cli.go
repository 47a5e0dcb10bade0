// Package cli wires the cobra command tree over the services. Commands only
// parse arguments and print; every rule lives in the service layer.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pmiralles/lorekeeper/internal/service"
)

// App holds the injected services the commands run against.
type App struct {
	Items      *service.Items
	Dictionary *service.Dictionary
	Notebook   *service.Notebook
	Soundtrack *service.Soundtrack
}

// New builds the application with explicit dependencies.
func New(items *service.Items, dict *service.Dictionary, notebook *service.Notebook, soundtrack *service.Soundtrack) *App {
	return &App{
		Items:      items,
		Dictionary: dict,
		Notebook:   notebook,
		Soundtrack: soundtrack,
	}
}

// Root assembles the command tree.
func (a *App) Root() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lorekeeper",
		Short:         "Catalog for a fictional universe: items, dictionary, notebook, soundtrack prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(a.itemsCmd())
	rootCmd.AddCommand(a.dictCmd())
	rootCmd.AddCommand(a.notesCmd())
	rootCmd.AddCommand(a.soundCmd())
	rootCmd.AddCommand(a.exportCmd())
	rootCmd.AddCommand(a.importCmd())
	rootCmd.AddCommand(a.statsCmd())

	return rootCmd
}
