package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

func (a *App) itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage catalog items (characters and narrative arcs)",
	}

	var tipo string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				items []models.Item
				err   error
			)
			switch tipo {
			case "":
				items, err = a.Items.GetAllItems(ctx)
			case "arco":
				items, err = a.Items.GetArcos(ctx)
			default:
				items, err = a.Items.GetByTipo(ctx, models.Tipo(tipo))
			}
			if err != nil {
				return err
			}
			for i := range items {
				it := &items[i]
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %s\n", it.ID, it.Tipo, it.Nombre)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&tipo, "tipo", "", "filter by tipo")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one item as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.Items.GetItemByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, item)
		},
	}

	var descripcion, imagen, origen string
	addCmd := &cobra.Command{
		Use:   "add <nombre> <tipo>",
		Short: "Create an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := storage.Document{"nombre": args[0], "tipo": args[1]}
			if descripcion != "" {
				fields["descripcion"] = descripcion
			}
			if imagen != "" {
				fields["imagen"] = imagen
			}
			if origen != "" {
				fields["origen"] = origen
			}
			item, err := a.Items.CreateItem(cmd.Context(), fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created item %s (%s)\n", item.Nombre, item.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&descripcion, "descripcion", "", "description")
	addCmd.Flags().StringVar(&imagen, "imagen", "", "image URL or data URI")
	addCmd.Flags().StringVar(&origen, "origen", "", "origin")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search items by nombre, descripcion or origen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.Items.SearchItems(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for i := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %s\n", items[i].ID, items[i].Tipo, items[i].Nombre)
			}
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := a.Items.DeleteItem(cmd.Context(), args[0])
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

	duplicateCmd := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Clone an item under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.Items.DuplicateItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created item %s (%s)\n", item.Nombre, item.ID)
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd, addCmd, searchCmd, deleteCmd, duplicateCmd, a.componentsCmd())
	return cmd
}

func (a *App) componentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "components",
		Short: "Manage an item's components",
	}

	listCmd := &cobra.Command{
		Use:   "list <item-id>",
		Short: "List an item's components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, err := a.Items.GetComponents(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for id, comp := range comps {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", id, comp.Type)
			}
			return nil
		},
	}

	var dataJSON string
	addCmd := &cobra.Command{
		Use:   "add <item-id> <type>",
		Short: "Attach a component",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data map[string]any
			if dataJSON != "" {
				if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
					return fmt.Errorf("invalid --data payload: %w", err)
				}
			}
			compID, err := a.Items.AddComponent(cmd.Context(), args[0], args[1], data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added component %s\n", compID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&dataJSON, "data", "", "component data as JSON")

	delCmd := &cobra.Command{
		Use:   "del <item-id> <component-id>",
		Short: "Remove a component",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Items.DeleteComponent(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed")
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, delCmd)
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return nil
}
