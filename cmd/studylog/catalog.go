package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"studylog/internal/bootstrap"
	catalogdto "studylog/internal/modules/catalog/dto"
	apperrors "studylog/internal/platform/errors"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", apperrors.ErrInvalidInput, arg)
	}
	return id, nil
}

func activeMark(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func newCategoryCmd(flags *rootFlags) *cobra.Command {
	category := &cobra.Command{Use: "category", Short: "Study categories"}

	category.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a study category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CatalogCLI.AddCategory(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "category added: %d %s\n", out.ID, out.Name)
				return nil
			})
		},
	})

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List study categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				categories, err := app.CatalogCLI.ListCategories(ctx, !all)
				if err != nil {
					return err
				}
				printCategories(cmd, categories)
				return nil
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include inactive categories")

	var name string
	var active bool
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or (de)activate a study category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				current, err := app.CatalogCLI.GetCategory(ctx, id)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("name") {
					current.Name = name
				}
				if cmd.Flags().Changed("active") {
					current.Active = active
				}
				out, err := app.CatalogCLI.UpdateCategory(ctx, id, current.Name, current.Active)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "category updated: %d %s %s\n", out.ID, out.Name, activeMark(out.Active))
				return nil
			})
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().BoolVar(&active, "active", true, "whether the category is selectable")

	category.AddCommand(list, update, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a study category with no materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.CatalogCLI.DeleteCategory(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "category deleted: %d\n", id)
				return nil
			})
		},
	})
	return category
}

func printCategories(cmd *cobra.Command, categories []catalogdto.CategoryOutput) {
	if len(categories) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no categories")
		return
	}
	for _, c := range categories {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", c.ID, c.Name, activeMark(c.Active))
	}
}

func newMaterialCmd(flags *rootFlags) *cobra.Command {
	material := &cobra.Command{Use: "material", Short: "Study materials"}

	var categoryID int64
	var imageKey string
	add := &cobra.Command{
		Use:   "add <name> --category <id>",
		Short: "Add a study material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CatalogCLI.AddMaterial(ctx, args[0], categoryID, imageKey)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "material added: %d %s (%s)\n", out.ID, out.Name, out.CategoryName)
				return nil
			})
		},
	}
	add.Flags().Int64Var(&categoryID, "category", 0, "category id")
	add.Flags().StringVar(&imageKey, "image", "", "presence image key")
	_ = add.MarkFlagRequired("category")

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List study materials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				materials, err := app.CatalogCLI.ListMaterials(ctx, !all)
				if err != nil {
					return err
				}
				if len(materials) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no materials")
					return nil
				}
				for _, m := range materials {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.CategoryName, m.ImageKey, activeMark(m.Active))
				}
				return nil
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include inactive materials")

	var name, newImage string
	var newCategory int64
	var active bool
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a study material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				current, err := app.CatalogCLI.GetMaterial(ctx, id)
				if err != nil {
					return err
				}
				input := catalogdto.UpdateMaterialInput{
					ID:         id,
					Name:       current.Name,
					CategoryID: current.CategoryID,
					Active:     current.Active,
					ImageKey:   current.ImageKey,
				}
				if cmd.Flags().Changed("name") {
					input.Name = name
				}
				if cmd.Flags().Changed("category") {
					input.CategoryID = newCategory
				}
				if cmd.Flags().Changed("image") {
					input.ImageKey = newImage
				}
				if cmd.Flags().Changed("active") {
					input.Active = active
				}
				out, err := app.CatalogCLI.UpdateMaterial(ctx, input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "material updated: %d %s (%s) %s\n", out.ID, out.Name, out.CategoryName, activeMark(out.Active))
				return nil
			})
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().Int64Var(&newCategory, "category", 0, "new category id")
	update.Flags().StringVar(&newImage, "image", "", "presence image key")
	update.Flags().BoolVar(&active, "active", true, "whether the material is selectable")

	material.AddCommand(add, list, update, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a study material with no sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.CatalogCLI.DeleteMaterial(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "material deleted: %d\n", id)
				return nil
			})
		},
	})
	return material
}
