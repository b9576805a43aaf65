package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the category tree",
		Long:  `List, add, update, and delete the two-level category tree used to classify transactions.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Long:  `Display the category tree, subcategories indented under their parents.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			roots, err := l.RootCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(roots) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'tally categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "ID\tNAME\t\n")
			for _, root := range roots {
				marker := ""
				if root.IsDefault {
					marker = cli.DefaultIcon
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", root.ID, categoryLabel(root), marker)

				subs, err := l.Subcategories(ctx, root.ID)
				if err != nil {
					return fmt.Errorf("failed to get subcategories of %d: %w", root.ID, err)
				}
				for _, sub := range subs {
					fmt.Fprintf(w, "%d\t  %s\t\n", sub.ID, categoryLabel(sub))
				}
			}

			return nil
		},
	}
}

func categoryLabel(cat model.Category) string {
	if cat.Icon == "" {
		return cat.Name
	}
	return cat.Icon + " " + cat.Name
}

func addCategoryCmd() *cobra.Command {
	var (
		icon     string
		parentID int64
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category or subcategory",
		Long:  `Create a category. With --parent the new category becomes a subcategory; the parent must be a top-level category.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			category := model.Category{Name: args[0], Icon: icon}
			if parentID != 0 {
				category.ParentID = &parentID
			}

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := l.CreateCategory(ctx, &category); err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (ID: %d)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "parent category ID (makes this a subcategory)")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name string
		icon string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if name == "" && icon == "" {
				return fmt.Errorf("must specify --name or --icon to update")
			}

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			category, err := l.CategoryByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get category: %w", err)
			}

			if name != "" {
				category.Name = name
			}
			if icon != "" {
				category.Icon = icon
			}

			if err := l.UpdateCategory(ctx, category); err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new category name")
	cmd.Flags().StringVar(&icon, "icon", "", "new display icon")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a childless category. Transactions that used it become uncategorized; a category that still has subcategories cannot be deleted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force {
				fmt.Printf("Are you sure you want to delete category %d? (y/N): ", id)
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			l, store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := l.DeleteCategory(ctx, id); err != nil {
				if errors.Is(err, common.ErrHasSubcategories) {
					return fmt.Errorf("category %d still has subcategories; delete them first", id)
				}
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompt")

	return cmd
}
