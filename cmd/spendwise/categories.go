package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/expense"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
		Long:  `List, add, rename and delete the selected user's categories.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with expense counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.currentUser(ctx)
			if err != nil {
				return err
			}

			categories, err := a.expenses.ListCategories(ctx, user.ID)
			if err != nil {
				return err
			}

			counts := make(map[string]int, len(categories))
			for _, cat := range categories {
				n, err := a.expenses.CountExpenses(ctx, user.ID, cat.ID)
				if err != nil {
					return err
				}
				counts[cat.ID] = n
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderCategories(categories, counts))
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emoji, _ := cmd.Flags().GetString("emoji")

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.currentUser(ctx)
			if err != nil {
				return err
			}

			cat, err := a.expenses.CreateCategory(ctx, user.ID, args[0], emoji)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %s %s", cat.Emoji, cat.Name)))
			return nil
		},
	}

	cmd.Flags().String("emoji", "", "emoji shown next to the category")

	return cmd
}

func renameCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <category> <new name>",
		Short: "Rename a category or change its emoji",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := expense.CategoryUpdate{Name: &args[1]}
			if cmd.Flags().Changed("emoji") {
				emoji, _ := cmd.Flags().GetString("emoji")
				update.Emoji = &emoji
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.currentUser(ctx)
			if err != nil {
				return err
			}

			cat, err := a.findCategory(ctx, user.ID, args[0])
			if err != nil {
				return err
			}

			updated, err := a.expenses.UpdateCategory(ctx, user.ID, cat.ID, update)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Renamed %s to %s", cat.Name, updated.Name)))
			return nil
		},
	}

	cmd.Flags().String("emoji", "", "new emoji")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a category, moving its expenses to Other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.currentUser(ctx)
			if err != nil {
				return err
			}

			cat, err := a.findCategory(ctx, user.ID, args[0])
			if err != nil {
				return err
			}

			moved, err := a.expenses.DeleteCategory(ctx, user.ID, cat.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess("Deleted category "+cat.Name))
			if moved > 0 {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Moved %d expenses to Other", moved)))
			}
			return nil
		},
	}
}
