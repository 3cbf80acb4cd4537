package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	cmd.AddCommand(createUserCmd())
	cmd.AddCommand(provisionUserCmd())

	return cmd
}

func createUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <email> <full name>",
		Short: "Register a user with the default categories",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			user, categories, err := a.expenses.RegisterUser(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Created user %s <%s>", user.FullName, user.Email)))
			fmt.Fprintln(out, cli.FormatInfo("User id: "+user.ID))
			fmt.Fprintln(out, cli.RenderCategories(categories, nil))
			return nil
		},
	}
}

func provisionUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Add any missing default categories to the selected user",
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

			added, err := a.expenses.ProvisionDefaults(ctx, user.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(added) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("All default categories already exist"))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added %d default categories", len(added))))
			fmt.Fprintln(out, cli.RenderCategories(added, nil))
			return nil
		},
	}
}
