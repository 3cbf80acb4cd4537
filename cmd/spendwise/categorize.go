package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
)

func categorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <note>",
		Short: "Show which category a note would be filed under",
		Long: `Resolve a note against the selected user's categories without recording
anything. Ranked suggestions are shown below the result.`,
		Args: cobra.MinimumNArgs(1),
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

			note := strings.Join(args, " ")
			preview := a.resolver.Preview(ctx, note, user.ID)
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderPreview(note, preview))
			return nil
		},
	}
}

func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <text>",
		Short: "Rank the built-in categories for a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			suggestions := a.resolver.SuggestWithClassifier(ctx, strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSuggestions(suggestions))
			return nil
		},
	}
}
