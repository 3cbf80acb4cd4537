package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

const dateLayout = "2006-01-02"

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Record and list expenses",
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(deleteExpenseCmd())

	return cmd
}

func addExpenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <amount> <note>",
		Short: "Record an expense",
		Long: `Record an expense for the selected user. Without --category the category is
picked automatically from the note.

Examples:
  spendwise expenses add 12.40 "uber ride to office"
  spendwise expenses add 250 "groceries" --category Grocery --date 2026-03-01`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("invalid amount %q", args[0]), common.ErrInvalidInput)
			}
			input := model.ExpenseInput{
				Amount: amount,
				Note:   strings.Join(args[1:], " "),
			}

			if raw, _ := cmd.Flags().GetString("date"); raw != "" {
				if input.Date, err = parseDate(raw); err != nil {
					return err
				}
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

			if ref, _ := cmd.Flags().GetString("category"); ref != "" {
				cat, err := a.findCategory(ctx, user.ID, ref)
				if err != nil {
					return err
				}
				input.CategoryID = cat.ID
			}

			exp, err := a.expenses.CreateExpense(ctx, user.ID, input)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s for %q under %s",
				exp.Amount.StringFixed(2), exp.Note, exp.CategoryName)))
			return nil
		},
	}

	cmd.Flags().String("category", "", "category name or id (default: automatic)")
	cmd.Flags().String("date", "", "date spent, YYYY-MM-DD (default: today)")

	return cmd
}

func listExpensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter model.ExpenseFilter
			filter.Search, _ = cmd.Flags().GetString("search")
			filter.Limit, _ = cmd.Flags().GetInt("limit")
			filter.Offset, _ = cmd.Flags().GetInt("offset")

			for flag, dst := range map[string]**time.Time{"from": &filter.StartDate, "to": &filter.EndDate} {
				raw, _ := cmd.Flags().GetString(flag)
				if raw == "" {
					continue
				}
				d, err := parseDate(raw)
				if err != nil {
					return err
				}
				*dst = &d
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

			if ref, _ := cmd.Flags().GetString("category"); ref != "" {
				cat, err := a.findCategory(ctx, user.ID, ref)
				if err != nil {
					return err
				}
				filter.CategoryID = cat.ID
			}

			expenses, err := a.expenses.ListExpenses(ctx, user.ID, filter)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderExpenses(expenses))
			return nil
		},
	}

	cmd.Flags().String("from", "", "earliest date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "latest date, YYYY-MM-DD")
	cmd.Flags().String("category", "", "only this category (name or id)")
	cmd.Flags().String("search", "", "case-insensitive note search")
	cmd.Flags().Int("limit", 50, "maximum rows to show")
	cmd.Flags().Int("offset", 0, "rows to skip")

	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
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

			if err := a.expenses.DeleteExpense(ctx, user.ID, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted expense "+args[0]))
			return nil
		},
	}
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw), common.ErrInvalidInput)
	}
	return d, nil
}
