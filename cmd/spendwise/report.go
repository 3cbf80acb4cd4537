package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/expense"
	"github.com/Veraticus/spendwise/internal/model"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize spending by category",
		Long: `Summarize the selected user's spending by category. Without flags the
current month is reported.

Examples:
  spendwise report
  spendwise report --last-month
  spendwise report --months 6
  spendwise report --from 2026-01-01 --to 2026-03-31`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}

	cmd.Flags().String("from", "", "first day, YYYY-MM-DD")
	cmd.Flags().String("to", "", "last day, YYYY-MM-DD")
	cmd.Flags().Bool("last-month", false, "report the previous calendar month")
	cmd.Flags().Int("months", 0, "one report per month for the last N months (1-12)")
	cmd.MarkFlagsRequiredTogether("from", "to")
	cmd.MarkFlagsMutuallyExclusive("from", "last-month", "months")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
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

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	lastMonth, _ := cmd.Flags().GetBool("last-month")
	months, _ := cmd.Flags().GetInt("months")

	var reports []model.Report
	switch {
	case from != "":
		start, err := parseDate(from)
		if err != nil {
			return err
		}
		end, err := parseDate(to)
		if err != nil {
			return err
		}
		report, err := a.expenses.Report(ctx, user.ID, start, end)
		if err != nil {
			return err
		}
		reports = append(reports, *report)
	case lastMonth:
		report, err := a.expenses.LastMonth(ctx, user.ID)
		if err != nil {
			return err
		}
		reports = append(reports, *report)
	case cmd.Flags().Changed("months"):
		if months < 1 || months > expense.MaxReportMonths {
			return common.NewUserError(fmt.Sprintf("--months must be between 1 and %d, got %d", expense.MaxReportMonths, months), common.ErrInvalidInput)
		}
		if reports, err = a.expenses.LastMonths(ctx, user.ID, months); err != nil {
			return err
		}
	default:
		report, err := a.expenses.ThisMonth(ctx, user.ID)
		if err != nil {
			return err
		}
		reports = append(reports, *report)
	}

	out := cmd.OutOrStdout()
	if len(reports) > 1 {
		fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Spending over the last %d months", len(reports))))
	}
	for i := range reports {
		fmt.Fprintln(out, cli.RenderReport(&reports[i]))
	}
	return nil
}
