package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/model"
)

// MaxReportMonths bounds LastMonths.
const MaxReportMonths = 12

// Report totals the user's spending per category between start and end,
// both inclusive.
func (s *Service) Report(ctx context.Context, userID string, start, end time.Time) (*model.Report, error) {
	if end.Before(start) {
		return nil, invalid("end date is before start date")
	}

	totals, err := s.store.SummarizeExpenses(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	if totals == nil {
		totals = []model.CategoryTotal{}
	}

	report := &model.Report{
		Start:      start,
		End:        end,
		Total:      decimal.Zero,
		ByCategory: totals,
	}
	for _, t := range totals {
		report.Total = report.Total.Add(t.Total)
		report.Count += t.Count
	}
	return report, nil
}

// ThisMonth reports the current calendar month.
func (s *Service) ThisMonth(ctx context.Context, userID string) (*model.Report, error) {
	start, end := model.MonthRange(today(s.now()))
	return s.Report(ctx, userID, start, end)
}

// LastMonth reports the previous calendar month.
func (s *Service) LastMonth(ctx context.Context, userID string) (*model.Report, error) {
	thisStart, _ := model.MonthRange(today(s.now()))
	start, end := model.MonthRange(thisStart.AddDate(0, -1, 0))
	return s.Report(ctx, userID, start, end)
}

// LastMonths returns one report per calendar month for the n most recent
// months including the current one, oldest first.
func (s *Service) LastMonths(ctx context.Context, userID string, n int) ([]model.Report, error) {
	if n < 1 || n > MaxReportMonths {
		return nil, invalid("months must be between 1 and %d", MaxReportMonths)
	}

	thisStart, _ := model.MonthRange(today(s.now()))
	reports := make([]model.Report, 0, n)
	for i := n - 1; i >= 0; i-- {
		start, end := model.MonthRange(thisStart.AddDate(0, -i, 0))
		report, err := s.Report(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}
