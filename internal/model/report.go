package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotal aggregates a user's expenses in one category.
type CategoryTotal struct {
	Total        decimal.Decimal
	CategoryID   string
	CategoryName string
	Emoji        string
	Count        int
}

// Report summarizes spending over an inclusive date range.
type Report struct {
	Start      time.Time
	End        time.Time
	Total      decimal.Decimal
	ByCategory []CategoryTotal
	Count      int
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}
