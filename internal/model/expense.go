package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense limits.
const (
	MaxNoteLength = 500
	MaxNameLength = 50
)

// MaxExpenseAmount is the largest amount a single expense may record.
var MaxExpenseAmount = decimal.NewFromInt(10_000_000)

// Expense represents a single recorded spend.
type Expense struct {
	Date         time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Amount       decimal.Decimal
	ID           string
	OwnerID      string
	Note         string
	CategoryID   string
	CategoryName string // populated on read
}

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID string
	Search     string // case-insensitive substring of the note
	Limit      int
	Offset     int
}

// ExpenseInput carries the caller-supplied fields of a new expense.
type ExpenseInput struct {
	Date       time.Time
	Amount     decimal.Decimal
	Note       string
	CategoryID string // optional manual override
}

// ExpenseUpdate carries optional edits to an existing expense.
type ExpenseUpdate struct {
	Date       *time.Time
	Amount     *decimal.Decimal
	Note       *string
	CategoryID *string
}

// IsEmpty reports whether the update changes nothing.
func (u ExpenseUpdate) IsEmpty() bool {
	return u.Date == nil && u.Amount == nil && u.Note == nil && u.CategoryID == nil
}
