// Package storage provides the data persistence layer for spendwise.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidExpense   = errors.New("invalid expense")
	ErrInvalidUser      = errors.New("invalid user")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDateRange ensures end is not before start.
func validateDateRange(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidDateRange, end.Format(dateLayout), start.Format(dateLayout))
	}
	return nil
}

func validateUser(user *model.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidUser)
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidUser)
	}
	return nil
}

func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(category.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCategory)
	}
	if strings.TrimSpace(category.OwnerID) == "" {
		return fmt.Errorf("%w: missing owner", ErrInvalidCategory)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	return nil
}

func validateExpense(expense *model.Expense) error {
	if expense == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if strings.TrimSpace(expense.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidExpense)
	}
	if strings.TrimSpace(expense.OwnerID) == "" {
		return fmt.Errorf("%w: missing owner", ErrInvalidExpense)
	}
	if strings.TrimSpace(expense.CategoryID) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidExpense)
	}
	if expense.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidExpense)
	}
	if !expense.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}
	return nil
}
