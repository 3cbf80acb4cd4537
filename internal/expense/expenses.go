package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

// MaxPageSize bounds expense listings.
const MaxPageSize = 100

// CreateExpense validates input and stores a new expense. Without an
// explicit category the resolver picks one; when it finds nothing the
// user's "Other" category is used, and a user without one is rejected
// with common.ErrNoDefaultCategory.
func (s *Service) CreateExpense(ctx context.Context, userID string, input model.ExpenseInput) (*model.Expense, error) {
	amount, err := model.NormalizeAmount(input.Amount)
	if err != nil {
		return nil, validation(err)
	}
	note, err := model.NormalizeNote(input.Note)
	if err != nil {
		return nil, validation(err)
	}

	date := input.Date
	if date.IsZero() {
		date = today(s.now())
	}

	categoryID := input.CategoryID
	if categoryID == "" {
		categoryID, err = s.categorize(ctx, note, userID)
		if err != nil {
			return nil, err
		}
	}

	exp := &model.Expense{
		ID:         uuid.NewString(),
		OwnerID:    userID,
		CategoryID: categoryID,
		Amount:     amount,
		Note:       note,
		Date:       date,
	}

	err = common.WithRetry(ctx, func() error {
		return s.store.CreateExpense(ctx, exp)
	}, s.retry)
	s.metrics.ObserveExpenseWrite("create", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return s.store.GetExpense(ctx, userID, exp.ID)
}

// categorize resolves note to a category id, falling back to "Other".
func (s *Service) categorize(ctx context.Context, note, userID string) (string, error) {
	if res := s.resolver.Resolve(ctx, note, userID); res.Found() {
		return res.CategoryID, nil
	}

	other, err := s.store.GetCategoryByName(ctx, userID, model.OtherCategoryName)
	if errors.Is(err, common.ErrNotFound) {
		return "", common.NewUserError("No category could be assigned and no Other category exists", common.ErrNoDefaultCategory)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load default category: %w", err)
	}
	return other.ID, nil
}

// GetExpense returns one of the user's expenses.
func (s *Service) GetExpense(ctx context.Context, userID, id string) (*model.Expense, error) {
	return s.store.GetExpense(ctx, userID, id)
}

// ListExpenses returns the user's expenses, newest first.
func (s *Service) ListExpenses(ctx context.Context, userID string, filter model.ExpenseFilter) ([]model.Expense, error) {
	if filter.Limit < 0 || filter.Limit > MaxPageSize {
		return nil, invalid("limit must be between 1 and %d", MaxPageSize)
	}
	if filter.Offset < 0 {
		return nil, invalid("offset cannot be negative")
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, invalid("end date is before start date")
	}
	return s.store.ListExpenses(ctx, userID, filter)
}

// UpdateExpense applies update. A changed note without an explicit category
// is re-resolved; the category only changes when the resolver finds one.
func (s *Service) UpdateExpense(ctx context.Context, userID, id string, update model.ExpenseUpdate) (*model.Expense, error) {
	exp, err := s.store.GetExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return exp, nil
	}
	if update.CategoryID != nil && strings.TrimSpace(*update.CategoryID) == "" {
		return nil, invalid("category_id cannot be empty; omit it to keep the current category")
	}

	if update.Amount != nil {
		if exp.Amount, err = model.NormalizeAmount(*update.Amount); err != nil {
			return nil, validation(err)
		}
	}
	if update.Date != nil {
		exp.Date = *update.Date
	}

	noteChanged := false
	if update.Note != nil {
		note, err := model.NormalizeNote(*update.Note)
		if err != nil {
			return nil, validation(err)
		}
		noteChanged = note != exp.Note
		exp.Note = note
	}

	switch {
	case update.CategoryID != nil:
		exp.CategoryID = *update.CategoryID
	case noteChanged:
		if res := s.resolver.Resolve(ctx, exp.Note, userID); res.Found() {
			exp.CategoryID = res.CategoryID
		}
	}

	err = common.WithRetry(ctx, func() error {
		return s.store.UpdateExpense(ctx, exp)
	}, s.retry)
	s.metrics.ObserveExpenseWrite("update", err)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return s.store.GetExpense(ctx, userID, id)
}

// DeleteExpense removes one of the user's expenses.
func (s *Service) DeleteExpense(ctx context.Context, userID, id string) error {
	err := s.store.DeleteExpense(ctx, userID, id)
	s.metrics.ObserveExpenseWrite("delete", err)
	return err
}
