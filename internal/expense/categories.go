package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

// CategoryUpdate carries optional edits to a category.
type CategoryUpdate struct {
	Name  *string
	Emoji *string
}

// ListCategories returns the user's categories in creation order.
func (s *Service) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

// CreateCategory adds a custom category. The name is title-cased.
func (s *Service) CreateCategory(ctx context.Context, userID, name, emoji string) (*model.Category, error) {
	name, err := model.NormalizeCategoryName(name)
	if err != nil {
		return nil, validation(err)
	}

	cat := &model.Category{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		Name:      name,
		Emoji:     strings.TrimSpace(emoji),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateCategory(ctx, cat); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			return nil, common.NewUserError(fmt.Sprintf("Category %q already exists", name), err)
		}
		return nil, err
	}

	s.logger.Info("created category", "user_id", userID, "name", name)
	return cat, nil
}

// UpdateCategory renames a category or changes its emoji. "Other" keeps its
// name, and no other category may take it.
func (s *Service) UpdateCategory(ctx context.Context, userID, id string, update CategoryUpdate) (*model.Category, error) {
	cat, err := s.store.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name, err := model.NormalizeCategoryName(*update.Name)
		if err != nil {
			return nil, validation(err)
		}
		if name != cat.Name && (cat.IsOther() || name == model.OtherCategoryName) {
			return nil, common.NewUserError("The Other category cannot be renamed", common.ErrProtectedCategory)
		}
		cat.Name = name
	}
	if update.Emoji != nil {
		cat.Emoji = strings.TrimSpace(*update.Emoji)
	}

	if err := s.store.UpdateCategory(ctx, cat); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			return nil, common.NewUserError(fmt.Sprintf("Category %q already exists", cat.Name), err)
		}
		return nil, err
	}
	return cat, nil
}

// CountExpenses returns how many expenses use the category.
func (s *Service) CountExpenses(ctx context.Context, userID, categoryID string) (int, error) {
	if _, err := s.store.GetCategory(ctx, userID, categoryID); err != nil {
		return 0, err
	}
	return s.store.CountExpensesByCategory(ctx, userID, categoryID)
}

// DeleteCategory moves the category's expenses to "Other" and removes it in
// one transaction. It returns the number of expenses moved.
func (s *Service) DeleteCategory(ctx context.Context, userID, id string) (int64, error) {
	var moved int64
	err := s.withTx(ctx, func(tx service.Transaction) error {
		cat, err := tx.GetCategory(ctx, userID, id)
		if err != nil {
			return err
		}
		if cat.IsOther() {
			return common.NewUserError("The Other category cannot be deleted", common.ErrProtectedCategory)
		}

		other, err := tx.GetCategoryByName(ctx, userID, model.OtherCategoryName)
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNoDefaultCategory
		}
		if err != nil {
			return err
		}

		if moved, err = tx.ReassignExpenses(ctx, userID, cat.ID, other.ID); err != nil {
			return err
		}
		return tx.DeleteCategory(ctx, userID, cat.ID)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.Info("deleted category", "user_id", userID, "category_id", id, "reassigned", moved)
	return moved, nil
}
