package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

const categoryColumns = `id, owner_id, name, emoji, is_system, created_at, updated_at`

// ListCategories returns a user's categories in creation order.
func (s *SQLiteStorage) ListCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	return listCategories(ctx, s.db, ownerID)
}

// GetCategory returns one of a user's categories by ID.
func (s *SQLiteStorage) GetCategory(ctx context.Context, ownerID, id string) (*model.Category, error) {
	return getCategory(ctx, s.db, ownerID, "id", id)
}

// GetCategoryByName returns one of a user's categories by exact name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, ownerID, name string) (*model.Category, error) {
	return getCategory(ctx, s.db, ownerID, "name", name)
}

// CreateCategory inserts a category. Names are unique per owner.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	return createCategory(ctx, s.db, category)
}

// UpdateCategory saves a category's name and emoji.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	return updateCategory(ctx, s.db, category)
}

// DeleteCategory removes a category. Expenses must be reassigned first.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, ownerID, id string) error {
	return deleteCategory(ctx, s.db, ownerID, id)
}

// CountExpensesByCategory returns how many expenses reference a category.
func (s *SQLiteStorage) CountExpensesByCategory(ctx context.Context, ownerID, categoryID string) (int, error) {
	return countExpensesByCategory(ctx, s.db, ownerID, categoryID)
}

// ReassignExpenses moves every expense in one category to another.
func (s *SQLiteStorage) ReassignExpenses(ctx context.Context, ownerID, fromCategoryID, toCategoryID string) (int64, error) {
	return reassignExpenses(ctx, s.db, ownerID, fromCategoryID, toCategoryID)
}

// Transaction implementations for category operations

func (t *sqliteTransaction) ListCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	return listCategories(ctx, t.tx, ownerID)
}

func (t *sqliteTransaction) GetCategory(ctx context.Context, ownerID, id string) (*model.Category, error) {
	return getCategory(ctx, t.tx, ownerID, "id", id)
}

func (t *sqliteTransaction) GetCategoryByName(ctx context.Context, ownerID, name string) (*model.Category, error) {
	return getCategory(ctx, t.tx, ownerID, "name", name)
}

func (t *sqliteTransaction) CreateCategory(ctx context.Context, category *model.Category) error {
	return createCategory(ctx, t.tx, category)
}

func (t *sqliteTransaction) UpdateCategory(ctx context.Context, category *model.Category) error {
	return updateCategory(ctx, t.tx, category)
}

func (t *sqliteTransaction) DeleteCategory(ctx context.Context, ownerID, id string) error {
	return deleteCategory(ctx, t.tx, ownerID, id)
}

func (t *sqliteTransaction) CountExpensesByCategory(ctx context.Context, ownerID, categoryID string) (int, error) {
	return countExpensesByCategory(ctx, t.tx, ownerID, categoryID)
}

func (t *sqliteTransaction) ReassignExpenses(ctx context.Context, ownerID, fromCategoryID, toCategoryID string) (int64, error) {
	return reassignExpenses(ctx, t.tx, ownerID, fromCategoryID, toCategoryID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (model.Category, error) {
	var cat model.Category
	err := row.Scan(&cat.ID, &cat.OwnerID, &cat.Name, &cat.Emoji, &cat.IsSystem, &cat.CreatedAt, &cat.UpdatedAt)
	return cat, err
}

func listCategories(ctx context.Context, q queryer, ownerID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = ?
		ORDER BY created_at, rowid`

	rows, err := q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query categories: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("error iterating categories: %w", err))
	}

	slog.Debug("retrieved categories", "owner_id", ownerID, "count", len(categories))
	return categories, nil
}

// getCategory looks a category up by column, which is always a literal from this file.
func getCategory(ctx context.Context, q queryer, ownerID, column, value string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if err := validateString(value, column); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = ? AND ` + column + ` = ?`

	cat, err := scanCategory(q.QueryRowContext(ctx, query, ownerID, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", value, common.ErrNotFound)
	}
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query category: %w", err))
	}

	return &cat, nil
}

func createCategory(ctx context.Context, q queryer, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = category.CreatedAt

	_, err := q.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		category.ID, category.OwnerID, category.Name, category.Emoji, category.IsSystem,
		category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return classify(fmt.Errorf("failed to create category %q: %w", category.Name, err))
	}

	slog.Debug("created category", "owner_id", category.OwnerID, "name", category.Name, "id", category.ID)
	return nil
}

func updateCategory(ctx context.Context, q queryer, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	category.UpdatedAt = time.Now().UTC()

	result, err := q.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, emoji = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		category.Name, category.Emoji, category.UpdatedAt, category.ID, category.OwnerID)
	if err != nil {
		return classify(fmt.Errorf("failed to update category: %w", err))
	}

	return requireAffected(result, "category "+category.ID)
}

func deleteCategory(ctx context.Context, q queryer, ownerID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return classify(fmt.Errorf("failed to delete category: %w", err))
	}

	return requireAffected(result, "category "+id)
}

func countExpensesByCategory(ctx context.Context, q queryer, ownerID, categoryID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return 0, err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return 0, err
	}

	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE owner_id = ? AND category_id = ?`,
		ownerID, categoryID).Scan(&count)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to count expenses: %w", err))
	}

	return count, nil
}

func reassignExpenses(ctx context.Context, q queryer, ownerID, fromCategoryID, toCategoryID string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return 0, err
	}
	if err := validateString(fromCategoryID, "fromCategoryID"); err != nil {
		return 0, err
	}
	if err := validateString(toCategoryID, "toCategoryID"); err != nil {
		return 0, err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE expenses
		SET category_id = ?, updated_at = ?
		WHERE owner_id = ? AND category_id = ?`,
		toCategoryID, time.Now().UTC(), ownerID, fromCategoryID)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to reassign expenses: %w", err))
	}

	moved, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	slog.Debug("reassigned expenses", "owner_id", ownerID, "from", fromCategoryID, "to", toCategoryID, "count", moved)
	return moved, nil
}

func requireAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return nil
}
