package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

// dateLayout is how expense dates are stored; lexical order matches date order.
const dateLayout = "2006-01-02"

const expenseSelect = `
		SELECT e.id, e.owner_id, e.category_id, c.name, e.amount, e.note, e.spent_on, e.created_at, e.updated_at
		FROM expenses e
		JOIN categories c ON c.id = e.category_id`

// CreateExpense inserts an expense.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, expense *model.Expense) error {
	return createExpense(ctx, s.db, expense)
}

// GetExpense returns one of a user's expenses by ID.
func (s *SQLiteStorage) GetExpense(ctx context.Context, ownerID, id string) (*model.Expense, error) {
	return getExpense(ctx, s.db, ownerID, id)
}

// ListExpenses returns a user's expenses, newest first.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, ownerID string, filter model.ExpenseFilter) ([]model.Expense, error) {
	return listExpenses(ctx, s.db, ownerID, filter)
}

// UpdateExpense saves every mutable field of an expense.
func (s *SQLiteStorage) UpdateExpense(ctx context.Context, expense *model.Expense) error {
	return updateExpense(ctx, s.db, expense)
}

// DeleteExpense removes one of a user's expenses.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, ownerID, id string) error {
	return deleteExpense(ctx, s.db, ownerID, id)
}

// SummarizeExpenses totals a user's expenses per category over an inclusive
// date range. Categories without expenses are omitted; the rest are ordered by
// total, largest first.
func (s *SQLiteStorage) SummarizeExpenses(ctx context.Context, ownerID string, start, end time.Time) ([]model.CategoryTotal, error) {
	return summarizeExpenses(ctx, s.db, ownerID, start, end)
}

// Transaction implementations for expense operations

func (t *sqliteTransaction) CreateExpense(ctx context.Context, expense *model.Expense) error {
	return createExpense(ctx, t.tx, expense)
}

func (t *sqliteTransaction) GetExpense(ctx context.Context, ownerID, id string) (*model.Expense, error) {
	return getExpense(ctx, t.tx, ownerID, id)
}

func (t *sqliteTransaction) ListExpenses(ctx context.Context, ownerID string, filter model.ExpenseFilter) ([]model.Expense, error) {
	return listExpenses(ctx, t.tx, ownerID, filter)
}

func (t *sqliteTransaction) UpdateExpense(ctx context.Context, expense *model.Expense) error {
	return updateExpense(ctx, t.tx, expense)
}

func (t *sqliteTransaction) DeleteExpense(ctx context.Context, ownerID, id string) error {
	return deleteExpense(ctx, t.tx, ownerID, id)
}

func (t *sqliteTransaction) SummarizeExpenses(ctx context.Context, ownerID string, start, end time.Time) ([]model.CategoryTotal, error) {
	return summarizeExpenses(ctx, t.tx, ownerID, start, end)
}

func scanExpense(row rowScanner) (model.Expense, error) {
	var (
		exp     model.Expense
		amount  string
		spentOn string
	)
	err := row.Scan(&exp.ID, &exp.OwnerID, &exp.CategoryID, &exp.CategoryName,
		&amount, &exp.Note, &spentOn, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		return exp, err
	}

	if exp.Amount, err = decimal.NewFromString(amount); err != nil {
		return exp, fmt.Errorf("%w: amount %q: %w", common.ErrDatabaseCorrupted, amount, err)
	}
	if exp.Date, err = time.Parse(dateLayout, spentOn); err != nil {
		return exp, fmt.Errorf("%w: date %q: %w", common.ErrDatabaseCorrupted, spentOn, err)
	}
	return exp, nil
}

// ensureCategoryOwner rejects expenses pointing at another user's category.
func ensureCategoryOwner(ctx context.Context, q queryer, ownerID, categoryID string) error {
	var owner string
	err := q.QueryRowContext(ctx, `SELECT owner_id FROM categories WHERE id = ?`, categoryID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("category %s: %w", categoryID, common.ErrNotFound)
	}
	if err != nil {
		return classify(fmt.Errorf("failed to check category owner: %w", err))
	}
	if owner != ownerID {
		return fmt.Errorf("category %s: %w", categoryID, common.ErrCategoryOwnership)
	}
	return nil
}

func createExpense(ctx context.Context, q queryer, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}
	if err := ensureCategoryOwner(ctx, q, expense.OwnerID, expense.CategoryID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = expense.CreatedAt

	_, err := q.ExecContext(ctx, `
		INSERT INTO expenses (id, owner_id, category_id, amount, note, spent_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.OwnerID, expense.CategoryID, expense.Amount.StringFixed(2), expense.Note,
		expense.Date.Format(dateLayout), expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		return classify(fmt.Errorf("failed to create expense: %w", err))
	}

	slog.Debug("created expense", "owner_id", expense.OwnerID, "id", expense.ID, "category_id", expense.CategoryID)
	return nil
}

func getExpense(ctx context.Context, q queryer, ownerID, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	exp, err := scanExpense(q.QueryRowContext(ctx, expenseSelect+`
		WHERE e.owner_id = ? AND e.id = ?`, ownerID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query expense: %w", err))
	}

	return &exp, nil
}

func listExpenses(ctx context.Context, q queryer, ownerID string, filter model.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		if err := validateDateRange(*filter.StartDate, *filter.EndDate); err != nil {
			return nil, err
		}
	}

	var (
		where = []string{"e.owner_id = ?"}
		args  = []any{ownerID}
	)
	if filter.StartDate != nil {
		where = append(where, "e.spent_on >= ?")
		args = append(args, filter.StartDate.Format(dateLayout))
	}
	if filter.EndDate != nil {
		where = append(where, "e.spent_on <= ?")
		args = append(args, filter.EndDate.Format(dateLayout))
	}
	if filter.CategoryID != "" {
		where = append(where, "e.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		where = append(where, `LOWER(e.note) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(search))+"%")
	}

	query := expenseSelect + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY e.spent_on DESC, e.created_at DESC, e.rowid DESC`

	switch {
	case filter.Limit > 0:
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, max(filter.Offset, 0))
	case filter.Offset > 0:
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query expenses: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("error iterating expenses: %w", err))
	}

	slog.Debug("retrieved expenses", "owner_id", ownerID, "count", len(expenses))
	return expenses, nil
}

func updateExpense(ctx context.Context, q queryer, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}
	if err := ensureCategoryOwner(ctx, q, expense.OwnerID, expense.CategoryID); err != nil {
		return err
	}

	expense.UpdatedAt = time.Now().UTC()

	result, err := q.ExecContext(ctx, `
		UPDATE expenses
		SET category_id = ?, amount = ?, note = ?, spent_on = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		expense.CategoryID, expense.Amount.StringFixed(2), expense.Note, expense.Date.Format(dateLayout),
		expense.UpdatedAt, expense.ID, expense.OwnerID)
	if err != nil {
		return classify(fmt.Errorf("failed to update expense: %w", err))
	}

	return requireAffected(result, "expense "+expense.ID)
}

func deleteExpense(ctx context.Context, q queryer, ownerID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return classify(fmt.Errorf("failed to delete expense: %w", err))
	}

	return requireAffected(result, "expense "+id)
}

func summarizeExpenses(ctx context.Context, q queryer, ownerID string, start, end time.Time) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	// Amounts are summed in Go so decimal precision survives.
	rows, err := q.QueryContext(ctx, `
		SELECT c.id, c.name, c.emoji, e.amount
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.owner_id = ? AND e.spent_on >= ? AND e.spent_on <= ?
		ORDER BY c.created_at, c.rowid`,
		ownerID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query expense totals: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var (
		totals []model.CategoryTotal
		index  = make(map[string]int)
	)
	for rows.Next() {
		var id, name, emoji, amount string
		if err := rows.Scan(&id, &name, &emoji, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense total: %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q: %w", common.ErrDatabaseCorrupted, amount, err)
		}

		i, ok := index[id]
		if !ok {
			i = len(totals)
			index[id] = i
			totals = append(totals, model.CategoryTotal{CategoryID: id, CategoryName: name, Emoji: emoji})
		}
		totals[i].Total = totals[i].Total.Add(value)
		totals[i].Count++
	}

	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("error iterating expense totals: %w", err))
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})

	return totals, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
