package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// createTestUser stores a user and the named categories, returning the categories in order.
func createTestUser(t *testing.T, store *SQLiteStorage, userID string, categories ...string) []model.Category {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &model.User{ID: userID, Email: userID + "@example.com"}))

	cats := make([]model.Category, 0, len(categories))
	for i, name := range categories {
		cat := model.Category{ID: fmt.Sprintf("%s-cat-%d", userID, i), OwnerID: userID, Name: name}
		require.NoError(t, store.CreateCategory(ctx, &cat))
		cats = append(cats, cat)
	}
	return cats
}

func newTestExpense(id, ownerID, categoryID, amount, note string, date time.Time) *model.Expense {
	return &model.Expense{
		ID:         id,
		OwnerID:    ownerID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Note:       note,
		Date:       date,
	}
}

func day(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSQLiteStorage_Users(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	user := &model.User{ID: "u1", Email: "  Alice@Example.com ", FullName: "Alice"}
	require.NoError(t, store.CreateUser(ctx, user))
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FullName)

	got, err = store.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	err = store.CreateUser(ctx, &model.User{ID: "u2", Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = store.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_ListCategoriesCreationOrder(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	names := []string{"Zeta", "Alpha", "Other", "Mid"}
	createTestUser(t, store, "u1", names...)
	createTestUser(t, store, "u2", "Food")

	cats, err := store.ListCategories(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, names, model.CategoryNames(cats))

	for _, cat := range cats {
		assert.Equal(t, "u1", cat.OwnerID)
	}

	empty, err := store.ListCategories(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteStorage_CategoryCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cats := createTestUser(t, store, "u1", "Food", "Other")
	createTestUser(t, store, "u2")

	t.Run("duplicate name per owner", func(t *testing.T) {
		err := store.CreateCategory(ctx, &model.Category{ID: "dup", OwnerID: "u1", Name: "Food"})
		assert.ErrorIs(t, err, common.ErrDuplicateEntry)
	})

	t.Run("same name for another owner", func(t *testing.T) {
		err := store.CreateCategory(ctx, &model.Category{ID: "u2-food", OwnerID: "u2", Name: "Food"})
		assert.NoError(t, err)
	})

	t.Run("get by name and id", func(t *testing.T) {
		got, err := store.GetCategoryByName(ctx, "u1", "Food")
		require.NoError(t, err)
		assert.Equal(t, cats[0].ID, got.ID)

		_, err = store.GetCategory(ctx, "u2", cats[0].ID)
		assert.ErrorIs(t, err, common.ErrNotFound, "categories are scoped to their owner")
	})

	t.Run("rename", func(t *testing.T) {
		food := cats[0]
		food.Name = "Dining"
		food.Emoji = "🍜"
		require.NoError(t, store.UpdateCategory(ctx, &food))

		got, err := store.GetCategory(ctx, "u1", food.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dining", got.Name)
		assert.Equal(t, "🍜", got.Emoji)
	})

	t.Run("delete missing", func(t *testing.T) {
		err := store.DeleteCategory(ctx, "u1", "nope")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestSQLiteStorage_Expenses(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cats := createTestUser(t, store, "u1", "Food", "Utilities", "Other")
	other := createTestUser(t, store, "u2", "Food")

	seed := []*model.Expense{
		newTestExpense("e1", "u1", cats[0].ID, "12.50", "Lunch at cafe", day("2024-03-01")),
		newTestExpense("e2", "u1", cats[1].ID, "80", "Electricity bill", day("2024-03-05")),
		newTestExpense("e3", "u1", cats[0].ID, "7.25", "Coffee 100%_pure", day("2024-04-02")),
	}
	for _, exp := range seed {
		require.NoError(t, store.CreateExpense(ctx, exp))
	}

	t.Run("round trip", func(t *testing.T) {
		got, err := store.GetExpense(ctx, "u1", "e2")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(80).Equal(got.Amount))
		assert.Equal(t, "Utilities", got.CategoryName)
		assert.Equal(t, "2024-03-05", got.Date.Format(dateLayout))
	})

	t.Run("category of another user is rejected", func(t *testing.T) {
		err := store.CreateExpense(ctx, newTestExpense("bad", "u1", other[0].ID, "1", "x", day("2024-03-01")))
		assert.ErrorIs(t, err, common.ErrCategoryOwnership)
	})

	tests := []struct {
		name   string
		filter model.ExpenseFilter
		want   []string
	}{
		{name: "all newest first", want: []string{"e3", "e2", "e1"}},
		{name: "limit", filter: model.ExpenseFilter{Limit: 1, Offset: 1}, want: []string{"e2"}},
		{name: "offset only", filter: model.ExpenseFilter{Offset: 2}, want: []string{"e1"}},
		{name: "category", filter: model.ExpenseFilter{CategoryID: cats[0].ID}, want: []string{"e3", "e1"}},
		{name: "search is case insensitive", filter: model.ExpenseFilter{Search: "BILL"}, want: []string{"e2"}},
		{name: "search escapes wildcards", filter: model.ExpenseFilter{Search: "%_"}, want: []string{"e3"}},
		{
			name: "date range",
			filter: model.ExpenseFilter{
				StartDate: ptr(day("2024-03-01")),
				EndDate:   ptr(day("2024-03-31")),
			},
			want: []string{"e2", "e1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListExpenses(ctx, "u1", tt.filter)
			require.NoError(t, err)
			ids := make([]string, len(got))
			for i, e := range got {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	t.Run("invalid range", func(t *testing.T) {
		_, err := store.ListExpenses(ctx, "u1", model.ExpenseFilter{
			StartDate: ptr(day("2024-04-01")),
			EndDate:   ptr(day("2024-03-01")),
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("update and delete", func(t *testing.T) {
		exp, err := store.GetExpense(ctx, "u1", "e1")
		require.NoError(t, err)
		exp.Note = "Dinner"
		exp.CategoryID = cats[2].ID
		require.NoError(t, store.UpdateExpense(ctx, exp))

		got, err := store.GetExpense(ctx, "u1", "e1")
		require.NoError(t, err)
		assert.Equal(t, "Dinner", got.Note)
		assert.Equal(t, "Other", got.CategoryName)

		require.NoError(t, store.DeleteExpense(ctx, "u1", "e1"))
		_, err = store.GetExpense(ctx, "u1", "e1")
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.ErrorIs(t, store.DeleteExpense(ctx, "u1", "e1"), common.ErrNotFound)
	})
}

func TestSQLiteStorage_SummarizeExpenses(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cats := createTestUser(t, store, "u1", "Food", "Utilities", "Other")
	for _, exp := range []*model.Expense{
		newTestExpense("e1", "u1", cats[0].ID, "0.10", "a", day("2024-03-01")),
		newTestExpense("e2", "u1", cats[0].ID, "0.20", "b", day("2024-03-31")),
		newTestExpense("e3", "u1", cats[1].ID, "100", "c", day("2024-03-15")),
		newTestExpense("e4", "u1", cats[2].ID, "999", "outside", day("2024-04-01")),
	} {
		require.NoError(t, store.CreateExpense(ctx, exp))
	}

	totals, err := store.SummarizeExpenses(ctx, "u1", day("2024-03-01"), day("2024-03-31"))
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, "Utilities", totals[0].CategoryName)
	assert.Equal(t, 1, totals[0].Count)
	assert.Equal(t, "Food", totals[1].CategoryName)
	assert.Equal(t, 2, totals[1].Count)
	assert.Equal(t, "0.3", totals[1].Total.String(), "decimal sums must not drift")
}

func TestSQLiteStorage_Transaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cats := createTestUser(t, store, "u1", "Food", "Other")
	require.NoError(t, store.CreateExpense(ctx, newTestExpense("e1", "u1", cats[0].ID, "5", "lunch", day("2024-03-01"))))

	t.Run("rollback keeps rows", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)

		moved, err := tx.ReassignExpenses(ctx, "u1", cats[0].ID, cats[1].ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), moved)
		require.NoError(t, tx.Rollback())

		count, err := store.CountExpensesByCategory(ctx, "u1", cats[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("reassign then delete commits together", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)

		_, err = tx.ReassignExpenses(ctx, "u1", cats[0].ID, cats[1].ID)
		require.NoError(t, err)
		require.NoError(t, tx.DeleteCategory(ctx, "u1", cats[0].ID))
		require.NoError(t, tx.Commit())

		got, err := store.GetExpense(ctx, "u1", "e1")
		require.NoError(t, err)
		assert.Equal(t, "Other", got.CategoryName)
	})

	t.Run("delete with referencing expenses fails", func(t *testing.T) {
		err := store.DeleteCategory(ctx, "u1", cats[1].ID)
		assert.Error(t, err)
	})

	t.Run("nested transactions", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		_, err = tx.BeginTx(ctx)
		assert.Error(t, err)
		assert.Error(t, tx.Migrate(ctx))
	})
}

func TestSQLiteStorage_Migrations(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store1, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err2 := store1.Migrate(ctx); err2 != nil {
		t.Fatalf("Initial migration failed: %v", err2)
	}
	_ = store1.Close()

	// Running migrations again should not error
	store2, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store2.Close() }()

	if err := store2.Migrate(ctx); err != nil {
		t.Fatalf("Repeated migration failed: %v", err)
	}

	version, err := store2.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	createTestUser(t, store2, "u1", "Other")
}

func TestSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(MemoryPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	createTestUser(t, store, "u1", "Food")

	cats, err := store.ListCategories(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestSQLiteStorage_ClosedStoreIsUnavailable(t *testing.T) {
	store, cleanup := createTestStorage(t)
	cleanup()

	_, err := store.ListCategories(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestSQLiteStorage_ConcurrentAccess(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cats := createTestUser(t, store, "u1", "Food")

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			exp := newTestExpense(fmt.Sprintf("c%d", id), "u1", cats[0].ID, "1", "lunch", day("2024-03-01"))
			if err := store.CreateExpense(ctx, exp); err != nil {
				errs <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := store.ListCategories(ctx, "u1"); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Concurrent access error: %v", err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
