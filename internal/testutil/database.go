// Package testutil provides shared test helpers: an in-memory store seeded with
// a user and that user's categories.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
	"github.com/Veraticus/spendwise/internal/storage"
)

// DefaultUserID owns the categories SetupTestDB seeds.
const DefaultUserID = "test-user"

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage    *storage.SQLiteStorage
	t          *testing.T
	UserID     string
	Categories []model.Category
}

// SetupTestDB creates a migrated in-memory database with one user owning the
// named categories, created in the order given. With no names the user gets
// the default category set.
//
// Example:
//
//	db := testutil.SetupTestDB(t, "Food", "Transport", "Other")
//	food := db.MustGetCategory("Food")
func SetupTestDB(t *testing.T, names ...string) *TestDB {
	t.Helper()

	if names == nil {
		for _, tmpl := range model.DefaultCategories {
			names = append(names, tmpl.Name)
		}
	}

	db := SetupEmptyTestDB(t)
	db.Categories = db.SeedCategories(DefaultUserID, names...)
	return db
}

// SetupEmptyTestDB creates a migrated in-memory database with one user and no categories.
func SetupEmptyTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{
		Storage: store,
		UserID:  DefaultUserID,
		t:       t,
	}
	db.SeedUser(DefaultUserID)
	return db
}

// SeedUser stores a user with a derived email address.
func (db *TestDB) SeedUser(id string) model.User {
	db.t.Helper()

	user := model.User{ID: id, Email: id + "@example.com", FullName: id}
	if err := db.Storage.CreateUser(context.Background(), &user); err != nil {
		db.t.Fatalf("failed to seed user %q: %v", id, err)
	}
	return user
}

// SeedCategories stores categories for ownerID. Creation timestamps are spaced
// so listing order always matches argument order.
func (db *TestDB) SeedCategories(ownerID string, names ...string) []model.Category {
	db.t.Helper()

	emoji := make(map[string]string, len(model.DefaultCategories))
	for _, tmpl := range model.DefaultCategories {
		emoji[tmpl.Name] = tmpl.Emoji
	}

	base := time.Now().UTC().Add(-time.Hour)
	cats := make([]model.Category, 0, len(names))
	for i, name := range names {
		cat := model.Category{
			ID:        uuid.NewString(),
			OwnerID:   ownerID,
			Name:      name,
			Emoji:     emoji[name],
			IsSystem:  emoji[name] != "",
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := db.Storage.CreateCategory(context.Background(), &cat); err != nil {
			db.t.Fatalf("failed to seed category %q: %v", name, err)
		}
		cats = append(cats, cat)
	}
	return cats
}

// SeedExpense stores an expense for the default user in the named category.
func (db *TestDB) SeedExpense(categoryName, amount, note string, date time.Time) model.Expense {
	db.t.Helper()

	cat := db.MustGetCategory(categoryName)
	exp := model.Expense{
		ID:         uuid.NewString(),
		OwnerID:    db.UserID,
		CategoryID: cat.ID,
		Amount:     decimal.RequireFromString(amount),
		Note:       note,
		Date:       date,
	}
	if err := db.Storage.CreateExpense(context.Background(), &exp); err != nil {
		db.t.Fatalf("failed to seed expense %q: %v", note, err)
	}
	exp.CategoryName = cat.Name
	return exp
}

// MustGetCategory returns the seeded category with the given name or fails the test.
func (db *TestDB) MustGetCategory(name string) model.Category {
	db.t.Helper()

	cat := model.FindCategoryByName(db.Categories, name)
	if cat == nil {
		db.t.Fatalf("category %q not found in test data", name)
		return model.Category{}
	}
	return *cat
}

// WithTransaction executes the given function within a database transaction.
// The transaction is automatically rolled back after the function completes.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	tx, err := db.Storage.BeginTx(context.Background())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
