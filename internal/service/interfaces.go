// Package service defines the interfaces shared between application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
)

// CategoryLister is the read path the category resolver depends on.
// Implementations must return categories in creation order.
type CategoryLister interface {
	ListCategories(ctx context.Context, ownerID string) ([]model.Category, error)
}

// Storage defines the contract for our persistence layer.
// Every user-scoped read or write takes the owning user's ID.
type Storage interface {
	CategoryLister

	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Category operations
	GetCategory(ctx context.Context, ownerID, id string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, ownerID, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, ownerID, id string) error
	CountExpensesByCategory(ctx context.Context, ownerID, categoryID string) (int, error)
	ReassignExpenses(ctx context.Context, ownerID, fromCategoryID, toCategoryID string) (int64, error)

	// Expense operations
	CreateExpense(ctx context.Context, expense *model.Expense) error
	GetExpense(ctx context.Context, ownerID, id string) (*model.Expense, error)
	ListExpenses(ctx context.Context, ownerID string, filter model.ExpenseFilter) ([]model.Expense, error)
	UpdateExpense(ctx context.Context, expense *model.Expense) error
	DeleteExpense(ctx context.Context, ownerID, id string) error
	SummarizeExpenses(ctx context.Context, ownerID string, start, end time.Time) ([]model.CategoryTotal, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}
