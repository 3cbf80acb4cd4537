package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

// CreateUser inserts a new user.
func (s *SQLiteStorage) CreateUser(ctx context.Context, user *model.User) error {
	return createUser(ctx, s.db, user)
}

// GetUser returns a user by ID.
func (s *SQLiteStorage) GetUser(ctx context.Context, id string) (*model.User, error) {
	return getUser(ctx, s.db, "id", id)
}

// GetUserByEmail returns a user by email, compared case-insensitively.
func (s *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return getUser(ctx, s.db, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (t *sqliteTransaction) CreateUser(ctx context.Context, user *model.User) error {
	return createUser(ctx, t.tx, user)
}

func (t *sqliteTransaction) GetUser(ctx context.Context, id string) (*model.User, error) {
	return getUser(ctx, t.tx, "id", id)
}

func (t *sqliteTransaction) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return getUser(ctx, t.tx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func createUser(ctx context.Context, q queryer, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, created_at)
		VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.FullName, user.CreatedAt)
	if err != nil {
		return classify(fmt.Errorf("failed to create user: %w", err))
	}

	slog.Debug("created user", "id", user.ID)
	return nil
}

// getUser looks a user up by column, which is always a literal from this file.
func getUser(ctx context.Context, q queryer, column, value string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(value, column); err != nil {
		return nil, err
	}

	query := `SELECT id, email, full_name, created_at FROM users WHERE ` + column + ` = ?`

	var user model.User
	err := q.QueryRowContext(ctx, query, value).Scan(&user.ID, &user.Email, &user.FullName, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", value, common.ErrNotFound)
	}
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query user: %w", err))
	}

	return &user, nil
}
