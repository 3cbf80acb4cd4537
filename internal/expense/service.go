// Package expense implements the application services behind the CLI and
// HTTP surfaces: user registration, category management and expense writes
// with automatic categorization.
package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/metrics"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

// Resolver assigns a category to a note.
type Resolver interface {
	Resolve(ctx context.Context, note, userID string) model.Resolution
}

// Service coordinates the store and the category resolver.
type Service struct {
	store    service.Storage
	resolver Resolver
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
	retry    service.RetryOptions
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records expense writes into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRetryOptions controls retries of store writes.
func WithRetryOptions(opts service.RetryOptions) Option {
	return func(s *Service) { s.retry = opts }
}

// WithClock overrides the time source used for defaults and report windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
func NewService(store service.Storage, resolver Resolver, opts ...Option) *Service {
	s := &Service{
		store:    store,
		resolver: resolver,
		logger:   slog.Default(),
		now:      time.Now,
		retry:    common.DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "expense")
	return s
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func (s *Service) withTx(ctx context.Context, fn func(tx service.Transaction) error) (err error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// validation wraps model validation failures as invalid input.
func validation(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
