package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"

	"github.com/Veraticus/spendwise/internal/classification"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/config"
	"github.com/Veraticus/spendwise/internal/engine"
	"github.com/Veraticus/spendwise/internal/expense"
	"github.com/Veraticus/spendwise/internal/llm"
	"github.com/Veraticus/spendwise/internal/metrics"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/storage"
)

// appConfig is set by initConfig before any command runs.
var appConfig *config.Config

// app holds the wired components shared by the commands.
type app struct {
	cfg      *config.Config
	store    *storage.SQLiteStorage
	adapter  *llm.Adapter
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	resolver *engine.Resolver
	expenses *expense.Service
}

// newApp opens and migrates the database and wires the category resolver and
// expense service.
func newApp(ctx context.Context) (*app, error) {
	cfg := appConfig
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration not loaded", common.ErrMissingConfig)
	}

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	a := &app{
		cfg:      cfg,
		store:    store,
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.registry)

	table := classification.DefaultKeywordTable()
	if cfg.Classification.KeywordsFile != "" {
		table, err = classification.LoadKeywordTable(cfg.Classification.KeywordsFile)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to load keyword table: %w", err)
		}
		slog.Info("Loaded keyword table", "path", cfg.Classification.KeywordsFile, "categories", table.Len())
	}

	opts := []engine.Option{engine.WithMetrics(a.metrics), engine.WithLogger(slog.Default())}
	if cfg.RemoteClassification() {
		a.adapter, err = llm.New(cfg.LLM, slog.Default())
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create classifier: %w", err)
		}
		opts = append(opts, engine.WithClassifier(a.adapter), engine.WithRanker(a.adapter))
		slog.Debug("Remote classification enabled", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	}

	a.resolver = engine.NewResolver(store, classification.NewScorer(table), opts...)
	a.expenses = expense.NewService(store, a.resolver,
		expense.WithMetrics(a.metrics),
		expense.WithLogger(slog.Default()),
		expense.WithRetryOptions(cfg.Expense.Retry))

	return a, nil
}

func (a *app) close() {
	if a.adapter != nil {
		a.adapter.Close()
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// currentUser returns the user named by --user or SPENDWISE_USER.
func (a *app) currentUser(ctx context.Context) (*model.User, error) {
	id := strings.TrimSpace(viper.GetString("user"))
	if id == "" {
		return nil, common.NewUserError("no user selected; pass --user or set SPENDWISE_USER", common.ErrMissingConfig)
	}
	user, err := a.expenses.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return user, nil
}

// findCategory matches ref against a user's category ids, then names
// case-insensitively.
func (a *app) findCategory(ctx context.Context, userID, ref string) (*model.Category, error) {
	categories, err := a.expenses.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == ref {
			return &categories[i], nil
		}
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, strings.TrimSpace(ref)) {
			return &categories[i], nil
		}
	}
	return nil, common.NewUserError(fmt.Sprintf("category %q not found", ref), common.ErrNotFound)
}
