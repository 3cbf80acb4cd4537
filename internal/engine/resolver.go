// Package engine assigns spending categories to expense notes.
//
// Resolution walks a fixed fallback chain: the remote classifier, then the
// lexical scorer over the user's own category names, then the user's "Other"
// category, then nothing. The resolver never returns an error; every failure
// degrades to a lower tier.
package engine

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

// Suggestion sources.
const (
	SourceRemote  = "remote"
	SourceLexical = "lexical"
)

// Resolver maps notes to category identifiers for a user. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	store      service.CategoryLister
	classifier Classifier
	ranker     Ranker
	scorer     Scorer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClassifier enables the remote classification tier.
func WithClassifier(c Classifier) Option {
	return func(r *Resolver) { r.classifier = c }
}

// WithRanker enables remote ranked suggestions.
func WithRanker(rk Ranker) Option {
	return func(r *Resolver) { r.ranker = rk }
}

// WithMetrics records resolution outcomes into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver reading categories from store and scoring
// with scorer. Without WithClassifier it runs lexical-only.
func NewResolver(store service.CategoryLister, scorer Scorer, opts ...Option) *Resolver {
	r := &Resolver{
		store:  store,
		scorer: scorer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "resolver")
	return r
}

// Resolve returns the category for note among userID's categories. The
// category set is read from the store on every call.
func (r *Resolver) Resolve(ctx context.Context, note, userID string) model.Resolution {
	cat, path := r.resolve(ctx, note, userID)
	res := model.Resolution{Path: path}
	if cat != nil {
		res.CategoryID = cat.ID
	}
	return res
}

// resolve runs the full chain once and, on an unexpected error, the
// lexical-only chain once more.
func (r *Resolver) resolve(ctx context.Context, note, userID string) (*model.Category, model.ResolutionPath) {
	start := time.Now()

	cat, path, err := r.attempt(ctx, note, userID, true)
	if err != nil {
		r.logger.Warn("resolution failed, retrying lexical only",
			"user_id", userID,
			"error", err)

		cat, path, err = r.attempt(ctx, note, userID, false)
		if err != nil {
			r.logger.Error("lexical retry failed",
				"user_id", userID,
				"error", err)
			cat, path = nil, model.PathNone
		} else {
			path = retryPath(path)
		}
	}

	elapsed := time.Since(start)
	r.metrics.ObserveResolution(path, elapsed)

	attrs := []any{
		"user_id", userID,
		"path", path,
		"duration", elapsed,
	}
	if cat != nil {
		attrs = append(attrs, "category", cat.Name)
	}
	r.logger.Info("resolved category", attrs...)

	return cat, path
}

// attempt is one pass of the chain. Only store failures and panics are
// returned as errors; classifier failures fall through to the next tier.
func (r *Resolver) attempt(ctx context.Context, note, userID string, useRemote bool) (cat *model.Category, path model.ResolutionPath, err error) {
	defer func() {
		if p := recover(); p != nil {
			cat, path = nil, model.PathNone
			err = fmt.Errorf("resolver panic: %v", p)
		}
	}()

	categories, err := r.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, model.PathNone, fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, model.PathNone, nil
	}

	names := model.CategoryNames(categories)

	if useRemote && r.classifier != nil {
		label, classifyErr := r.classifier.Classify(ctx, model.ClassificationRequest{
			Note:   note,
			Labels: names,
		})
		switch {
		case classifyErr != nil:
			r.logger.Debug("classifier unavailable, using lexical scorer", "error", classifyErr)
		default:
			if found := model.FindCategoryByName(categories, label); found != nil {
				return found, model.PathRemote, nil
			}
			r.logger.Debug("classifier label outside category set", "label", label)
		}
	}

	if i, ok := r.scorer.Best(note, names); ok {
		return &categories[i], model.PathLexical, nil
	}

	if other := model.FindCategoryByName(categories, model.OtherCategoryName); other != nil {
		return other, model.PathDefault, nil
	}

	return nil, model.PathNone, nil
}

func retryPath(path model.ResolutionPath) model.ResolutionPath {
	switch path {
	case model.PathLexical:
		return model.PathRetryLexical
	case model.PathDefault:
		return model.PathRetryDefault
	default:
		return path
	}
}

// SuggestWithClassifier returns up to three ranked categories for note.
// The remote ranker is asked first over the keyword table names plus
// "Other"; the lexical scorer answers when it fails or parses nothing.
func (r *Resolver) SuggestWithClassifier(ctx context.Context, note string) model.Suggestions {
	suggestions, _ := r.suggest(ctx, note)
	return suggestions
}

func (r *Resolver) suggest(ctx context.Context, note string) (model.Suggestions, string) {
	if r.ranker != nil {
		labels := append(r.scorer.Names(), model.OtherCategoryName)
		ranked, err := r.ranker.RankCategories(ctx, note, labels)
		if err == nil && len(ranked) > 0 {
			r.metrics.ObserveSuggestion(SourceRemote)
			return ranked.TopN(model.MaxSuggestions), SourceRemote
		}
		if err != nil && !errors.Is(err, common.ErrClassifierUnavailable) && !errors.Is(err, common.ErrInvalidLabel) {
			r.logger.Warn("unexpected ranker error", "error", err)
		}
	}

	r.metrics.ObserveSuggestion(SourceLexical)
	return r.scorer.Suggest(note), SourceLexical
}

// Preview resolves note for userID and pairs the result with ranked
// suggestions. When nothing resolves, the preview names "Other" with an
// empty id.
func (r *Resolver) Preview(ctx context.Context, note, userID string) model.Preview {
	preview := model.Preview{
		CategoryName: model.OtherCategoryName,
		Emoji:        otherEmoji(),
	}

	if cat, _ := r.resolve(ctx, note, userID); cat != nil {
		preview.CategoryID = cat.ID
		preview.CategoryName = cat.Name
		preview.Emoji = cat.Emoji
	}

	suggestions, source := r.suggest(ctx, note)
	preview.Suggestions = suggestions
	preview.AIPowered = source == SourceRemote

	return preview
}

func otherEmoji() string {
	for _, tmpl := range model.DefaultCategories {
		if tmpl.Name == model.OtherCategoryName {
			return tmpl.Emoji
		}
	}
	return ""
}
