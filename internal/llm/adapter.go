package llm

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

// Generation bounds for the two prompt kinds.
const (
	classifyMaxTokens   = 10
	classifyTemperature = 0.1
	rankMaxTokens       = 50
	rankTemperature     = 0.2
)

// Adapter turns a Client into a constrained text classifier. It never retries
// and makes at most one remote call per invocation; every failure surfaces as
// common.ErrClassifierUnavailable or common.ErrInvalidLabel.
type Adapter struct {
	client   Client
	labels   *responseCache[string]
	rankings *responseCache[model.Suggestions]
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New builds an Adapter over the provider named in cfg.
func New(cfg Config, logger *slog.Logger) (*Adapter, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewAdapter(client, cfg, logger), nil
}

// NewAdapter wraps client. cfg supplies the cache TTL and rate limit.
func NewAdapter(client Client, cfg Config, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		client:   client,
		labels:   newResponseCache[string](cfg.CacheTTL),
		rankings: newResponseCache[model.Suggestions](cfg.CacheTTL),
		logger:   logger.With("component", "llm"),
	}

	// A denied request fails immediately so callers fall back without waiting.
	if cfg.RateLimit > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60), cfg.RateLimit)
	}

	return a
}

// Classify asks the model for exactly one of req.Labels. Replies are matched
// exactly, then case-insensitively, and the allowed spelling is returned.
// Answers are cached per note and label list.
func (a *Adapter) Classify(ctx context.Context, req model.ClassificationRequest) (string, error) {
	if len(req.Labels) == 0 {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidLabel, common.ErrNoCategories)
	}

	key := cacheKey("classify", req.Note, req.Labels)
	if label, ok := a.labels.get(key); ok {
		a.logger.Debug("classifier cache hit", "label", label)
		return label, nil
	}

	reply, err := a.complete(ctx, CompletionRequest{
		System:      classifySystemPrompt,
		Prompt:      buildClassifyPrompt(req.Note, req.Labels),
		MaxTokens:   classifyMaxTokens,
		Temperature: classifyTemperature,
	})
	if err != nil {
		return "", err
	}

	label, ok := matchLabel(reply, req.Labels)
	if !ok {
		a.logger.Debug("classifier returned unknown label", "reply", reply)
		return "", fmt.Errorf("%w: %q", common.ErrInvalidLabel, reply)
	}

	a.labels.set(key, label)
	return label, nil
}

// RankCategories asks the model for up to three labels with self-reported
// confidence. Names are returned as the model wrote them.
func (a *Adapter) RankCategories(ctx context.Context, note string, labels []string) (model.Suggestions, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidLabel, common.ErrNoCategories)
	}

	key := cacheKey("rank", note, labels)
	if cached, ok := a.rankings.get(key); ok {
		return append(model.Suggestions(nil), cached...), nil
	}

	reply, err := a.complete(ctx, CompletionRequest{
		System:      rankSystemPrompt,
		Prompt:      buildRankPrompt(note, labels),
		MaxTokens:   rankMaxTokens,
		Temperature: rankTemperature,
	})
	if err != nil {
		return nil, err
	}

	ranked := parseRankings(reply, model.MaxSuggestions)
	if len(ranked) == 0 {
		a.logger.Debug("classifier returned no parseable rankings", "reply", reply)
		return nil, fmt.Errorf("%w: no parseable rankings", common.ErrInvalidLabel)
	}

	a.rankings.set(key, append(model.Suggestions(nil), ranked...))
	return ranked, nil
}

// Close releases the adapter's background cache workers.
func (a *Adapter) Close() {
	a.labels.Close()
	a.rankings.Close()
}

// complete performs the single remote call, converting every failure,
// including a provider panic, into common.ErrClassifierUnavailable.
func (a *Adapter) complete(ctx context.Context, req CompletionRequest) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("classifier client panicked", "panic", r)
			reply, err = "", fmt.Errorf("%w: client panic: %v", common.ErrClassifierUnavailable, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrClassifierUnavailable, err)
	}

	if a.limiter != nil && !a.limiter.Allow() {
		return "", fmt.Errorf("%w: %w", common.ErrClassifierUnavailable, common.ErrRateLimit)
	}

	reply, err = a.client.Complete(ctx, req)
	if err != nil {
		a.logger.Warn("classifier call failed", "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrClassifierUnavailable, err)
	}

	return reply, nil
}
