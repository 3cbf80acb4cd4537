package engine

import (
	"context"

	"github.com/Veraticus/spendwise/internal/model"
)

// Classifier picks exactly one label from req.Labels. Any error means the
// resolver falls back to lexical scoring.
type Classifier interface {
	Classify(ctx context.Context, req model.ClassificationRequest) (string, error)
}

// Ranker asks for up to three ranked labels with self-reported confidence.
type Ranker interface {
	RankCategories(ctx context.Context, note string, labels []string) (model.Suggestions, error)
}

// Scorer is the local keyword scorer.
type Scorer interface {
	Best(note string, names []string) (index int, ok bool)
	Suggest(text string) model.Suggestions
	Names() []string
}
