package validation

import (
	"context"

	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// Default score thresholds for ai_assisted rules. Rule parameters
// (consistencyThreshold, realismThreshold) override them per rule.
const (
	DefaultConsistencyThreshold = 0.70
	DefaultRealismThreshold     = 0.75
)

// ScoreInput is the answer snapshot handed to a scorer.
type ScoreInput struct {
	QuestionID string
	Value      any
	Answers    questionnaire.FormData
	Profile    *questionnaire.UserProfile
}

// ScoreResult grades an answer's coherence with the rest of the session.
// Consistency measures agreement with other answers, Realism measures
// plausibility on its own. Both are in [0,1].
type ScoreResult struct {
	Consistency float64
	Realism     float64
	Hint        string
}

// Scorer is the pluggable strategy behind ai_assisted rules. Implementations
// may call out to an inference service; the engine treats scorer failures as
// recoverable and never lets them fail a validation batch.
type Scorer interface {
	Score(ctx context.Context, input ScoreInput) (ScoreResult, error)
}

// ScorerFunc adapts a function into a Scorer.
type ScorerFunc func(ctx context.Context, input ScoreInput) (ScoreResult, error)

// Score delegates to the underlying function.
func (fn ScorerFunc) Score(ctx context.Context, input ScoreInput) (ScoreResult, error) {
	return fn(ctx, input)
}
