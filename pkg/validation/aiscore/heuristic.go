// Package aiscore provides Scorer strategies for ai_assisted validation
// rules: a deterministic heuristic used by default and an OpenAI-backed
// implementation for deployments that want real inference.
package aiscore

import (
	"context"
	"strings"

	"github.com/goliatone/go-questflow/pkg/validation"
)

// Heuristic is the default scorer. It grades answers with cheap, fully
// deterministic signals so validation stays reproducible offline. It is not
// an NLP engine; it exists so the ai_assisted path has a working strategy
// that a real inference call can later replace.
type Heuristic struct{}

// NewHeuristic returns the default scorer.
func NewHeuristic() *Heuristic { return &Heuristic{} }

// Score grades consistency against the profile's stated goals and realism
// from the answer's substance.
func (h *Heuristic) Score(_ context.Context, input validation.ScoreInput) (validation.ScoreResult, error) {
	text := strings.ToLower(strings.TrimSpace(coerceText(input.Value)))

	result := validation.ScoreResult{Consistency: 0.9, Realism: 0.9}

	switch {
	case text == "":
		result.Realism = 0.3
		result.Hint = "Add a little more detail to this answer."
	case len(text) < 4:
		result.Realism = 0.6
		result.Hint = "One-word answers are hard to assess; expand a bit."
	}

	if input.Profile != nil && len(input.Profile.ImmigrationGoals) > 0 && text != "" {
		matched := false
		for _, goal := range input.Profile.ImmigrationGoals {
			if goal != "" && strings.Contains(text, strings.ToLower(goal)) {
				matched = true
				break
			}
		}
		if !matched {
			result.Consistency = 0.6
			if result.Hint == "" {
				result.Hint = "This reads differently from the goals in your profile."
			}
		}
	}

	return result, nil
}

func coerceText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	default:
		return ""
	}
}
