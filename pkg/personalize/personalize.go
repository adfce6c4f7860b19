// Package personalize applies profile-keyed overrides to question documents
// and defines the personalization axes shared with the suggestion engine.
package personalize

import (
	"fmt"

	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// Questions returns a new question list with each question's personalization
// rule applied. Questions without a rule, and profiles missing the rule's
// attribute, pass through cloned but unchanged. The input list is never
// mutated.
func Questions(questions []questionnaire.Question, profile *questionnaire.UserProfile) []questionnaire.Question {
	out := make([]questionnaire.Question, 0, len(questions))
	for _, q := range questions {
		out = append(out, Question(q, profile))
	}
	return out
}

// Question applies a single question's personalization rule against profile.
func Question(q questionnaire.Question, profile *questionnaire.UserProfile) questionnaire.Question {
	cloned := q.Clone()
	if q.Personalization == nil || profile == nil {
		return cloned
	}

	value, defined := profile.Field(q.Personalization.BasedOn)
	if !defined {
		return cloned
	}
	override, ok := q.Personalization.Mapping[coerceKey(value)]
	if !ok {
		return cloned
	}
	return apply(cloned, override)
}

// apply shallow-merges an override: populated fields replace their
// counterparts wholesale, empty fields leave the original alone.
func apply(q questionnaire.Question, override questionnaire.Override) questionnaire.Question {
	if override.Text != "" {
		q.Text = override.Text
	}
	if override.Description != "" {
		q.Description = override.Description
	}
	if override.Placeholder != "" {
		q.Placeholder = override.Placeholder
	}
	if override.Required != nil {
		q.Required = *override.Required
	}
	if override.Options != nil {
		q.Options = append([]questionnaire.Option(nil), override.Options...)
	}
	if override.Hints != nil {
		q.Hints = append([]questionnaire.Hint(nil), override.Hints...)
	}
	if override.Metadata != nil {
		if q.Metadata.Extra == nil {
			q.Metadata.Extra = make(map[string]string, len(override.Metadata))
		}
		for k, v := range override.Metadata {
			q.Metadata.Extra[k] = v
		}
	}
	return q
}

func coerceKey(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}
