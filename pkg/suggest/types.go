// Package suggest generates ranked contextual suggestions from trigger
// rules. Rules are plain documents registered at startup; generation is a
// pure read of the answers, profile and session signals.
package suggest

import (
	"time"

	"github.com/goliatone/go-questflow/pkg/personalize"
)

// Type classifies a suggestion for the caller's UI.
type Type string

const (
	TypeTip            Type = "tip"
	TypeWarning        Type = "warning"
	TypeRecommendation Type = "recommendation"
	TypeInsight        Type = "insight"
	TypeNextStep       Type = "next_step"
)

// Priority orders suggestions and weights their relevance.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// rank orders priorities for sorting; unknown values sort last.
func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// weight is the priority's contribution to the relevance score.
func (p Priority) weight() float64 {
	switch p {
	case PriorityCritical:
		return 0.4
	case PriorityHigh:
		return 0.3
	case PriorityMedium:
		return 0.2
	case PriorityLow:
		return 0.1
	}
	return 0
}

// Template is the content a rule instantiates when it fires. Title and
// Content may carry {placeholder} tokens substituted from the answers and
// profile.
type Template struct {
	Title    string   `json:"title" yaml:"title"`
	Content  string   `json:"content" yaml:"content"`
	Type     Type     `json:"type" yaml:"type"`
	Priority Priority `json:"priority" yaml:"priority"`
}

// Override is a partial template applied by a personalization axis. Zero
// fields keep the current value; populated fields replace it wholesale.
type Override struct {
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Content  string   `json:"content,omitempty" yaml:"content,omitempty"`
	Type     Type     `json:"type,omitempty" yaml:"type,omitempty"`
	Priority Priority `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Rule is a registered suggestion rule document. Triggers are OR-combined:
// any trigger evaluating true activates the rule. Personalization maps each
// axis value to a partial override, applied in the fixed axis order.
type Rule struct {
	ID              string                                   `json:"id" yaml:"id"`
	Triggers        []string                                 `json:"triggers" yaml:"triggers"`
	Template        Template                                 `json:"template" yaml:"template"`
	Personalization map[personalize.Axis]map[string]Override `json:"personalization,omitempty" yaml:"personalization,omitempty"`
	Segments        []string                                 `json:"segments,omitempty" yaml:"segments,omitempty"`
	QuestionID      string                                   `json:"questionId,omitempty" yaml:"questionId,omitempty"`
	ActionTarget    string                                   `json:"actionTarget,omitempty" yaml:"actionTarget,omitempty"`
	TTL             time.Duration                            `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// Action tells the caller what tapping the suggestion should do.
type Action struct {
	Type      string `json:"type"`
	Target    string `json:"target,omitempty"`
	Highlight bool   `json:"highlight,omitempty"`
}

// Suggestion is one instantiated, personalized, scored suggestion.
type Suggestion struct {
	ID             string     `json:"id"`
	RuleID         string     `json:"ruleId"`
	Type           Type       `json:"type"`
	Priority       Priority   `json:"priority"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	RelevanceScore float64    `json:"relevanceScore"`
	BasedOn        []string   `json:"basedOn,omitempty"`
	Action         *Action    `json:"action,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}
