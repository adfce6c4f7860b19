package suggest

import "github.com/goliatone/go-questflow/pkg/personalize"

// Built-in rule ids.
const (
	RuleAggressiveTimeline = "aggressive_timeline"
	RuleBudgetPlanning     = "budget_planning"
	RuleRetryStrategy      = "retry_strategy"
	RuleNextSteps          = "next_steps"
)

// DefaultRules returns the stock suggestion rule documents. Deployments can
// register these as-is, override them, or start from an empty registry.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID: RuleAggressiveTimeline,
			Triggers: []string{
				`timeline_preference == "6months"`,
				`timeline_preference == "asap"`,
			},
			QuestionID: "timeline_preference",
			Template: Template{
				Title:    "Your timeline is aggressive",
				Content:  "A {timeline_preference} relocation leaves little slack for document processing. Consider which steps can start now.",
				Type:     TypeWarning,
				Priority: PriorityHigh,
			},
			Personalization: map[personalize.Axis]map[string]Override{
				personalize.AxisFamilySize: {
					personalize.FamilyLarge: {
						Priority: PriorityCritical,
						Content:  "A {timeline_preference} relocation with a large family is very tight: school enrollment and dependent visas add weeks to every step.",
					},
				},
			},
		},
		{
			ID: RuleBudgetPlanning,
			Triggers: []string{
				`budget_range == "under_50k"`,
				`budget_range == "under_30k"`,
			},
			QuestionID:   "budget_range",
			ActionTarget: "https://guides.example.com/relocation-budget",
			Template: Template{
				Title:    "Stretch your relocation budget",
				Content:  "Applicants in your budget range usually stage the move: secure work authorization first, relocate dependents later.",
				Type:     TypeTip,
				Priority: PriorityMedium,
			},
			Personalization: map[personalize.Axis]map[string]Override{
				personalize.AxisTimeline: {
					"asap": {Priority: PriorityHigh},
				},
			},
		},
		{
			ID: RuleRetryStrategy,
			Triggers: []string{
				"profile.previous_visa_attempts > 0",
			},
			ActionTarget: "refusal-review",
			Template: Template{
				Title:    "Address your previous refusal first",
				Content:  "A prior visa refusal must be explained in most applications. A refusal review before reapplying raises approval odds considerably.",
				Type:     TypeRecommendation,
				Priority: PriorityHigh,
			},
		},
		{
			ID: RuleNextSteps,
			Triggers: []string{
				"motivation != null",
			},
			ActionTarget: "visa-options",
			Template: Template{
				Title:    "See visa options for your goals",
				Content:  "Based on your motivation we can shortlist visa categories that fit.",
				Type:     TypeNextStep,
				Priority: PriorityLow,
			},
		},
	}
}

// NewDefaultRegistry builds a registry pre-loaded with DefaultRules.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range DefaultRules() {
		r.MustRegister(rule)
	}
	return r
}
