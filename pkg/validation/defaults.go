package validation

// DefaultRules returns the product's built-in rule set. Callers can register
// these as-is, tweak their parameters, or replace them entirely through the
// registry.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:         "experience_consistency",
			FieldTypes: []string{"experience"},
			Applicability: Applicability{
				Profile: map[string]string{"profession": RequireNonEmpty},
			},
			Logic: Logic{
				Type:     LogicConditional,
				Severity: SeverityWarning,
			},
			Messages: Messages{
				Error: "Applicants working as {profession} typically report at least {min_experience} years of experience",
			},
			Effectiveness: 0.82,
		},
		{
			ID:         "budget_adequacy",
			FieldTypes: []string{"budget"},
			Applicability: Applicability{
				Triggers: []string{"timeline_preference != null"},
			},
			Logic: Logic{
				Type:     LogicCrossField,
				Severity: SeverityWarning,
			},
			Messages: Messages{
				Error:      "A {scenario} move typically needs at least ${required_budget}; your selected range is around ${budget}",
				Suggestion: "Extending your timeline lowers the minimum budget considerably",
			},
			Effectiveness: 0.77,
		},
		{
			ID:         "motivation_coherence",
			FieldTypes: []string{"motivation", "immigration_goals"},
			Logic: Logic{
				Type:              LogicAIAssisted,
				AdaptiveThreshold: true,
			},
			Messages: Messages{
				Suggestion: "Your stated motivation reads differently from the goals in your profile",
			},
			Learning:      true,
			Effectiveness: 0.64,
		},
	}
}

// NewDefaultRegistry returns a registry seeded with DefaultRules.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	for _, rule := range DefaultRules() {
		registry.MustRegister(rule)
	}
	return registry
}
