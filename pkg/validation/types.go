// Package validation implements the two-tier answer validation engine:
// structural checks derived from the question definition, then profile-aware
// intelligent rules dispatched by rule logic type. Structural failures
// short-circuit; rule failures are isolated per rule.
package validation

// Severity grades a validation result.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
	SeveritySuccess    Severity = "success"
)

// LogicType selects the dispatch strategy for a rule.
type LogicType string

const (
	LogicFormat      LogicType = "format"
	LogicRange       LogicType = "range"
	LogicConditional LogicType = "conditional"
	LogicCrossField  LogicType = "cross_field"
	LogicAIAssisted  LogicType = "ai_assisted"
	LogicBasic       LogicType = "basic"
)

// AdaptiveFeedback carries the difficulty adjustment hints an ai_assisted
// rule attaches when an answer scores below threshold.
type AdaptiveFeedback struct {
	DifficultyDelta float64 `json:"difficultyDelta" yaml:"difficultyDelta"`
	NextHint        string  `json:"nextHint,omitempty" yaml:"nextHint,omitempty"`
	ProgressImpact  string  `json:"progressImpact,omitempty" yaml:"progressImpact,omitempty"`
}

// Result is the outcome of one structural check or one rule evaluation.
type Result struct {
	Valid        bool              `json:"valid" yaml:"valid"`
	Severity     Severity          `json:"severity" yaml:"severity"`
	Message      string            `json:"message,omitempty" yaml:"message,omitempty"`
	Suggestions  []string          `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Confidence   float64           `json:"confidence" yaml:"confidence"`
	Personalized bool              `json:"personalized" yaml:"personalized"`
	RuleID       string            `json:"ruleId,omitempty" yaml:"ruleId,omitempty"`
	Adaptive     *AdaptiveFeedback `json:"adaptive,omitempty" yaml:"adaptive,omitempty"`
}

// Applicability scopes which sessions a rule fires for. All populated
// dimensions must hold. Profile requirements map attribute names to an exact
// value, or the RequireNonEmpty sentinel meaning "defined and non-empty".
type Applicability struct {
	Segments []string          `json:"segments,omitempty" yaml:"segments,omitempty"`
	Profile  map[string]string `json:"profile,omitempty" yaml:"profile,omitempty"`
	Triggers []string          `json:"triggers,omitempty" yaml:"triggers,omitempty"`
}

// RequireNonEmpty is the profile-requirement sentinel for "must be defined".
const RequireNonEmpty = "!empty"

// Logic configures a rule's dispatch.
type Logic struct {
	Type              LogicType      `json:"type" yaml:"type"`
	Parameters        map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Severity          Severity       `json:"severity,omitempty" yaml:"severity,omitempty"`
	AdaptiveThreshold bool           `json:"adaptiveThreshold,omitempty" yaml:"adaptiveThreshold,omitempty"`
}

// Messages are the rule's templated outputs. `{key}` tokens are substituted
// from the evaluation's data dictionary. Implausible covers the plausibility
// ceiling of conditional rules; it falls back to a built-in template rather
// than Error, because the two checks substitute different tokens.
type Messages struct {
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
	Implausible string `json:"implausible,omitempty" yaml:"implausible,omitempty"`
	Suggestion  string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Success     string `json:"success,omitempty" yaml:"success,omitempty"`
}

// Rule is an intelligent validation rule document. FieldTypes tags are
// matched as substrings of the question id, so a "experience" tag covers
// both experience_years and work_experience.
type Rule struct {
	ID            string        `json:"id" yaml:"id"`
	FieldTypes    []string      `json:"fieldTypes" yaml:"fieldTypes"`
	Applicability Applicability `json:"applicability,omitempty" yaml:"applicability,omitempty"`
	Logic         Logic         `json:"logic" yaml:"logic"`
	Messages      Messages      `json:"messages,omitempty" yaml:"messages,omitempty"`
	Learning      bool          `json:"learning,omitempty" yaml:"learning,omitempty"`
	Effectiveness float64       `json:"effectiveness,omitempty" yaml:"effectiveness,omitempty"`
}
