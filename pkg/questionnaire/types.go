package questionnaire

// QuestionType is the simplified enum for questionnaire input kinds.
type QuestionType string

const (
	QuestionTypeText        QuestionType = "text"
	QuestionTypeSelect      QuestionType = "select"
	QuestionTypeMultiSelect QuestionType = "multiselect"
	QuestionTypeNumber      QuestionType = "number"
	QuestionTypeDate        QuestionType = "date"
	QuestionTypeBoolean     QuestionType = "boolean"
	QuestionTypeScale       QuestionType = "scale"
	QuestionTypeFile        QuestionType = "file"
)

// RuleAction describes what a conditional rule does to its question when the
// rule expression evaluates to true.
type RuleAction string

const (
	ActionShow     RuleAction = "show"
	ActionHide     RuleAction = "hide"
	ActionRequire  RuleAction = "require"
	ActionOptional RuleAction = "optional"
	ActionSkip     RuleAction = "skip"
)

// Option is a selectable answer choice. Condition, when present, gates the
// option's availability through the condition evaluator.
type Option struct {
	Value       string `json:"value" yaml:"value"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Condition   string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// CustomValidator is an answer-level predicate. It receives the candidate
// value plus the full answer map and returns an error message, or "" when the
// value is acceptable. Custom validators are code, not documents, so they are
// excluded from serialisation.
type CustomValidator func(value any, answers FormData) string

// ValidationSpec holds the structural constraints attached to a question.
// Numeric bounds apply to number/scale questions, length bounds and Pattern to
// text questions. Enum membership for select/multiselect is derived from the
// question's Options.
type ValidationSpec struct {
	Min       *float64        `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64        `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *int            `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int            `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string          `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Custom    CustomValidator `json:"-" yaml:"-"`
}

// ConditionalRule gates a question's visibility or requiredness on the state
// of other answers. DependsOn lists the question ids the expression reads; the
// registry uses it for referential-integrity checks.
type ConditionalRule struct {
	Expression string     `json:"expression" yaml:"expression"`
	DependsOn  []string   `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	Action     RuleAction `json:"action" yaml:"action"`
	Message    string     `json:"message,omitempty" yaml:"message,omitempty"`
}

// Hint is a per-question suggestion shown alongside the input. Condition,
// when present, gates the hint the same way option conditions work.
type Hint struct {
	Text      string `json:"text" yaml:"text"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Override is a partial question document applied by personalization. Nil or
// zero fields leave the original untouched; populated fields replace their
// counterpart wholesale (slices are not merged element-wise).
type Override struct {
	Text        string            `json:"text,omitempty" yaml:"text,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    *bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []Option          `json:"options,omitempty" yaml:"options,omitempty"`
	Hints       []Hint            `json:"hints,omitempty" yaml:"hints,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// PersonalizationRule maps a profile attribute's value to question overrides.
type PersonalizationRule struct {
	BasedOn string              `json:"basedOn" yaml:"basedOn"`
	Mapping map[string]Override `json:"mapping" yaml:"mapping"`
}

// Metadata carries ordering and estimation hints for a question.
type Metadata struct {
	Category      string            `json:"category,omitempty" yaml:"category,omitempty"`
	Priority      int               `json:"priority,omitempty" yaml:"priority,omitempty"`
	EstimatedTime float64           `json:"estimatedTime,omitempty" yaml:"estimatedTime,omitempty"`
	Extra         map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

const (
	// DefaultPriority sorts questions without an explicit priority last.
	DefaultPriority = 999
	// DefaultEstimatedTime is the per-question minute estimate when absent.
	DefaultEstimatedTime = 1
)

// PriorityOrDefault returns the explicit priority or DefaultPriority.
func (m Metadata) PriorityOrDefault() int {
	if m.Priority <= 0 {
		return DefaultPriority
	}
	return m.Priority
}

// EstimatedTimeOrDefault returns the explicit estimate or DefaultEstimatedTime.
func (m Metadata) EstimatedTimeOrDefault() float64 {
	if m.EstimatedTime <= 0 {
		return DefaultEstimatedTime
	}
	return m.EstimatedTime
}

// Question models a single questionnaire input.
type Question struct {
	ID              string               `json:"id" yaml:"id"`
	Type            QuestionType         `json:"type" yaml:"type"`
	Text            string               `json:"text" yaml:"text"`
	Description     string               `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder     string               `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required        bool                 `json:"required" yaml:"required"`
	Default         any                  `json:"default,omitempty" yaml:"default,omitempty"`
	Validation      *ValidationSpec      `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options         []Option             `json:"options,omitempty" yaml:"options,omitempty"`
	Conditional     *ConditionalRule     `json:"conditional,omitempty" yaml:"conditional,omitempty"`
	Hints           []Hint               `json:"hints,omitempty" yaml:"hints,omitempty"`
	Personalization *PersonalizationRule `json:"personalization,omitempty" yaml:"personalization,omitempty"`
	Metadata        Metadata             `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// OptionValues collects the machine values of the question's options.
func (q Question) OptionValues() []string {
	if len(q.Options) == 0 {
		return nil
	}
	values := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		values = append(values, opt.Value)
	}
	return values
}

// Clone returns a deep-enough copy for personalization: slices and maps are
// duplicated so overrides never touch the registered definition.
func (q Question) Clone() Question {
	out := q
	if len(q.Options) > 0 {
		out.Options = append([]Option(nil), q.Options...)
	}
	if len(q.Hints) > 0 {
		out.Hints = append([]Hint(nil), q.Hints...)
	}
	if q.Conditional != nil {
		cond := *q.Conditional
		cond.DependsOn = append([]string(nil), q.Conditional.DependsOn...)
		out.Conditional = &cond
	}
	if q.Validation != nil {
		spec := *q.Validation
		out.Validation = &spec
	}
	if len(q.Metadata.Extra) > 0 {
		extra := make(map[string]string, len(q.Metadata.Extra))
		for k, v := range q.Metadata.Extra {
			extra[k] = v
		}
		out.Metadata.Extra = extra
	}
	return out
}

// FlowRules govern entry, completion, skip logic and branching for a flow.
// SkipLogic maps a question id to an expression that force-hides it when
// true. Branching maps a question id to the ids unlocked by answering it.
type FlowRules struct {
	Entry      []string            `json:"entry,omitempty" yaml:"entry,omitempty"`
	Completion []string            `json:"completion,omitempty" yaml:"completion,omitempty"`
	SkipLogic  map[string]string   `json:"skipLogic,omitempty" yaml:"skipLogic,omitempty"`
	Branching  map[string][]string `json:"branching,omitempty" yaml:"branching,omitempty"`
}

// FlowPersonalization toggles profile-aware behaviours for a flow.
type FlowPersonalization struct {
	Enabled          bool `json:"enabled" yaml:"enabled"`
	AdaptiveOrdering bool `json:"adaptiveOrdering" yaml:"adaptiveOrdering"`
	SmartDefaults    bool `json:"smartDefaults" yaml:"smartDefaults"`
}

// FlowAnalytics toggles what a flow reports to the analytics sink.
type FlowAnalytics struct {
	TrackCompletion bool `json:"trackCompletion" yaml:"trackCompletion"`
	TrackTiming     bool `json:"trackTiming" yaml:"trackTiming"`
}

// Flow is a named questionnaire definition: an ordered question list plus the
// rules that drive visibility, skipping and branching.
type Flow struct {
	ID              string              `json:"id" yaml:"id"`
	Title           string              `json:"title,omitempty" yaml:"title,omitempty"`
	Description     string              `json:"description,omitempty" yaml:"description,omitempty"`
	Questions       []Question          `json:"questions" yaml:"questions"`
	Rules           FlowRules           `json:"rules,omitempty" yaml:"rules,omitempty"`
	Personalization FlowPersonalization `json:"personalization,omitempty" yaml:"personalization,omitempty"`
	Analytics       FlowAnalytics       `json:"analytics,omitempty" yaml:"analytics,omitempty"`
}

// Question returns the definition for id.
func (f Flow) Question(id string) (Question, bool) {
	for _, q := range f.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionIDs returns the ids of all questions in definition order.
func (f Flow) QuestionIDs() []string {
	ids := make([]string, 0, len(f.Questions))
	for _, q := range f.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}
