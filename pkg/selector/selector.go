// Package selector filters a personalized question list down to what the
// user should see next: visibility and skip logic, adaptive ordering,
// progress and a remaining-time estimate.
package selector

import (
	"math"
	"sort"

	"github.com/goliatone/go-questflow/pkg/condition"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// Result is the selector's output for one request.
type Result struct {
	Questions              []questionnaire.Question
	Progress               int
	EstimatedTimeRemaining float64
}

// Selector decides visibility and ordering. It holds no session state.
type Selector struct {
	guard *condition.Guard
}

// New constructs a Selector evaluating conditions through guard.
func New(guard *condition.Guard) *Selector {
	return &Selector{guard: guard}
}

// Select filters, orders and measures the personalized question list.
// Progress counts answered questions against the whole personalized list so
// it can only grow as answers accumulate; the time estimate covers only the
// currently visible unanswered questions.
func (s *Selector) Select(flow questionnaire.Flow, questions []questionnaire.Question, answers questionnaire.FormData, profile *questionnaire.UserProfile) Result {
	ctx := condition.Context{
		Answers: map[string]any(answers),
		Profile: profile.AsContext(),
	}

	visible := make([]questionnaire.Question, 0, len(questions))
	for _, q := range questions {
		shaped, ok := s.resolve(flow, q, ctx)
		if !ok {
			continue
		}
		if flow.Personalization.SmartDefaults && shaped.Default == nil {
			if value, defined := profile.Field(shaped.ID); defined {
				shaped.Default = value
			}
		}
		visible = append(visible, shaped)
	}

	if flow.Personalization.AdaptiveOrdering {
		visible = order(visible, answers)
	}

	return Result{
		Questions:              visible,
		Progress:               progress(questions, answers),
		EstimatedTimeRemaining: estimate(visible, answers),
	}
}

// resolve applies the question's own conditional rule plus the flow's skip
// logic. Skip logic force-hides independent of the question's rule.
func (s *Selector) resolve(flow questionnaire.Flow, q questionnaire.Question, ctx condition.Context) (questionnaire.Question, bool) {
	if rule := q.Conditional; rule != nil {
		matched := s.guard.Evaluate(rule.Expression, ctx)
		switch rule.Action {
		case questionnaire.ActionHide, questionnaire.ActionSkip:
			if matched {
				return questionnaire.Question{}, false
			}
		case questionnaire.ActionRequire:
			if matched {
				q.Required = true
			}
		case questionnaire.ActionOptional:
			if matched {
				q.Required = false
			}
		default: // ActionShow
			if !matched {
				return questionnaire.Question{}, false
			}
		}
	}

	if expr, ok := flow.Rules.SkipLogic[q.ID]; ok {
		if s.guard.Evaluate(expr, ctx) {
			return questionnaire.Question{}, false
		}
	}

	q.Options = s.filterOptions(q.Options, ctx)
	q.Hints = s.filterHints(q.Hints, ctx)
	return q, true
}

func (s *Selector) filterOptions(options []questionnaire.Option, ctx condition.Context) []questionnaire.Option {
	if len(options) == 0 {
		return options
	}
	out := options[:0:0]
	for _, opt := range options {
		if opt.Condition == "" || s.guard.Evaluate(opt.Condition, ctx) {
			out = append(out, opt)
		}
	}
	return out
}

func (s *Selector) filterHints(hints []questionnaire.Hint, ctx condition.Context) []questionnaire.Hint {
	if len(hints) == 0 {
		return hints
	}
	out := hints[:0:0]
	for _, hint := range hints {
		if hint.Condition == "" || s.guard.Evaluate(hint.Condition, ctx) {
			out = append(out, hint)
		}
	}
	return out
}

// order sorts unanswered questions before answered ones, then by metadata
// priority ascending. The sort is stable so ties keep definition order.
func order(questions []questionnaire.Question, answers questionnaire.FormData) []questionnaire.Question {
	sort.SliceStable(questions, func(a, b int) bool {
		answeredA := answers.Answered(questions[a].ID)
		answeredB := answers.Answered(questions[b].ID)
		if answeredA != answeredB {
			return !answeredA
		}
		return questions[a].Metadata.PriorityOrDefault() < questions[b].Metadata.PriorityOrDefault()
	})
	return questions
}

func progress(questions []questionnaire.Question, answers questionnaire.FormData) int {
	if len(questions) == 0 {
		return 0
	}
	answered := 0
	for _, q := range questions {
		if answers.Answered(q.ID) {
			answered++
		}
	}
	return int(math.Round(100 * float64(answered) / float64(len(questions))))
}

func estimate(visible []questionnaire.Question, answers questionnaire.FormData) float64 {
	var total float64
	for _, q := range visible {
		if answers.Answered(q.ID) {
			continue
		}
		total += q.Metadata.EstimatedTimeOrDefault()
	}
	return total
}
