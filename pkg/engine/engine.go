// Package engine composes the registries, the selector, the validation
// engine and the suggestion engine behind one stateless façade. Every call
// is a pure function of its inputs plus the injected registries, so one
// Engine serves any number of concurrent sessions without locking.
package engine

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-questflow/pkg/analytics"
	"github.com/goliatone/go-questflow/pkg/condition"
	"github.com/goliatone/go-questflow/pkg/condition/expr"
	qerrors "github.com/goliatone/go-questflow/pkg/errors"
	"github.com/goliatone/go-questflow/pkg/flows"
	"github.com/goliatone/go-questflow/pkg/personalize"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
	"github.com/goliatone/go-questflow/pkg/selector"
	"github.com/goliatone/go-questflow/pkg/suggest"
	"github.com/goliatone/go-questflow/pkg/validation"
	"github.com/goliatone/go-questflow/pkg/validation/aiscore"
)

// NextQuestions is the orchestrator's answer to "what should the user see
// now": the visible ordered questions plus progress, a remaining-time
// estimate, completion state and any active suggestions.
type NextQuestions struct {
	Questions              []questionnaire.Question `json:"questions"`
	Progress               int                      `json:"progress"`
	EstimatedTimeRemaining float64                  `json:"estimatedTimeRemaining"`
	Completed              bool                     `json:"completed"`
	EntryMet               bool                     `json:"entryMet"`
	Suggestions            []suggest.Suggestion     `json:"suggestions,omitempty"`
}

// Option customises the engine.
type Option func(*Engine)

// WithFlowRegistry injects the flow registry. Defaults to an empty one.
func WithFlowRegistry(reg *flows.Registry) Option {
	return func(e *Engine) { e.flows = reg }
}

// WithValidationEngine injects a configured validation engine.
func WithValidationEngine(v *validation.Engine) Option {
	return func(e *Engine) { e.validator = v }
}

// WithSuggestionEngine injects a configured suggestion engine.
func WithSuggestionEngine(s *suggest.Engine) Option {
	return func(e *Engine) { e.suggester = s }
}

// WithEvaluator swaps the condition evaluator behind every boolean decision.
func WithEvaluator(eval condition.Evaluator) Option {
	return func(e *Engine) { e.eval = eval }
}

// WithAnalytics injects the sink suggestion events are reported to. Only
// used when the engine builds its own suggestion engine.
func WithAnalytics(sink analytics.Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithLogger injects the logger shared by the default components.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Engine is the stateless orchestrator.
type Engine struct {
	flows     *flows.Registry
	validator *validation.Engine
	suggester *suggest.Engine
	selector  *selector.Selector
	guard     *condition.Guard

	eval   condition.Evaluator
	sink   analytics.Sink
	logger *slog.Logger
}

// New builds an engine. With no options it carries an empty flow registry,
// the stock validation and suggestion rules, and the expression evaluator.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.eval == nil {
		e.eval = expr.New()
	}
	e.guard = condition.NewGuard(e.eval, e.logger)
	if e.flows == nil {
		e.flows = flows.NewRegistry()
	}
	if e.validator == nil {
		e.validator = validation.NewEngine(validation.NewDefaultRegistry(),
			validation.WithGuard(e.guard),
			validation.WithLogger(e.logger),
			validation.WithScorer(aiscore.NewHeuristic()),
		)
	}
	if e.suggester == nil {
		sugOpts := []suggest.Option{
			suggest.WithGuard(e.guard),
			suggest.WithLogger(e.logger),
		}
		if e.sink != nil {
			sugOpts = append(sugOpts, suggest.WithSink(e.sink))
		}
		e.suggester = suggest.NewEngine(suggest.NewDefaultRegistry(), sugOpts...)
	}
	e.selector = selector.New(e.guard)
	return e
}

// Flows exposes the flow registry for registration and updates.
func (e *Engine) Flows() *flows.Registry { return e.flows }

// GetNextQuestions resolves the flow, personalizes its questions, filters
// and orders them, and attaches current suggestions. Unknown flow ids return
// a ConfigurationError, never an empty flow.
func (e *Engine) GetNextQuestions(ctx context.Context, flowID string, answers questionnaire.FormData, profile *questionnaire.UserProfile, meta *questionnaire.SessionMeta) (NextQuestions, error) {
	flow, err := e.flows.Get(flowID)
	if err != nil {
		return NextQuestions{}, err
	}

	condCtx := condition.Context{
		Answers: map[string]any(answers),
		Profile: profile.AsContext(),
	}
	if !e.conditionsMet(flow.Rules.Entry, condCtx) {
		return NextQuestions{}, nil
	}

	questions := flow.Questions
	if flow.Personalization.Enabled {
		questions = personalize.Questions(questions, profile)
	}

	selected := e.selector.Select(flow, questions, answers, profile)

	out := NextQuestions{
		Questions:              selected.Questions,
		Progress:               selected.Progress,
		EstimatedTimeRemaining: selected.EstimatedTimeRemaining,
		EntryMet:               true,
		Suggestions:            e.suggester.Generate(ctx, answers, profile, meta),
	}
	if len(flow.Rules.Completion) > 0 {
		out.Completed = e.conditionsMet(flow.Rules.Completion, condCtx)
	} else {
		out.Completed = selected.Progress >= 100
	}
	return out, nil
}

// ValidateAnswer runs the full validation path for one question. Unknown
// flow or question ids are configuration failures.
func (e *Engine) ValidateAnswer(ctx context.Context, flowID, questionID string, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile, meta *questionnaire.SessionMeta) ([]validation.Result, error) {
	q, err := e.question(flowID, questionID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		q = personalize.Question(q, profile)
	}
	return e.validator.Validate(ctx, q, value, answers, profile, meta), nil
}

// ValidateAnswerFast runs the synchronous feedback path for one question.
func (e *Engine) ValidateAnswerFast(flowID, questionID string, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile) ([]validation.Result, error) {
	q, err := e.question(flowID, questionID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		q = personalize.Question(q, profile)
	}
	return e.validator.ValidateFast(q, value, answers, profile), nil
}

// GenerateSuggestions evaluates the suggestion rules for the session.
func (e *Engine) GenerateSuggestions(ctx context.Context, answers questionnaire.FormData, profile *questionnaire.UserProfile, meta *questionnaire.SessionMeta) []suggest.Suggestion {
	return e.suggester.Generate(ctx, answers, profile, meta)
}

// ReportSuggestionClick forwards a click to the analytics sink.
func (e *Engine) ReportSuggestionClick(ctx context.Context, userID, suggestionID, actionTaken string) {
	e.suggester.ReportClick(ctx, userID, suggestionID, actionTaken)
}

func (e *Engine) question(flowID, questionID string) (questionnaire.Question, error) {
	flow, err := e.flows.Get(flowID)
	if err != nil {
		return questionnaire.Question{}, err
	}
	q, ok := flow.Question(questionID)
	if !ok {
		return questionnaire.Question{}, qerrors.NewConfiguration("question", questionID, qerrors.ErrQuestionNotFound)
	}
	return q, nil
}

// conditionsMet AND-combines a rule list; an empty list is vacuously true.
func (e *Engine) conditionsMet(rules []string, ctx condition.Context) bool {
	for _, rule := range rules {
		if rule != "" && !e.guard.Evaluate(rule, ctx) {
			return false
		}
	}
	return true
}
