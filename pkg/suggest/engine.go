package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-questflow/pkg/analytics"
	"github.com/goliatone/go-questflow/pkg/condition"
	"github.com/goliatone/go-questflow/pkg/personalize"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// maxSuggestions caps how many suggestions a single generation returns.
const maxSuggestions = 5

// relevanceBase is the starting relevance before priority and engagement
// adjustments.
const relevanceBase = 0.5

// Option customises the engine.
type Option func(*Engine)

// WithGuard injects the condition guard used for trigger evaluation.
func WithGuard(guard *condition.Guard) Option {
	return func(e *Engine) { e.guard = guard }
}

// WithSink injects the analytics sink. Defaults to a no-op sink.
func WithSink(sink analytics.Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithLogger injects the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Engine turns registered suggestion rules into ranked, personalized
// suggestions. Generation is read-only over its inputs and may run in
// parallel with validation and with other generation calls.
type Engine struct {
	rules  *Registry
	guard  *condition.Guard
	sink   analytics.Sink
	logger *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewEngine builds an Engine over the given rule registry.
func NewEngine(rules *Registry, opts ...Option) *Engine {
	e := &Engine{
		rules: rules,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.guard == nil {
		e.guard = condition.NewGuard(condition.EvaluatorFunc(
			func(string, condition.Context) (bool, error) { return false, nil }), e.logger)
	}
	if e.sink == nil {
		e.sink = analytics.Nop{}
	}
	return e
}

// Generate evaluates every registered rule against the session and returns
// the top suggestions sorted by priority, then relevance. A "shown" event is
// emitted for each returned suggestion; sink failures are logged, never
// surfaced.
func (e *Engine) Generate(ctx context.Context, answers questionnaire.FormData, profile *questionnaire.UserProfile, meta *questionnaire.SessionMeta) []Suggestion {
	segments := questionnaire.DeriveSegments(profile, answers)
	condCtx := condition.Context{
		Answers: map[string]any(answers),
		Profile: profile.AsContext(),
	}
	axisValues := personalize.AxisValues(profile, answers)

	var out []Suggestion
	for _, rule := range e.rules.List() {
		if !inSegments(rule.Segments, segments) {
			continue
		}
		if !e.triggered(rule.Triggers, condCtx) {
			continue
		}
		out = append(out, e.instantiate(rule, axisValues, answers, profile, meta))
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Priority.rank() != out[b].Priority.rank() {
			return out[a].Priority.rank() > out[b].Priority.rank()
		}
		return out[a].RelevanceScore > out[b].RelevanceScore
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}

	e.emitShown(ctx, meta, out)
	return out
}

// ReportClick records that the user acted on a suggestion. Emission is
// fire-and-forget like the shown events.
func (e *Engine) ReportClick(ctx context.Context, userID, suggestionID, actionTaken string) {
	err := e.sink.SuggestionClicked(ctx, analytics.ClickEvent{
		UserID:       userID,
		SuggestionID: suggestionID,
		ActionTaken:  actionTaken,
		Timestamp:    e.now(),
	})
	if err != nil {
		e.logger.Error("suggestion click event failed", "suggestionId", suggestionID, "error", err)
	}
}

// triggered applies OR semantics: any true trigger activates the rule.
func (e *Engine) triggered(triggers []string, ctx condition.Context) bool {
	for _, trigger := range triggers {
		if trigger != "" && e.guard.Evaluate(trigger, ctx) {
			return true
		}
	}
	return false
}

func (e *Engine) instantiate(rule Rule, axisValues map[personalize.Axis]string, answers questionnaire.FormData, profile *questionnaire.UserProfile, meta *questionnaire.SessionMeta) Suggestion {
	tpl := rule.Template
	var basedOn []string
	for _, axis := range personalize.AxisOrder {
		value, ok := axisValues[axis]
		if !ok {
			continue
		}
		override, ok := rule.Personalization[axis][value]
		if !ok {
			continue
		}
		tpl = applyOverride(tpl, override)
		basedOn = append(basedOn, string(axis))
	}

	data := templateData(answers, profile)
	s := Suggestion{
		ID:             e.newID(),
		RuleID:         rule.ID,
		Type:           tpl.Type,
		Priority:       tpl.Priority,
		Title:          sanitize(renderTemplate(tpl.Title, data)),
		Content:        sanitize(renderTemplate(tpl.Content, data)),
		RelevanceScore: e.relevance(rule, tpl.Priority, meta),
		BasedOn:        basedOn,
		Action:         actionFor(tpl.Type, rule),
	}
	if rule.TTL > 0 {
		expires := e.now().Add(rule.TTL)
		s.ExpiresAt = &expires
	}
	return s
}

// relevance combines the priority weight with engagement signals and a
// repetition penalty, clamped to [0,1].
func (e *Engine) relevance(rule Rule, priority Priority, meta *questionnaire.SessionMeta) float64 {
	score := relevanceBase + priority.weight()
	if meta.TimeSpentOn(rule.QuestionID) > 60 {
		score += 0.2
	}
	if meta.AttemptsOn(rule.QuestionID) > 1 {
		score += 0.1
	}
	if meta.ShownCount(rule.ID) > 3 {
		score -= 0.2
	}
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}

func (e *Engine) emitShown(ctx context.Context, meta *questionnaire.SessionMeta, suggestions []Suggestion) {
	var userID string
	if meta != nil {
		userID = meta.UserID
	}
	for _, s := range suggestions {
		err := e.sink.SuggestionShown(ctx, analytics.ShownEvent{
			UserID:         userID,
			SuggestionID:   s.ID,
			Type:           string(s.Type),
			Priority:       string(s.Priority),
			RelevanceScore: s.RelevanceScore,
			Timestamp:      e.now(),
		})
		if err != nil {
			e.logger.Error("suggestion shown event failed", "suggestionId", s.ID, "error", err)
		}
	}
}

// actionFor attaches the contextual action implied by the suggestion type.
func actionFor(t Type, rule Rule) *Action {
	switch t {
	case TypeRecommendation:
		return &Action{Type: "modal", Target: rule.ActionTarget}
	case TypeTip:
		return &Action{Type: "external_link", Target: rule.ActionTarget}
	case TypeWarning:
		return &Action{Type: "form_fill", Target: rule.QuestionID, Highlight: true}
	case TypeNextStep:
		return &Action{Type: "navigate", Target: rule.ActionTarget}
	}
	return nil
}

func applyOverride(tpl Template, o Override) Template {
	if o.Title != "" {
		tpl.Title = o.Title
	}
	if o.Content != "" {
		tpl.Content = o.Content
	}
	if o.Type != "" {
		tpl.Type = o.Type
	}
	if o.Priority != "" {
		tpl.Priority = o.Priority
	}
	return tpl
}

func inSegments(wanted, derived []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, want := range wanted {
		for _, have := range derived {
			if want == have {
				return true
			}
		}
	}
	return false
}

// renderTemplate substitutes `{key}` tokens from data; unknown tokens stay
// in place so missing data is visible instead of silently blanked.
func renderTemplate(template string, data map[string]any) string {
	if template == "" || len(data) == 0 {
		return template
	}
	out := template
	for key, value := range data {
		out = strings.ReplaceAll(out, "{"+key+"}", fmt.Sprint(value))
	}
	return out
}

func templateData(answers questionnaire.FormData, profile *questionnaire.UserProfile) map[string]any {
	flat := profile.AsContext()
	out := make(map[string]any, len(answers)+len(flat))
	for k, v := range flat {
		out[k] = v
	}
	for k, v := range answers {
		out[k] = v
	}
	return out
}
