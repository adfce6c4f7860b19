package validation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/goliatone/go-questflow/pkg/condition"
	qerrors "github.com/goliatone/go-questflow/pkg/errors"
	"github.com/goliatone/go-questflow/pkg/personalize"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// fastRuleLimit caps how many rules the synchronous path dispatches so the
// feedback stays cheap enough for per-keystroke use.
const fastRuleLimit = 3

// Option customises the engine.
type Option func(*Engine)

// WithGuard injects the condition guard used for rule triggers.
func WithGuard(guard *condition.Guard) Option {
	return func(e *Engine) { e.guard = guard }
}

// WithScorer injects the strategy behind ai_assisted rules.
func WithScorer(scorer Scorer) Option {
	return func(e *Engine) { e.scorer = scorer }
}

// WithLogger injects the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Engine validates answers in two tiers: structural checks from the question
// definition, then the applicable intelligent rules. It holds no session
// state; every call is a pure function of its inputs plus the rule registry.
type Engine struct {
	rules  *Registry
	guard  *condition.Guard
	scorer Scorer
	logger *slog.Logger
}

// NewEngine builds an Engine over the given rule registry.
func NewEngine(rules *Registry, opts ...Option) *Engine {
	e := &Engine{rules: rules}
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
			func(string, condition.Context) (bool, error) { return true, nil }), e.logger)
	}
	return e
}

// Validate runs the full path: structural tier first (short-circuiting on
// failure), then every applicable rule. A rule that fails mid-evaluation is
// isolated to a single error result; scorer I/O failures are logged and
// skipped, never surfaced.
func (e *Engine) Validate(ctx context.Context, q questionnaire.Question, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile, meta *questionnaire.SessionMeta) []Result {
	structural := Structural(q, value, answers)
	if !structural.Valid {
		return []Result{structural}
	}

	results := []Result{structural}
	for _, rule := range e.applicable(q.ID, answers, profile) {
		res, ok := e.runRule(ctx, rule, q, value, answers, profile, meta, false)
		if ok {
			results = append(results, res)
		}
	}
	return results
}

// ValidateFast is the synchronous feedback path. It reuses the exact same
// applicability set as Validate and then restricts dispatch to the cheap
// logic types, capped at fastRuleLimit rules.
func (e *Engine) ValidateFast(q questionnaire.Question, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile) []Result {
	structural := Structural(q, value, answers)
	if !structural.Valid {
		return []Result{structural}
	}

	results := []Result{structural}
	dispatched := 0
	for _, rule := range e.applicable(q.ID, answers, profile) {
		switch rule.Logic.Type {
		case LogicFormat, LogicConditional:
		default:
			continue
		}
		if dispatched >= fastRuleLimit {
			break
		}
		dispatched++
		res, ok := e.runRule(context.Background(), rule, q, value, answers, profile, nil, true)
		if ok {
			results = append(results, res)
		}
	}
	return results
}

// applicable is the single applicability function shared by both paths:
// field-type tag intersection, segment scoping, profile requirements and
// context triggers.
func (e *Engine) applicable(questionID string, answers questionnaire.FormData, profile *questionnaire.UserProfile) []Rule {
	segments := questionnaire.DeriveSegments(profile, answers)
	ctx := condition.Context{
		Answers: map[string]any(answers),
		Profile: profile.AsContext(),
	}

	var out []Rule
	for _, rule := range e.rules.List() {
		if !matchesFieldTypes(questionID, rule.FieldTypes) {
			continue
		}
		if !matchesSegments(rule.Applicability.Segments, segments) {
			continue
		}
		if !e.matchesProfile(rule.Applicability.Profile, profile) {
			continue
		}
		if !e.matchesTriggers(rule.Applicability.Triggers, ctx) {
			continue
		}
		out = append(out, rule)
	}
	return out
}

func matchesFieldTypes(questionID string, tags []string) bool {
	if len(tags) == 0 {
		return false
	}
	for _, tag := range tags {
		if tag != "" && strings.Contains(questionID, tag) {
			return true
		}
	}
	return false
}

func matchesSegments(wanted, derived []string) bool {
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

func (e *Engine) matchesProfile(requirements map[string]string, profile *questionnaire.UserProfile) bool {
	for field, want := range requirements {
		value, defined := profile.Field(field)
		if want == RequireNonEmpty {
			if !defined {
				return false
			}
			continue
		}
		if !defined || fmt.Sprint(value) != want {
			return false
		}
	}
	return true
}

func (e *Engine) matchesTriggers(triggers []string, ctx condition.Context) bool {
	if len(triggers) == 0 {
		return true
	}
	for _, trigger := range triggers {
		if e.guard.Evaluate(trigger, ctx) {
			return true
		}
	}
	return false
}

// runRule dispatches one rule with panic isolation. The second return is
// false when the rule produced nothing (ai_assisted without a scorer, scorer
// I/O failure, or a pass that has no message to add).
func (e *Engine) runRule(ctx context.Context, rule Rule, q questionnaire.Question, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile, meta *questionnaire.SessionMeta, fast bool) (res Result, ok bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err := &qerrors.RuleExecutionError{RuleID: rule.ID, Err: fmt.Errorf("panic: %v", recovered)}
			e.logger.Error("validation rule failed", "rule", rule.ID, "question", q.ID, "error", err)
			res = Result{
				Valid:      false,
				Severity:   SeverityError,
				Message:    fmt.Sprintf("rule %s could not be evaluated", rule.ID),
				Confidence: 0,
				RuleID:     rule.ID,
			}
			ok = true
		}
	}()

	switch rule.Logic.Type {
	case LogicFormat:
		return e.evalFormat(rule, q, value, answers, profile), true
	case LogicRange:
		return e.evalRange(rule, q, value, answers, profile), true
	case LogicConditional:
		return e.evalConditional(rule, q, value, answers, profile), true
	case LogicCrossField:
		if fast {
			return Result{}, false
		}
		return e.evalCrossField(rule, q, value, answers, profile), true
	case LogicAIAssisted:
		if fast {
			return Result{}, false
		}
		return e.evalAIAssisted(ctx, rule, q, value, answers, profile, meta)
	default:
		return e.acknowledge(rule, answers, profile), true
	}
}

func (e *Engine) evalFormat(rule Rule, q questionnaire.Question, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile) Result {
	pattern := stringParam(rule.Logic.Parameters, "pattern", "")
	text := coerceAnswerString(value)
	if pattern == "" {
		return e.acknowledge(rule, answers, profile)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("invalid pattern %q: %v", pattern, err))
	}
	if re.MatchString(text) {
		return e.pass(rule, answers, profile, nil, 0.9)
	}
	return e.fail(rule, answers, profile, map[string]any{"value": text},
		severityOr(rule.Logic.Severity, SeverityError),
		messageOr(rule.Messages.Error, fmt.Sprintf("%s has an unexpected format", labelFor(q))),
		nil, 0.9)
}

func (e *Engine) evalRange(rule Rule, q questionnaire.Question, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile) Result {
	number, numeric := parseNumber(value)
	if !numeric {
		return e.acknowledge(rule, answers, profile)
	}
	min := numberParam(rule.Logic.Parameters, "min", math.Inf(-1))
	max := numberParam(rule.Logic.Parameters, "max", math.Inf(1))
	if number >= min && number <= max {
		return e.pass(rule, answers, profile, nil, 0.9)
	}
	extras := map[string]any{"value": number, "min": min, "max": max}
	return e.fail(rule, answers, profile, extras,
		severityOr(rule.Logic.Severity, SeverityWarning),
		messageOr(rule.Messages.Error, fmt.Sprintf("%s is outside the expected range", labelFor(q))),
		nil, 0.85)
}

// evalConditional checks the answer against the profile-derived experience
// tables: a minimum by profession and a plausibility ceiling by age range.
func (e *Engine) evalConditional(rule Rule, q questionnaire.Question, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile) Result {
	number, numeric := parseNumber(value)
	if !numeric || profile == nil {
		return e.acknowledge(rule, answers, profile)
	}

	params := rule.Logic.Parameters
	if profile.Profession != "" {
		minimums := numberTable(params, "minExperienceByProfession", minExperienceByProfession)
		if min, ok := minimums[profile.Profession]; ok && number < min {
			extras := map[string]any{
				"profession":     profile.Profession,
				"min_experience": min,
				"value":          number,
			}
			return e.fail(rule, answers, profile, extras,
				severityOr(rule.Logic.Severity, SeverityWarning),
				messageOr(rule.Messages.Error,
					"Applicants working as {profession} typically report at least {min_experience} years of experience"),
				[]string{"Double-check the number, or include internships and freelance work."}, 0.8)
		}
	}

	if profile.AgeRange != "" {
		ceilings := numberTable(params, "maxExperienceByAgeRange", maxExperienceByAgeRange)
		if max, ok := ceilings[profile.AgeRange]; ok && number > max {
			extras := map[string]any{
				"age_range":      profile.AgeRange,
				"max_experience": max,
				"value":          number,
			}
			return e.fail(rule, answers, profile, extras,
				severityOr(rule.Logic.Severity, SeverityWarning),
				messageOr(rule.Messages.Implausible,
					"{value} years of experience looks high for the {age_range} age range"),
				nil, 0.75)
		}
	}

	return e.pass(rule, answers, profile, nil, 0.9)
}

// evalCrossField checks budget adequacy: the scenario key combines family
// size and timeline, and the selected budget bracket must clear the
// scenario's minimum.
func (e *Engine) evalCrossField(rule Rule, q questionnaire.Question, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile) Result {
	bracket := coerceAnswerString(value)
	brackets := numberTable(rule.Logic.Parameters, "budgetBrackets", budgetBracketValues)
	amount, known := brackets[bracket]
	if !known {
		return e.acknowledge(rule, answers, profile)
	}

	scenario := budgetScenario(answers)
	minimums := numberTable(rule.Logic.Parameters, "minBudgetByScenario", minBudgetByScenario)
	required, ok := minimums[scenario]
	if !ok || amount >= required {
		return e.pass(rule, answers, profile, nil, 0.85)
	}

	extras := map[string]any{
		"scenario":        scenario,
		"required_budget": required,
		"budget":          amount,
	}
	return e.fail(rule, answers, profile, extras,
		severityOr(rule.Logic.Severity, SeverityWarning),
		messageOr(rule.Messages.Error,
			"A {scenario} move typically needs at least ${required_budget}; your selected range is around ${budget}"),
		[]string{"Consider a longer timeline or destinations with lower settlement costs."}, 0.85)
}

// budgetScenario builds the scenario key from family size and timeline.
// Anything beyond a single applicant counts as a family move.
func budgetScenario(answers questionnaire.FormData) string {
	part := "single"
	if size := personalize.FamilySize(answers); size != "" && size != personalize.FamilySingle {
		part = "family"
	}
	timeline := answers.StringValue(questionnaire.AnswerTimelinePreference)
	if timeline == "" {
		timeline = "1year"
	}
	return part + "_" + timeline
}

func (e *Engine) evalAIAssisted(ctx context.Context, rule Rule, q questionnaire.Question, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile, meta *questionnaire.SessionMeta) (Result, bool) {
	if e.scorer == nil {
		e.logger.Debug("ai_assisted rule skipped, no scorer configured", "rule", rule.ID)
		return Result{}, false
	}

	score, err := e.scorer.Score(ctx, ScoreInput{
		QuestionID: q.ID,
		Value:      value,
		Answers:    answers,
		Profile:    profile,
	})
	if err != nil {
		e.logger.Error("scorer failed, skipping rule", "rule", rule.ID, "question", q.ID, "error", err)
		return Result{}, false
	}

	consistencyMin := numberParam(rule.Logic.Parameters, "consistencyThreshold", DefaultConsistencyThreshold)
	realismMin := numberParam(rule.Logic.Parameters, "realismThreshold", DefaultRealismThreshold)
	if rule.Logic.AdaptiveThreshold && meta.AttemptsOn(q.ID) > 2 {
		// Repeated attempts relax the bar slightly so users are not trapped.
		consistencyMin -= 0.05
		realismMin -= 0.05
	}

	if score.Consistency >= consistencyMin && score.Realism >= realismMin {
		return e.pass(rule, answers, profile, nil, (score.Consistency+score.Realism)/2), true
	}

	hint := score.Hint
	if hint == "" {
		hint = "Review this answer against what you reported earlier."
	}
	res := e.fail(rule, answers, profile,
		map[string]any{"consistency": score.Consistency, "realism": score.Realism},
		SeveritySuggestion,
		messageOr(rule.Messages.Suggestion, "This answer does not quite line up with the rest of your profile"),
		nil, math.Min(score.Consistency, score.Realism))
	res.Adaptive = &AdaptiveFeedback{
		DifficultyDelta: -0.1,
		NextHint:        hint,
		ProgressImpact:  "slowed",
	}
	return res, true
}

func (e *Engine) acknowledge(rule Rule, answers questionnaire.FormData, profile *questionnaire.UserProfile) Result {
	return Result{
		Valid:        true,
		Severity:     SeveritySuccess,
		Message:      e.render(rule.Messages.Success, answers, profile, nil),
		Confidence:   0.6,
		Personalized: profile != nil,
		RuleID:       rule.ID,
	}
}

func (e *Engine) pass(rule Rule, answers questionnaire.FormData, profile *questionnaire.UserProfile, extras map[string]any, confidence float64) Result {
	return Result{
		Valid:        true,
		Severity:     SeveritySuccess,
		Message:      e.render(rule.Messages.Success, answers, profile, extras),
		Confidence:   confidence,
		Personalized: profile != nil,
		RuleID:       rule.ID,
	}
}

func (e *Engine) fail(rule Rule, answers questionnaire.FormData, profile *questionnaire.UserProfile, extras map[string]any, severity Severity, message string, suggestions []string, confidence float64) Result {
	if rule.Messages.Suggestion != "" && severity != SeveritySuggestion {
		suggestions = append(suggestions, e.render(rule.Messages.Suggestion, answers, profile, extras))
	}
	return Result{
		Valid:        false,
		Severity:     severity,
		Message:      e.render(message, answers, profile, extras),
		Suggestions:  suggestions,
		Confidence:   confidence,
		Personalized: profile != nil,
		RuleID:       rule.ID,
	}
}

func (e *Engine) render(template string, answers questionnaire.FormData, profile *questionnaire.UserProfile, extras map[string]any) string {
	if template == "" {
		return ""
	}
	return renderTemplate(template, templateData(answers, profile.AsContext(), extras))
}

func severityOr(severity, fallback Severity) Severity {
	if severity == "" {
		return fallback
	}
	return severity
}

func messageOr(template, fallback string) string {
	if strings.TrimSpace(template) == "" {
		return fallback
	}
	return template
}
