package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-questflow/pkg/engine"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
	"github.com/goliatone/go-questflow/pkg/validation"
)

// Runner drives one flow session in the terminal: ask the next visible
// question, validate the answer inline, surface suggestions as they fire.
type Runner struct {
	engine *engine.Engine
	driver PromptDriver
	userID string
}

// NewRunner builds a Runner. A nil driver falls back to the survey driver.
func NewRunner(eng *engine.Engine, driver PromptDriver, userID string) *Runner {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &Runner{engine: eng, driver: driver, userID: userID}
}

// Run executes the flow until completion or interrupt and returns the
// collected answers.
func (r *Runner) Run(ctx context.Context, flowID string, profile *questionnaire.UserProfile) (questionnaire.FormData, error) {
	answers := questionnaire.FormData{}
	skipped := map[string]bool{}
	meta := &questionnaire.SessionMeta{
		UserID:          r.userID,
		TimeSpent:       map[string]float64{},
		Attempts:        map[string]int{},
		SuggestionShown: map[string]int{},
	}

	for {
		next, err := r.engine.GetNextQuestions(ctx, flowID, answers, profile, meta)
		if err != nil {
			return answers, err
		}
		if !next.EntryMet {
			r.driver.Info(ctx, "This questionnaire is not available for your profile yet.")
			return answers, nil
		}

		for _, s := range next.Suggestions {
			meta.SuggestionShown[s.RuleID]++
			r.driver.Info(ctx, fmt.Sprintf("[%s] %s: %s", s.Priority, s.Title, s.Content))
		}

		q, ok := nextUnanswered(next.Questions, answers, skipped)
		if !ok || next.Completed {
			r.driver.Info(ctx, fmt.Sprintf("Done. Progress %d%%.", next.Progress))
			return answers, nil
		}

		r.driver.Info(ctx, fmt.Sprintf("Progress %d%%, about %.0f min left", next.Progress, next.EstimatedTimeRemaining))

		started := time.Now()
		value, err := r.ask(ctx, q)
		if err != nil {
			return answers, err
		}
		meta.TimeSpent[q.ID] += time.Since(started).Seconds()
		meta.Attempts[q.ID]++

		results, err := r.engine.ValidateAnswer(ctx, flowID, q.ID, value, answers, profile, meta)
		if err != nil {
			return answers, err
		}
		if retry := r.report(ctx, results); retry {
			continue
		}
		if questionnaire.IsEmptyValue(value) && !q.Required {
			// Declined optional question; do not ask again.
			skipped[q.ID] = true
			continue
		}
		answers[q.ID] = value
	}
}

// report prints validation feedback and reports whether the question must be
// asked again. Only error severity blocks; warnings and suggestions are
// advisory.
func (r *Runner) report(ctx context.Context, results []validation.Result) bool {
	retry := false
	for _, res := range results {
		if res.Valid || res.Message == "" {
			if res.Message != "" {
				r.driver.Info(ctx, res.Message)
			}
			continue
		}
		r.driver.Info(ctx, fmt.Sprintf("[%s] %s", res.Severity, res.Message))
		for _, s := range res.Suggestions {
			r.driver.Info(ctx, "  "+s)
		}
		if res.Severity == validation.SeverityError {
			retry = true
		}
	}
	return retry
}

func (r *Runner) ask(ctx context.Context, q questionnaire.Question) (any, error) {
	switch q.Type {
	case questionnaire.QuestionTypeSelect:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      q.Text,
			Options:      optionLabels(q.Options),
			Help:         q.Description,
			DefaultIndex: defaultIndex(q),
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(q.Options) {
			return nil, nil
		}
		return q.Options[idx].Value, nil

	case questionnaire.QuestionTypeMultiSelect:
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message: q.Text,
			Options: optionLabels(q.Options),
			Help:    q.Description,
		})
		if err != nil {
			return nil, err
		}
		values := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(q.Options) {
				values = append(values, q.Options[idx].Value)
			}
		}
		return values, nil

	case questionnaire.QuestionTypeBoolean:
		def, _ := q.Default.(bool)
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: q.Text, Help: q.Description, Default: def})
		if err != nil {
			return nil, err
		}
		return answer, nil

	case questionnaire.QuestionTypeNumber, questionnaire.QuestionTypeScale:
		raw, err := r.driver.Input(ctx, InputConfig{
			Message:   q.Text,
			Help:      q.Description,
			Default:   defaultString(q),
			Validator: numberValidator,
		})
		if err != nil {
			return nil, err
		}
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("tui: %q is not a number: %w", raw, err)
		}
		return n, nil

	default:
		// text, date and file paths all read as plain input.
		raw, err := r.driver.Input(ctx, InputConfig{
			Message:     q.Text,
			Help:        q.Description,
			Default:     defaultString(q),
			Placeholder: q.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		return raw, nil
	}
}

func nextUnanswered(questions []questionnaire.Question, answers questionnaire.FormData, skipped map[string]bool) (questionnaire.Question, bool) {
	for _, q := range questions {
		if skipped[q.ID] {
			continue
		}
		if !answers.Answered(q.ID) {
			return q, true
		}
	}
	return questionnaire.Question{}, false
}

func numberValidator(raw string) error {
	if raw == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func optionLabels(options []questionnaire.Option) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		out = append(out, label)
	}
	return out
}

func defaultIndex(q questionnaire.Question) int {
	def, ok := q.Default.(string)
	if !ok {
		return -1
	}
	for i, opt := range q.Options {
		if opt.Value == def {
			return i
		}
	}
	return -1
}

func defaultString(q questionnaire.Question) string {
	if q.Default == nil {
		return ""
	}
	return fmt.Sprint(q.Default)
}
