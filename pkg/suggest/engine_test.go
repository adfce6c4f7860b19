package suggest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-questflow/pkg/analytics"
	"github.com/goliatone/go-questflow/pkg/condition"
	"github.com/goliatone/go-questflow/pkg/condition/expr"
	"github.com/goliatone/go-questflow/pkg/personalize"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

func newTestEngine(t *testing.T, rules *Registry, sink analytics.Sink) *Engine {
	t.Helper()
	opts := []Option{WithGuard(condition.NewGuard(expr.New(), nil))}
	if sink != nil {
		opts = append(opts, WithSink(sink))
	}
	e := NewEngine(rules, opts...)
	// Deterministic ids and clock for assertions.
	n := 0
	e.newID = func() string { n++; return fmt.Sprintf("sug-%d", n) }
	e.now = func() time.Time { return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC) }
	return e
}

func TestGenerateAggressiveTimelineWarning(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, NewDefaultRegistry(), nil)
	answers := questionnaire.FormData{
		questionnaire.AnswerTimelinePreference: "6months",
	}

	suggestions := engine.Generate(context.Background(), answers, nil, nil)

	var hit *Suggestion
	for i := range suggestions {
		if suggestions[i].RuleID == RuleAggressiveTimeline {
			hit = &suggestions[i]
		}
	}
	require.NotNil(t, hit, "aggressive timeline rule should fire for 6months")
	assert.Equal(t, TypeWarning, hit.Type)
	assert.Equal(t, PriorityHigh, hit.Priority)
	assert.Contains(t, hit.Content, "6months", "template placeholders resolve from answers")
	require.NotNil(t, hit.Action)
	assert.Equal(t, "form_fill", hit.Action.Type)
	assert.Equal(t, "timeline_preference", hit.Action.Target)
	assert.True(t, hit.Action.Highlight)
}

func TestGenerateEscalatesForLargeFamilies(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, NewDefaultRegistry(), nil)
	answers := questionnaire.FormData{
		questionnaire.AnswerTimelinePreference: "6months",
		questionnaire.AnswerFamilyComposition:  []string{"spouse", "children", "parents"},
	}

	suggestions := engine.Generate(context.Background(), answers, nil, nil)

	require.NotEmpty(t, suggestions)
	first := suggestions[0]
	assert.Equal(t, RuleAggressiveTimeline, first.RuleID, "critical priority sorts first")
	assert.Equal(t, PriorityCritical, first.Priority)
	assert.Contains(t, first.BasedOn, "family_size")
	assert.Contains(t, first.Content, "large family")
}

func TestGenerateNothingWithoutTriggers(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, NewDefaultRegistry(), nil)
	suggestions := engine.Generate(context.Background(), questionnaire.FormData{}, nil, nil)
	assert.Empty(t, suggestions)
}

func TestPersonalizationAxisOrderLastWriteWins(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.MustRegister(Rule{
		ID:       "axis_order",
		Triggers: []string{"motivation != null"},
		Template: Template{Title: "base", Content: "base", Type: TypeInsight, Priority: PriorityLow},
		Personalization: map[personalize.Axis]map[string]Override{
			personalize.AxisProfession: {
				"doctor": {Content: "profession override", Priority: PriorityMedium},
			},
			personalize.AxisBudget: {
				"under_50k": {Content: "budget override"},
			},
		},
	})
	engine := newTestEngine(t, registry, nil)

	profile := &questionnaire.UserProfile{Profession: "doctor"}
	answers := questionnaire.FormData{
		questionnaire.AnswerMotivation:  "career",
		questionnaire.AnswerBudgetRange: "under_50k",
	}

	suggestions := engine.Generate(context.Background(), answers, profile, nil)
	require.Len(t, suggestions, 1)
	got := suggestions[0]
	assert.Equal(t, "budget override", got.Content, "later axes win on conflicts")
	assert.Equal(t, PriorityMedium, got.Priority, "earlier axis fields survive when later axes do not touch them")
	assert.Equal(t, []string{"profession", "budget"}, got.BasedOn)
}

func TestGenerateCapsAtFiveSortedByPriorityThenRelevance(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	priorities := []Priority{
		PriorityLow, PriorityCritical, PriorityMedium,
		PriorityHigh, PriorityLow, PriorityCritical, PriorityMedium,
	}
	for i, p := range priorities {
		registry.MustRegister(Rule{
			ID:       fmt.Sprintf("rule_%d", i),
			Triggers: []string{"motivation != null"},
			Template: Template{Title: "t", Content: "c", Type: TypeInsight, Priority: p},
		})
	}
	engine := newTestEngine(t, registry, nil)

	answers := questionnaire.FormData{questionnaire.AnswerMotivation: "career"}
	suggestions := engine.Generate(context.Background(), answers, nil, nil)

	require.Len(t, suggestions, maxSuggestions)
	for i := 1; i < len(suggestions); i++ {
		prev, cur := suggestions[i-1], suggestions[i]
		if prev.Priority.rank() == cur.Priority.rank() {
			assert.GreaterOrEqual(t, prev.RelevanceScore, cur.RelevanceScore)
			continue
		}
		assert.Greater(t, prev.Priority.rank(), cur.Priority.rank())
	}
}

func TestRelevanceEngagementSignals(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.MustRegister(Rule{
		ID:         "engaged",
		Triggers:   []string{"motivation != null"},
		QuestionID: "motivation",
		Template:   Template{Title: "t", Content: "c", Type: TypeInsight, Priority: PriorityMedium},
	})
	engine := newTestEngine(t, registry, nil)
	answers := questionnaire.FormData{questionnaire.AnswerMotivation: "career"}

	meta := &questionnaire.SessionMeta{
		TimeSpent: map[string]float64{"motivation": 95},
		Attempts:  map[string]int{"motivation": 3},
	}
	boosted := engine.Generate(context.Background(), answers, nil, meta)
	require.Len(t, boosted, 1)
	assert.InDelta(t, 1.0, boosted[0].RelevanceScore, 1e-9, "0.5 base + 0.2 medium + 0.2 time + 0.1 attempts")

	repeated := &questionnaire.SessionMeta{SuggestionShown: map[string]int{"engaged": 4}}
	penalized := engine.Generate(context.Background(), answers, nil, repeated)
	require.Len(t, penalized, 1)
	assert.InDelta(t, 0.5, penalized[0].RelevanceScore, 1e-9, "over-shown suggestions lose 0.2")
}

func TestGenerateSanitizesInterpolatedAnswers(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.MustRegister(Rule{
		ID:       "echo",
		Triggers: []string{"motivation != null"},
		Template: Template{Title: "t", Content: "You said: {motivation}", Type: TypeInsight, Priority: PriorityLow},
	})
	engine := newTestEngine(t, registry, nil)

	answers := questionnaire.FormData{
		questionnaire.AnswerMotivation: `<script>alert(1)</script>career & family`,
	}
	suggestions := engine.Generate(context.Background(), answers, nil, nil)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "You said: career & family", suggestions[0].Content)
}

func TestGenerateEmitsShownEvents(t *testing.T) {
	t.Parallel()

	recorder := &analytics.Recorder{}
	engine := newTestEngine(t, NewDefaultRegistry(), recorder)

	answers := questionnaire.FormData{questionnaire.AnswerTimelinePreference: "asap"}
	meta := &questionnaire.SessionMeta{UserID: "user-1"}
	suggestions := engine.Generate(context.Background(), answers, nil, meta)

	require.Len(t, recorder.Shown, len(suggestions))
	for i, event := range recorder.Shown {
		assert.Equal(t, "user-1", event.UserID)
		assert.Equal(t, suggestions[i].ID, event.SuggestionID)
		assert.Equal(t, string(suggestions[i].Priority), event.Priority)
		assert.False(t, event.Timestamp.IsZero())
	}
}

func TestReportClickEmitsEvent(t *testing.T) {
	t.Parallel()

	recorder := &analytics.Recorder{}
	engine := newTestEngine(t, NewRegistry(), recorder)

	engine.ReportClick(context.Background(), "user-1", "sug-9", "navigate")

	require.Len(t, recorder.Clicked, 1)
	assert.Equal(t, "user-1", recorder.Clicked[0].UserID)
	assert.Equal(t, "sug-9", recorder.Clicked[0].SuggestionID)
	assert.Equal(t, "navigate", recorder.Clicked[0].ActionTaken)
}

func TestSegmentScopedRules(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.MustRegister(Rule{
		ID:       "children_only",
		Triggers: []string{"motivation != null"},
		Segments: []string{questionnaire.SegmentHasChildren},
		Template: Template{Title: "t", Content: "c", Type: TypeTip, Priority: PriorityLow},
	})
	engine := newTestEngine(t, registry, nil)
	answers := questionnaire.FormData{questionnaire.AnswerMotivation: "career"}

	assert.Empty(t, engine.Generate(context.Background(), answers, nil, nil))

	profile := &questionnaire.UserProfile{HasChildren: true}
	assert.Len(t, engine.Generate(context.Background(), answers, profile, nil), 1)
}
