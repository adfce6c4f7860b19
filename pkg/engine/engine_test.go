package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-questflow/pkg/analytics"
	qerrors "github.com/goliatone/go-questflow/pkg/errors"
	"github.com/goliatone/go-questflow/pkg/flows"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
	"github.com/goliatone/go-questflow/pkg/validation"
)

func testFlow() questionnaire.Flow {
	return questionnaire.Flow{
		ID: "relocation_intake",
		Questions: []questionnaire.Question{
			{
				ID:       questionnaire.AnswerFamilyComposition,
				Type:     questionnaire.QuestionTypeMultiSelect,
				Text:     "Who is moving with you?",
				Required: true,
				Options: []questionnaire.Option{
					{Value: "spouse", Label: "Spouse"},
					{Value: "children", Label: "Children"},
					{Value: "parents", Label: "Parents"},
				},
				Metadata: questionnaire.Metadata{Priority: 1, EstimatedTime: 2},
			},
			{
				ID:   "children_ages",
				Type: questionnaire.QuestionTypeText,
				Text: "How old are your children?",
				Conditional: &questionnaire.ConditionalRule{
					Expression: `family_composition.includes("children")`,
					DependsOn:  []string{questionnaire.AnswerFamilyComposition},
					Action:     questionnaire.ActionShow,
				},
				Metadata: questionnaire.Metadata{Priority: 2},
			},
			{
				ID:       questionnaire.AnswerTimelinePreference,
				Type:     questionnaire.QuestionTypeSelect,
				Text:     "When do you want to move?",
				Required: true,
				Options: []questionnaire.Option{
					{Value: "asap", Label: "As soon as possible"},
					{Value: "6months", Label: "Within six months"},
					{Value: "1year", Label: "Within a year"},
				},
				Metadata: questionnaire.Metadata{Priority: 3, EstimatedTime: 1},
			},
		},
		Personalization: questionnaire.FlowPersonalization{Enabled: true, AdaptiveOrdering: true},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	reg := flows.NewRegistry()
	reg.MustRegister(testFlow())
	return New(append([]Option{WithFlowRegistry(reg)}, opts...)...)
}

func TestGetNextQuestionsUnknownFlowIsConfigurationError(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	_, err := e.GetNextQuestions(context.Background(), "no_such_flow", questionnaire.FormData{}, nil, nil)
	if err == nil {
		t.Fatal("unknown flow must fail, not return an empty flow")
	}
	if !errors.Is(err, qerrors.ErrFlowNotFound) {
		t.Fatalf("expected ErrFlowNotFound, got %v", err)
	}
	if !qerrors.IsConfiguration(err) {
		t.Fatalf("expected a ConfigurationError, got %T", err)
	}
}

func TestGetNextQuestionsVisibilityAndProgress(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	ctx := context.Background()

	// No answers yet: the conditional question stays hidden.
	res, err := e.GetNextQuestions(ctx, "relocation_intake", questionnaire.FormData{}, nil, nil)
	if err != nil {
		t.Fatalf("GetNextQuestions: %v", err)
	}
	if !res.EntryMet {
		t.Fatal("flow without entry rules should always admit")
	}
	if got := questionIDs(res.Questions); len(got) != 2 {
		t.Fatalf("expected 2 visible questions, got %v", got)
	}
	if res.Progress != 0 {
		t.Fatalf("expected 0%% progress, got %d", res.Progress)
	}

	// Answering family composition with children reveals children_ages.
	answers := questionnaire.FormData{
		questionnaire.AnswerFamilyComposition: []string{"spouse", "children"},
	}
	res, err = e.GetNextQuestions(ctx, "relocation_intake", answers, nil, nil)
	if err != nil {
		t.Fatalf("GetNextQuestions: %v", err)
	}
	ids := questionIDs(res.Questions)
	if len(ids) != 3 {
		t.Fatalf("expected 3 visible questions, got %v", ids)
	}
	// Adaptive ordering puts unanswered questions first.
	if ids[len(ids)-1] != questionnaire.AnswerFamilyComposition {
		t.Fatalf("answered question should sort last, got order %v", ids)
	}
	for _, q := range res.Questions {
		if q.ID == "children_ages" && q.Required {
			t.Fatal("children_ages should stay non-required when revealed")
		}
	}
	if res.Progress != 33 {
		t.Fatalf("expected 33%% progress, got %d", res.Progress)
	}
	if res.Completed {
		t.Fatal("flow should not read complete at 33%")
	}
}

func TestGetNextQuestionsAttachesSuggestions(t *testing.T) {
	t.Parallel()

	recorder := &analytics.Recorder{}
	e := newTestEngine(t, WithAnalytics(recorder))

	answers := questionnaire.FormData{
		questionnaire.AnswerFamilyComposition:  []string{"spouse"},
		questionnaire.AnswerTimelinePreference: "asap",
	}
	res, err := e.GetNextQuestions(context.Background(), "relocation_intake", answers, nil, &questionnaire.SessionMeta{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetNextQuestions: %v", err)
	}
	if len(res.Suggestions) == 0 {
		t.Fatal("aggressive timeline should produce a suggestion")
	}
	if len(recorder.Shown) != len(res.Suggestions) {
		t.Fatalf("expected %d shown events, got %d", len(res.Suggestions), len(recorder.Shown))
	}
}

func TestGetNextQuestionsEntryRules(t *testing.T) {
	t.Parallel()

	reg := flows.NewRegistry()
	flow := testFlow()
	flow.ID = "gated"
	flow.Rules.Entry = []string{"profile.profession != null"}
	reg.MustRegister(flow)
	e := New(WithFlowRegistry(reg))

	res, err := e.GetNextQuestions(context.Background(), "gated", questionnaire.FormData{}, nil, nil)
	if err != nil {
		t.Fatalf("GetNextQuestions: %v", err)
	}
	if res.EntryMet || len(res.Questions) != 0 {
		t.Fatalf("entry rules unmet should yield no questions, got %+v", res)
	}

	profile := &questionnaire.UserProfile{Profession: "doctor"}
	res, err = e.GetNextQuestions(context.Background(), "gated", questionnaire.FormData{}, profile, nil)
	if err != nil {
		t.Fatalf("GetNextQuestions: %v", err)
	}
	if !res.EntryMet {
		t.Fatal("entry rules met should admit the session")
	}
}

func TestValidateAnswerUnknownIDs(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.ValidateAnswer(ctx, "no_such_flow", "children_ages", "x", questionnaire.FormData{}, nil, nil)
	if !errors.Is(err, qerrors.ErrFlowNotFound) {
		t.Fatalf("expected ErrFlowNotFound, got %v", err)
	}

	_, err = e.ValidateAnswer(ctx, "relocation_intake", "no_such_question", "x", questionnaire.FormData{}, nil, nil)
	if !errors.Is(err, qerrors.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestValidateAnswerStructuralTier(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	results, err := e.ValidateAnswer(context.Background(), "relocation_intake",
		questionnaire.AnswerTimelinePreference, "next_century", questionnaire.FormData{}, nil, nil)
	if err != nil {
		t.Fatalf("ValidateAnswer: %v", err)
	}
	if len(results) != 1 || results[0].Valid {
		t.Fatalf("out-of-enum select value should fail structurally, got %+v", results)
	}
	if results[0].Severity != validation.SeverityError {
		t.Fatalf("structural failures carry error severity, got %s", results[0].Severity)
	}
}

func TestValidateAnswerFastMatchesFullPathOnCheapRules(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	fast, err := e.ValidateAnswerFast("relocation_intake",
		questionnaire.AnswerTimelinePreference, "asap", questionnaire.FormData{}, nil)
	if err != nil {
		t.Fatalf("ValidateAnswerFast: %v", err)
	}
	if len(fast) == 0 || !fast[0].Valid {
		t.Fatalf("valid select value should pass the fast path, got %+v", fast)
	}
}

func TestReportSuggestionClick(t *testing.T) {
	t.Parallel()

	recorder := &analytics.Recorder{}
	e := newTestEngine(t, WithAnalytics(recorder))

	e.ReportSuggestionClick(context.Background(), "u1", "sug-1", "navigate")
	if len(recorder.Clicked) != 1 || recorder.Clicked[0].ActionTaken != "navigate" {
		t.Fatalf("click event missing, got %+v", recorder.Clicked)
	}
}

func questionIDs(questions []questionnaire.Question) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.ID)
	}
	return out
}
