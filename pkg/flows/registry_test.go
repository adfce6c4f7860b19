package flows

import (
	"errors"
	"testing"

	qerrors "github.com/goliatone/go-questflow/pkg/errors"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

func validFlow() questionnaire.Flow {
	return questionnaire.Flow{
		ID: "immigration_intake",
		Questions: []questionnaire.Question{
			{ID: "family_composition", Type: questionnaire.QuestionTypeMultiSelect},
			{ID: "children_ages", Type: questionnaire.QuestionTypeText,
				Conditional: &questionnaire.ConditionalRule{
					Expression: `family_composition.includes("children")`,
					DependsOn:  []string{"family_composition"},
					Action:     questionnaire.ActionShow,
				}},
		},
		Rules: questionnaire.FlowRules{
			SkipLogic: map[string]string{"children_ages": `family_composition == null`},
			Branching: map[string][]string{"family_composition": {"children_ages"}},
		},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if err := reg.Register(validFlow()); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	flow, err := reg.Get("immigration_intake")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(flow.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(flow.Questions))
	}
}

func TestRegistryGetUnknownFlow(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().Get("missing")
	if err == nil {
		t.Fatal("expected error for unknown flow")
	}
	if !qerrors.IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError, got %T", err)
	}
	if !errors.Is(err, qerrors.ErrFlowNotFound) {
		t.Fatalf("expected ErrFlowNotFound, got %v", err)
	}
}

func TestRegistryRejectsDanglingSkipLogic(t *testing.T) {
	t.Parallel()

	flow := validFlow()
	flow.Rules.SkipLogic["ghost_question"] = "true"

	err := NewRegistry().Register(flow)
	if !errors.Is(err, qerrors.ErrDanglingRef) {
		t.Fatalf("expected ErrDanglingRef, got %v", err)
	}
}

func TestRegistryRejectsDanglingBranchTarget(t *testing.T) {
	t.Parallel()

	flow := validFlow()
	flow.Rules.Branching["family_composition"] = append(
		flow.Rules.Branching["family_composition"], "nowhere")

	err := NewRegistry().Register(flow)
	if !errors.Is(err, qerrors.ErrDanglingRef) {
		t.Fatalf("expected ErrDanglingRef, got %v", err)
	}
}

func TestRegistryRejectsDuplicateQuestionIDs(t *testing.T) {
	t.Parallel()

	flow := validFlow()
	flow.Questions = append(flow.Questions, questionnaire.Question{ID: "children_ages"})

	err := NewRegistry().Register(flow)
	if !errors.Is(err, qerrors.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestRegistryUpdateRevalidates(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if err := reg.Register(validFlow()); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	broken := validFlow()
	broken.Rules.SkipLogic["ghost"] = "true"
	if err := reg.Update("immigration_intake", broken); !errors.Is(err, qerrors.ErrDanglingRef) {
		t.Fatalf("expected ErrDanglingRef, got %v", err)
	}

	updated := validFlow()
	updated.Title = "Intake v2"
	if err := reg.Update("immigration_intake", updated); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	flow, err := reg.Get("immigration_intake")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if flow.Title != "Intake v2" {
		t.Fatalf("update not applied, title = %q", flow.Title)
	}
}

func TestRegistryRemove(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(validFlow())

	if err := reg.Remove("immigration_intake"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if err := reg.Remove("immigration_intake"); !errors.Is(err, qerrors.ErrFlowNotFound) {
		t.Fatalf("expected ErrFlowNotFound, got %v", err)
	}
	if got := len(reg.List()); got != 0 {
		t.Fatalf("expected empty registry, got %d flows", got)
	}
}
