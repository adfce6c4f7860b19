package condition

import (
	"errors"
	"log/slog"
	"testing"
)

func TestGuardRecoversEvaluationFailures(t *testing.T) {
	t.Parallel()

	failing := EvaluatorFunc(func(string, Context) (bool, error) {
		return true, errors.New("boom")
	})

	guard := NewGuard(failing, slog.Default())
	if guard.Evaluate("whatever", Context{}) {
		t.Fatal("failed evaluations must read as false")
	}
}

func TestGuardPassesThroughResults(t *testing.T) {
	t.Parallel()

	guard := NewGuard(EvaluatorFunc(func(expr string, _ Context) (bool, error) {
		return expr == "yes", nil
	}), nil)

	if !guard.Evaluate("yes", Context{}) {
		t.Fatal("expected true")
	}
	if guard.Evaluate("no", Context{}) {
		t.Fatal("expected false")
	}
}
