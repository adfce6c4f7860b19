package expr

import (
	"testing"

	"github.com/goliatone/go-questflow/pkg/condition"
)

func TestEvaluateComparisons(t *testing.T) {
	t.Parallel()

	eval := New()
	ctx := condition.Context{
		Answers: map[string]any{
			"timeline_preference": "6months",
			"experience_years":    7,
			"confirmed":           true,
		},
	}

	cases := []struct {
		expr string
		want bool
	}{
		{`timeline_preference == "6months"`, true},
		{`timeline_preference != "1year"`, true},
		{`timeline_preference == '6months'`, true},
		{`experience_years > 5`, true},
		{`experience_years >= 7`, true},
		{`experience_years < 7`, false},
		{`experience_years <= 6`, false},
		{`confirmed == true`, true},
		{`missing == null`, true},
		{`missing != null`, false},
	}

	for _, tc := range cases {
		got, err := eval.Evaluate(tc.expr, ctx)
		if err != nil {
			t.Fatalf("Evaluate(%q) returned error: %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("Evaluate(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluateIncludes(t *testing.T) {
	t.Parallel()

	eval := New()
	ctx := condition.Context{
		Answers: map[string]any{
			"family_composition": []string{"spouse", "children"},
			"scores":             []any{1.0, 2.0},
		},
	}

	got, err := eval.Evaluate(`family_composition.includes("children")`, ctx)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !got {
		t.Fatal("expected membership to hold")
	}

	got, err = eval.Evaluate(`family_composition.includes("parents")`, ctx)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if got {
		t.Fatal("expected membership to fail")
	}

	got, err = eval.Evaluate(`scores.includes(2)`, ctx)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !got {
		t.Fatal("expected numeric membership to hold")
	}
}

func TestEvaluateComposition(t *testing.T) {
	t.Parallel()

	eval := New()
	ctx := condition.Context{
		Answers: map[string]any{"a": true, "b": false, "n": 3},
	}

	cases := []struct {
		expr string
		want bool
	}{
		{`a && !b`, true},
		{`a && b`, false},
		{`b || a`, true},
		{`(a || b) && n > 2`, true},
		{`!(a && b)`, true},
	}

	for _, tc := range cases {
		got, err := eval.Evaluate(tc.expr, ctx)
		if err != nil {
			t.Fatalf("Evaluate(%q) returned error: %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("Evaluate(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluateProfilePrecedence(t *testing.T) {
	t.Parallel()

	eval := New()
	ctx := condition.Context{
		Answers: map[string]any{"profession": "student"},
		Profile: map[string]any{"profession": "software_engineer", "country": "br"},
	}

	got, err := eval.Evaluate(`profession == "student"`, ctx)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !got {
		t.Fatal("bare identifier should read answers first")
	}

	got, err = eval.Evaluate(`profile.profession == "software_engineer"`, ctx)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !got {
		t.Fatal("profile prefix should force profile lookup")
	}
}

func TestEvaluateNestedAndBracketPaths(t *testing.T) {
	t.Parallel()

	eval := New()
	ctx := condition.Context{
		Answers: map[string]any{
			"address":  map[string]any{"city": "lisbon"},
			"visits":   []any{map[string]any{"country": "pt"}},
			"flat.key": "value",
		},
	}

	cases := []struct {
		expr string
		want bool
	}{
		{`address.city == "lisbon"`, true},
		{`visits[0].country == "pt"`, true},
		{`flat.key == "value"`, true},
		{`address.missing == null`, true},
	}

	for _, tc := range cases {
		got, err := eval.Evaluate(tc.expr, ctx)
		if err != nil {
			t.Fatalf("Evaluate(%q) returned error: %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("Evaluate(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluateMalformedExpressions(t *testing.T) {
	t.Parallel()

	eval := New()
	ctx := condition.Context{Answers: map[string]any{"a": 1}}

	for _, expr := range []string{
		`a =`,
		`a == `,
		`a &&`,
		`(a == 1`,
		`a == "unterminated`,
		`& a`,
		`a.includes(`,
	} {
		got, err := eval.Evaluate(expr, ctx)
		if err == nil {
			t.Fatalf("Evaluate(%q) expected error", expr)
		}
		if got {
			t.Fatalf("Evaluate(%q) must report false on failure", expr)
		}
	}
}

func TestEvaluateEmptyExpressionIsTrue(t *testing.T) {
	t.Parallel()

	got, err := New().Evaluate("   ", condition.Context{})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !got {
		t.Fatal("empty expressions are vacuously true")
	}
}
