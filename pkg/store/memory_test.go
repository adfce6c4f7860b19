package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	qerrors "github.com/goliatone/go-questflow/pkg/errors"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

func TestMemoryRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	ctx := context.Background()

	answers := questionnaire.FormData{"motivation": "career", "experience_years": 4}
	if err := s.Save(ctx, "user-1", "flow-1", answers); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(ctx, "user-1", "flow-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(answers, loaded); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	// Snapshots are isolated from caller mutation.
	answers["motivation"] = "education"
	reloaded, err := s.Load(ctx, "user-1", "flow-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reloaded.StringValue("motivation"); got != "career" {
		t.Fatalf("stored snapshot changed with caller's map, got %q", got)
	}
}

func TestMemoryLoadUnknownSessionIsEmpty(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	loaded, err := s.Load(context.Background(), "nobody", "flow-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty snapshot, got %v", loaded)
	}
}

func TestMemoryDelete(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	ctx := context.Background()

	if err := s.Save(ctx, "user-1", "flow-1", questionnaire.FormData{"a": 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "user-1", "flow-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	loaded, err := s.Load(ctx, "user-1", "flow-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected snapshot gone, got %v", loaded)
	}
	if err := s.Delete(ctx, "user-1", "flow-1"); err != nil {
		t.Fatalf("Delete of missing snapshot should be a no-op, got %v", err)
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	if WrapError("save", "user-1/flow-1", nil) != nil {
		t.Fatal("nil backend error should stay nil")
	}

	cause := errors.New("connection reset")
	err := WrapError("save", "user-1/flow-1", cause)

	var perr *qerrors.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %T", err)
	}
	if perr.Op != "save" || !errors.Is(err, cause) {
		t.Fatalf("wrapped error lost detail: %+v", perr)
	}
}
