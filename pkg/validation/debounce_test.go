package validation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

func TestDebouncerDiscardsStaleGenerations(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.MustRegister(Rule{
		ID:         "motivation_coherence",
		FieldTypes: []string{"motivation"},
		Logic:      Logic{Type: LogicAIAssisted},
	})

	release := make(chan struct{})
	first := true
	var mu sync.Mutex
	scorer := ScorerFunc(func(ctx context.Context, input ScoreInput) (ScoreResult, error) {
		mu.Lock()
		wasFirst := first
		first = false
		mu.Unlock()
		if wasFirst {
			// The first (stale) evaluation finishes only after the second
			// submission has bumped the generation.
			<-release
		}
		return ScoreResult{Consistency: 0.9, Realism: 0.9}, nil
	})

	engine := NewEngine(registry, WithScorer(scorer))
	debouncer := NewDebouncer(engine)
	question := questionnaire.Question{ID: "motivation", Type: questionnaire.QuestionTypeText}

	var commits []string
	var commitMu sync.Mutex
	commitFor := func(label string) func([]Result) {
		return func([]Result) {
			commitMu.Lock()
			commits = append(commits, label)
			commitMu.Unlock()
		}
	}

	debouncer.Submit(context.Background(), question, "draft one", questionnaire.FormData{}, nil, nil, commitFor("stale"))
	// Give the first goroutine time to enter the scorer before superseding it.
	time.Sleep(20 * time.Millisecond)
	debouncer.Submit(context.Background(), question, "draft two", questionnaire.FormData{}, nil, nil, commitFor("latest"))

	debouncerWaitForCommit(t, &commitMu, &commits, "latest")
	close(release)
	debouncer.Wait()

	commitMu.Lock()
	defer commitMu.Unlock()
	assert.Equal(t, []string{"latest"}, commits, "superseded evaluations must be discarded, not merged")
}

func TestDebouncerStaleCommitNeverLandsLast(t *testing.T) {
	t.Parallel()

	engine := NewEngine(NewRegistry())
	debouncer := NewDebouncer(engine)
	question := questionnaire.Question{ID: "notes", Type: questionnaire.QuestionTypeText}

	firstEntered := make(chan struct{})
	var commitMu sync.Mutex
	var commits []string

	debouncer.Submit(context.Background(), question, "old draft", questionnaire.FormData{}, nil, nil, func([]Result) {
		close(firstEntered)
		// Linger inside the commit so the next submission arrives while
		// this one is still in flight.
		time.Sleep(50 * time.Millisecond)
		commitMu.Lock()
		commits = append(commits, "old draft")
		commitMu.Unlock()
	})

	<-firstEntered
	debouncer.Submit(context.Background(), question, "new draft", questionnaire.FormData{}, nil, nil, func([]Result) {
		commitMu.Lock()
		commits = append(commits, "new draft")
		commitMu.Unlock()
	})
	debouncer.Wait()

	commitMu.Lock()
	defer commitMu.Unlock()
	if assert.NotEmpty(t, commits) {
		assert.Equal(t, "new draft", commits[len(commits)-1],
			"the final committed state must reflect the newest submission")
	}
}

func TestDebouncerIndependentFields(t *testing.T) {
	t.Parallel()

	engine := NewEngine(NewRegistry())
	debouncer := NewDebouncer(engine)

	var commitMu sync.Mutex
	var commits []string
	commitFor := func(label string) func([]Result) {
		return func([]Result) {
			commitMu.Lock()
			commits = append(commits, label)
			commitMu.Unlock()
		}
	}

	a := questionnaire.Question{ID: "field_a", Type: questionnaire.QuestionTypeText}
	b := questionnaire.Question{ID: "field_b", Type: questionnaire.QuestionTypeText}
	debouncer.Submit(context.Background(), a, "x", questionnaire.FormData{}, nil, nil, commitFor("a"))
	debouncer.Submit(context.Background(), b, "y", questionnaire.FormData{}, nil, nil, commitFor("b"))
	debouncer.Wait()

	commitMu.Lock()
	defer commitMu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b"}, commits, "different fields never coalesce")
}

func debouncerWaitForCommit(t *testing.T, mu *sync.Mutex, commits *[]string, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		for _, c := range *commits {
			if c == want {
				mu.Unlock()
				return
			}
		}
		mu.Unlock()
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %q commit", want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}
