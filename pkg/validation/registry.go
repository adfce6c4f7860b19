package validation

import (
	stderrors "errors"
	"sort"
	"sync"

	qerrors "github.com/goliatone/go-questflow/pkg/errors"
)

// Registry stores validation rule documents. Like the flow registry it is an
// explicit instance: evaluation reads under RLock, mutation goes through
// Register/Update/Remove.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule document.
func (r *Registry) Register(rule Rule) error {
	if rule.ID == "" {
		return qerrors.NewConfiguration("validation rule", "", stderrors.New("rule id is required"))
	}
	if rule.Logic.Type == "" {
		return qerrors.NewConfiguration("validation rule", rule.ID, stderrors.New("logic type is required"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.ID]; exists {
		return qerrors.NewConfiguration("validation rule", rule.ID, qerrors.ErrDuplicateID)
	}
	r.rules[rule.ID] = rule
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// Update replaces an existing rule.
func (r *Registry) Update(id string, rule Rule) error {
	if rule.ID != id {
		return qerrors.NewConfiguration("validation rule", id, stderrors.New("id mismatch"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[id]; !exists {
		return qerrors.NewConfiguration("validation rule", id, qerrors.ErrRuleNotFound)
	}
	r.rules[id] = rule
	return nil
}

// Remove deletes a rule.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[id]; !exists {
		return qerrors.NewConfiguration("validation rule", id, qerrors.ErrRuleNotFound)
	}
	delete(r.rules, id)
	return nil
}

// List returns all rules ordered by id for deterministic evaluation.
func (r *Registry) List() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}
