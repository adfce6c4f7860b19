// Package flows stores questionnaire flow definitions. The registry is an
// explicit instance rather than package state so isolated engines (tests,
// multi-tenant deployments) never share flows.
package flows

import (
	stderrors "errors"
	"fmt"
	"sort"
	"sync"

	qerrors "github.com/goliatone/go-questflow/pkg/errors"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// Registry stores flows by id, guarding reads during evaluation against
// concurrent register/update/remove calls.
type Registry struct {
	mu    sync.RWMutex
	flows map[string]questionnaire.Flow
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{flows: make(map[string]questionnaire.Flow)}
}

// Register validates and adds a flow. Duplicate ids, duplicate question ids
// and dangling skip-logic/branching/dependency references are rejected with a
// ConfigurationError.
func (r *Registry) Register(flow questionnaire.Flow) error {
	if flow.ID == "" {
		return qerrors.NewConfiguration("flow", "", stderrors.New("flow id is required"))
	}
	if err := Validate(flow); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.flows[flow.ID]; exists {
		return qerrors.NewConfiguration("flow", flow.ID, qerrors.ErrDuplicateID)
	}
	r.flows[flow.ID] = flow
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(flow questionnaire.Flow) {
	if err := r.Register(flow); err != nil {
		panic(err)
	}
}

// Get retrieves a flow by id. Unknown ids return a ConfigurationError
// wrapping ErrFlowNotFound, never an empty flow.
func (r *Registry) Get(id string) (questionnaire.Flow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	flow, ok := r.flows[id]
	if !ok {
		return questionnaire.Flow{}, qerrors.NewConfiguration("flow", id, qerrors.ErrFlowNotFound)
	}
	return flow, nil
}

// List returns the registered flow ids sorted lexically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.flows))
	for id := range r.flows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Update replaces the stored flow after revalidating it. The flow must
// already exist and the id cannot change.
func (r *Registry) Update(id string, flow questionnaire.Flow) error {
	if flow.ID != id {
		return qerrors.NewConfiguration("flow", id, fmt.Errorf("id mismatch: document says %q", flow.ID))
	}
	if err := Validate(flow); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.flows[id]; !exists {
		return qerrors.NewConfiguration("flow", id, qerrors.ErrFlowNotFound)
	}
	r.flows[id] = flow
	return nil
}

// Remove deletes a flow. Removing an unknown id is an error so callers learn
// about stale references.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.flows[id]; !exists {
		return qerrors.NewConfiguration("flow", id, qerrors.ErrFlowNotFound)
	}
	delete(r.flows, id)
	return nil
}

// Validate checks a flow document's internal consistency: unique question ids
// and skip-logic/branching/conditional references that resolve to real
// questions.
func Validate(flow questionnaire.Flow) error {
	ids := make(map[string]struct{}, len(flow.Questions))
	for _, q := range flow.Questions {
		if q.ID == "" {
			return qerrors.NewConfiguration("flow", flow.ID, stderrors.New("question with empty id"))
		}
		if _, dup := ids[q.ID]; dup {
			return qerrors.NewConfiguration("flow", flow.ID,
				fmt.Errorf("question %q: %w", q.ID, qerrors.ErrDuplicateID))
		}
		ids[q.ID] = struct{}{}
	}

	known := func(id string) bool {
		_, ok := ids[id]
		return ok
	}

	for id := range flow.Rules.SkipLogic {
		if !known(id) {
			return qerrors.NewConfiguration("flow", flow.ID,
				fmt.Errorf("skip logic %q: %w", id, qerrors.ErrDanglingRef))
		}
	}
	for from, targets := range flow.Rules.Branching {
		if !known(from) {
			return qerrors.NewConfiguration("flow", flow.ID,
				fmt.Errorf("branching source %q: %w", from, qerrors.ErrDanglingRef))
		}
		for _, target := range targets {
			if !known(target) {
				return qerrors.NewConfiguration("flow", flow.ID,
					fmt.Errorf("branching %q -> %q: %w", from, target, qerrors.ErrDanglingRef))
			}
		}
	}
	for _, q := range flow.Questions {
		if q.Conditional == nil {
			continue
		}
		for _, dep := range q.Conditional.DependsOn {
			if !known(dep) {
				return qerrors.NewConfiguration("flow", flow.ID,
					fmt.Errorf("question %q depends on %q: %w", q.ID, dep, qerrors.ErrDanglingRef))
			}
		}
	}
	return nil
}
