package store

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// Memory is an in-process AnswerStore. Snapshots are copied on both load and
// save so callers and the store never share a mutable map.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]questionnaire.FormData
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{snapshots: make(map[string]questionnaire.FormData)}
}

func key(userID, flowID string) string { return userID + "\x00" + flowID }

// Load returns a copy of the stored snapshot, or an empty FormData when none
// exists.
func (m *Memory) Load(_ context.Context, userID, flowID string) (questionnaire.FormData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.snapshots[key(userID, flowID)]
	if !ok {
		return questionnaire.FormData{}, nil
	}
	out := make(questionnaire.FormData, len(stored))
	maps.Copy(out, stored)
	return out, nil
}

// Save replaces the stored snapshot with a copy of answers.
func (m *Memory) Save(_ context.Context, userID, flowID string, answers questionnaire.FormData) error {
	snapshot := make(questionnaire.FormData, len(answers))
	maps.Copy(snapshot, answers)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key(userID, flowID)] = snapshot
	return nil
}

// Delete removes the snapshot. Deleting a missing snapshot is a no-op.
func (m *Memory) Delete(_ context.Context, userID, flowID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, key(userID, flowID))
	return nil
}
