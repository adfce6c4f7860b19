// Package store defines the answer persistence boundary. The engine itself
// is stateless; callers load a FormData snapshot, mutate it, and save it back
// through an AnswerStore keyed by (user, flow). Store failures surface as
// PersistenceError so an answer the caller asked to persist is never silently
// dropped.
package store

import (
	"context"

	qerrors "github.com/goliatone/go-questflow/pkg/errors"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// AnswerStore loads and saves answer snapshots for a session.
type AnswerStore interface {
	// Load returns the stored snapshot, or an empty FormData when the
	// session has none yet.
	Load(ctx context.Context, userID, flowID string) (questionnaire.FormData, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, userID, flowID string, answers questionnaire.FormData) error
	// Delete removes the snapshot, freeing the session.
	Delete(ctx context.Context, userID, flowID string) error
}

// WrapError converts a backend failure into the engine's persistence
// taxonomy. Store implementations backed by real I/O should wrap every
// failure with it so callers can match on PersistenceError.
func WrapError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &qerrors.PersistenceError{Op: op, Key: key, Err: err}
}
