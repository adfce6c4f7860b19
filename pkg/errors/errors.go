// Package errors defines the engine's error taxonomy. Configuration problems
// (unknown ids, dangling references) surface as explicit typed errors;
// evaluation failures are recovered locally by the condition guard; structural
// validation failures are results, never errors; a single misbehaving rule is
// isolated by the validation engine. Persistence failures from an external
// store pass through unchanged.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinel values callers can branch on with errors.Is.
var (
	ErrFlowNotFound     = stderrors.New("flow not found")
	ErrQuestionNotFound = stderrors.New("question not found")
	ErrRuleNotFound     = stderrors.New("rule not found")
	ErrDuplicateID      = stderrors.New("duplicate id")
	ErrDanglingRef      = stderrors.New("dangling question reference")
)

// ConfigurationError reports an unknown or invalid identifier referenced
// directly by a caller or a registered document. It is never silently
// defaulted away.
type ConfigurationError struct {
	Kind string // "flow", "question", "validation rule", "suggestion rule"
	ID   string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("questflow: invalid %s %q", e.Kind, e.ID)
	}
	return fmt.Sprintf("questflow: %s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfiguration wraps err with the offending kind and id.
func NewConfiguration(kind, id string, err error) *ConfigurationError {
	return &ConfigurationError{Kind: kind, ID: id, Err: err}
}

// IsConfiguration reports whether err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return stderrors.As(err, &target)
}

// EvaluationError reports a condition expression that failed to parse or
// evaluate. Components recover from it by treating the condition as false;
// it never reaches the engine's public surface.
type EvaluationError struct {
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("questflow: evaluate %q: %v", e.Expression, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// RuleExecutionError reports a validation or suggestion rule that panicked or
// errored mid-evaluation. The engine isolates it to a single synthesized
// result; the batch continues.
type RuleExecutionError struct {
	RuleID string
	Err    error
}

func (e *RuleExecutionError) Error() string {
	return fmt.Sprintf("questflow: rule %q: %v", e.RuleID, e.Err)
}

func (e *RuleExecutionError) Unwrap() error { return e.Err }

// PersistenceError wraps a failure from the external answer/flow store. The
// engine propagates it verbatim so callers never lose an answer silently.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("questflow: store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
