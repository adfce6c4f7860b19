// Package questflow is an adaptive rule-driven questionnaire and validation
// engine: flow registries, condition-gated question selection, profile
// personalization, layered answer validation and ranked contextual
// suggestions. The root package re-exports the common types so most callers
// only import questflow.
package questflow

import (
	"github.com/goliatone/go-questflow/pkg/engine"
	"github.com/goliatone/go-questflow/pkg/questionnaire"
	"github.com/goliatone/go-questflow/pkg/suggest"
	"github.com/goliatone/go-questflow/pkg/validation"
)

// Engine is the stateless orchestrator composing the registries, selector,
// validation engine and suggestion engine.
type Engine = engine.Engine

// Option configures an Engine.
type Option = engine.Option

// NextQuestions is the response shape of Engine.GetNextQuestions.
type NextQuestions = engine.NextQuestions

// Flow is a questionnaire flow definition.
type Flow = questionnaire.Flow

// Question models one questionnaire input.
type Question = questionnaire.Question

// FormData maps question ids to the caller-owned answer values.
type FormData = questionnaire.FormData

// UserProfile is the applicant profile supplied by the caller.
type UserProfile = questionnaire.UserProfile

// SessionMeta carries per-session engagement signals.
type SessionMeta = questionnaire.SessionMeta

// ValidationResult is one validation outcome for an answer.
type ValidationResult = validation.Result

// Suggestion is one ranked contextual suggestion.
type Suggestion = suggest.Suggestion

// New builds an Engine. See pkg/engine for the available options.
func New(opts ...Option) *Engine {
	return engine.New(opts...)
}

// Re-exported engine options, so simple callers never import pkg/engine.
var (
	WithFlowRegistry     = engine.WithFlowRegistry
	WithValidationEngine = engine.WithValidationEngine
	WithSuggestionEngine = engine.WithSuggestionEngine
	WithEvaluator        = engine.WithEvaluator
	WithAnalytics        = engine.WithAnalytics
	WithLogger           = engine.WithLogger
)
