// Package condition defines the evaluator contract used for every boolean
// decision in the engine: question visibility, skip logic, option and hint
// gating, rule applicability and suggestion triggers.
package condition

// Context provides the variables an expression can read. Bare identifiers
// resolve against Answers first, then Profile; the `profile.` prefix forces
// profile lookup and `extras.` reads caller-injected context.
type Context struct {
	Answers map[string]any
	Profile map[string]any
	Extras  map[string]any
}

// Evaluator evaluates a restricted boolean expression against a context.
type Evaluator interface {
	Evaluate(expression string, ctx Context) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(expression string, ctx Context) (bool, error)

// Evaluate delegates to the underlying function.
func (fn EvaluatorFunc) Evaluate(expression string, ctx Context) (bool, error) {
	return fn(expression, ctx)
}
