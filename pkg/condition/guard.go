package condition

import "log/slog"

// Guard wraps an Evaluator with the engine's recovery contract: any
// evaluation failure is logged and treated as false, never surfaced. Every
// component that consumes conditions goes through a Guard so a malformed
// expression in one document cannot abort a request.
type Guard struct {
	inner  Evaluator
	logger *slog.Logger
}

// NewGuard wraps eval. A nil logger falls back to slog.Default().
func NewGuard(eval Evaluator, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{inner: eval, logger: logger}
}

// Evaluate returns the expression's value, or false when evaluation fails.
// Empty expressions are vacuously true.
func (g *Guard) Evaluate(expression string, ctx Context) bool {
	ok, err := g.inner.Evaluate(expression, ctx)
	if err != nil {
		g.logger.Error("condition evaluation failed", "expression", expression, "error", err)
		return false
	}
	return ok
}
