package validation

import (
	"context"
	"sync"

	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// Debouncer coalesces rapid validation requests for the same field. Each
// submission bumps the field's generation counter; a result only commits if
// its generation is still current when evaluation finishes, so a superseded
// in-flight evaluation is discarded rather than merged. Stale work is never
// cancelled mid-flight, just dropped at the commit gate.
type Debouncer struct {
	engine *Engine

	mu  sync.Mutex
	gen map[string]uint64
	wg  sync.WaitGroup
}

// NewDebouncer wraps engine with per-field coalescing.
func NewDebouncer(engine *Engine) *Debouncer {
	return &Debouncer{
		engine: engine,
		gen:    make(map[string]uint64),
	}
}

// Submit schedules validation of the latest value for q. commit is invoked
// with the results only if no newer submission for the same field arrived in
// the meantime. commit runs on the evaluation goroutine, serialized with the
// generation bookkeeping, so it must not call back into the Debouncer.
func (d *Debouncer) Submit(ctx context.Context, q questionnaire.Question, value any, answers questionnaire.FormData, profile *questionnaire.UserProfile, meta *questionnaire.SessionMeta, commit func([]Result)) {
	d.mu.Lock()
	d.gen[q.ID]++
	generation := d.gen[q.ID]
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		results := d.engine.Validate(ctx, q, value, answers, profile, meta)

		// The re-check and the commit share one critical section: a newer
		// submission bumps the generation under the same lock, so a stale
		// result can never land after a fresh one.
		d.mu.Lock()
		defer d.mu.Unlock()
		if generation != d.gen[q.ID] {
			return
		}
		commit(results)
	}()
}

// Wait blocks until every submitted evaluation has finished or been
// discarded. Intended for shutdown and tests.
func (d *Debouncer) Wait() {
	d.wg.Wait()
}
