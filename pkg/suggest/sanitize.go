package suggest

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all markup. Suggestion titles and content interpolate
// answer values supplied by end users, so they are sanitized before leaving
// the engine.
var strictPolicy = bluemonday.StrictPolicy()

func sanitize(s string) string {
	// StrictPolicy entity-escapes what it keeps; unescape so plain text
	// with ampersands or quotes round-trips unchanged.
	return html.UnescapeString(strictPolicy.Sanitize(s))
}
