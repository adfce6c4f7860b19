package validation

import (
	"fmt"
	"strings"
)

// renderTemplate substitutes every `{key}` token with the corresponding entry
// in data. Unknown tokens are left in place so missing data is visible in
// logs instead of silently blanked.
func renderTemplate(template string, data map[string]any) string {
	if template == "" || len(data) == 0 {
		return template
	}
	out := template
	for key, value := range data {
		out = strings.ReplaceAll(out, "{"+key+"}", fmt.Sprint(value))
	}
	return out
}

// templateData builds the substitution dictionary for a rule evaluation:
// the answers, the flattened profile and any rule-specific extras. Extras win
// on key conflicts.
func templateData(answers map[string]any, profile map[string]any, extras map[string]any) map[string]any {
	out := make(map[string]any, len(answers)+len(profile)+len(extras))
	for k, v := range profile {
		out[k] = v
	}
	for k, v := range answers {
		out[k] = v
	}
	for k, v := range extras {
		out[k] = v
	}
	return out
}
