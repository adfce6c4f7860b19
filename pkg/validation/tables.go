package validation

import "strings"

// Profile-derived reference tables used by conditional and cross_field
// dispatch. Rule documents can override any table through Logic.Parameters;
// these are the product defaults.

// minExperienceByProfession is the minimum plausible years of professional
// experience for visa purposes, keyed by profession.
var minExperienceByProfession = map[string]float64{
	"software_engineer": 2,
	"engineer":          2,
	"doctor":            6,
	"nurse":             3,
	"teacher":           2,
	"lawyer":            4,
	"accountant":        2,
}

// maxExperienceByAgeRange caps plausible experience by age bracket.
var maxExperienceByAgeRange = map[string]float64{
	"18-25": 8,
	"26-35": 17,
	"36-45": 27,
	"46-55": 37,
	"56+":   45,
}

// minBudgetByScenario maps a family-size × timeline scenario key to the
// minimum viable relocation budget in USD.
var minBudgetByScenario = map[string]float64{
	"single_asap":    35000,
	"single_6months": 30000,
	"single_1year":   25000,
	"single_2years":  20000,
	"family_asap":    70000,
	"family_6months": 60000,
	"family_1year":   50000,
	"family_2years":  40000,
}

// budgetBracketValues maps budget_range answers to their representative
// dollar amount.
var budgetBracketValues = map[string]float64{
	"under_30k": 20000,
	"under_50k": 40000,
	"50k_100k":  75000,
	"100k_200k": 150000,
	"over_200k": 250000,
}

// numberTable reads a map[string]float64 parameter override, falling back to
// the default table. YAML/JSON decoding produces map[string]any, so values
// are coerced.
func numberTable(params map[string]any, key string, fallback map[string]float64) map[string]float64 {
	raw, ok := params[key]
	if !ok {
		return fallback
	}
	switch typed := raw.(type) {
	case map[string]float64:
		return typed
	case map[string]any:
		out := make(map[string]float64, len(typed))
		for k, v := range typed {
			if f, ok := toFloat(v); ok {
				out[k] = f
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

func numberParam(params map[string]any, key string, fallback float64) float64 {
	if raw, ok := params[key]; ok {
		if f, ok := toFloat(raw); ok {
			return f
		}
	}
	return fallback
}

func stringParam(params map[string]any, key, fallback string) string {
	if raw, ok := params[key]; ok {
		if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return fallback
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
