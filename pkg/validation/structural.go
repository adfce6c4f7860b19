package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// Structural runs the definition-derived checks for a question: required
// emptiness, numeric bounds, length bounds, regex pattern, option membership
// and the custom predicate. The first failing check wins; an empty optional
// answer passes without further checks.
func Structural(q questionnaire.Question, value any, answers questionnaire.FormData) Result {
	if questionnaire.IsEmptyValue(value) {
		if q.Required {
			return invalid(fmt.Sprintf("%s is required", labelFor(q)))
		}
		return structuralOK()
	}

	switch q.Type {
	case questionnaire.QuestionTypeNumber, questionnaire.QuestionTypeScale:
		if res, ok := checkNumeric(q, value); !ok {
			return res
		}
	case questionnaire.QuestionTypeText:
		if res, ok := checkText(q, value); !ok {
			return res
		}
	case questionnaire.QuestionTypeSelect:
		if res, ok := checkSelect(q, value); !ok {
			return res
		}
	case questionnaire.QuestionTypeMultiSelect:
		if res, ok := checkMultiSelect(q, value); !ok {
			return res
		}
	}

	if q.Validation != nil && q.Validation.Custom != nil {
		if msg := q.Validation.Custom(value, answers); msg != "" {
			return invalid(msg)
		}
	}
	return structuralOK()
}

func checkNumeric(q questionnaire.Question, value any) (Result, bool) {
	number, ok := parseNumber(value)
	if !ok {
		return invalid(fmt.Sprintf("%s must be a number", labelFor(q))), false
	}
	if spec := q.Validation; spec != nil {
		if spec.Min != nil && number < *spec.Min {
			return invalid(fmt.Sprintf("%s must be at least %v", labelFor(q), *spec.Min)), false
		}
		if spec.Max != nil && number > *spec.Max {
			return invalid(fmt.Sprintf("%s must be at most %v", labelFor(q), *spec.Max)), false
		}
	}
	return Result{}, true
}

func checkText(q questionnaire.Question, value any) (Result, bool) {
	text, ok := value.(string)
	if !ok {
		return invalid(fmt.Sprintf("%s must be text", labelFor(q))), false
	}
	spec := q.Validation
	if spec == nil {
		return Result{}, true
	}
	if spec.MinLength != nil && len(text) < *spec.MinLength {
		return invalid(fmt.Sprintf("%s must be at least %d characters", labelFor(q), *spec.MinLength)), false
	}
	if spec.MaxLength != nil && len(text) > *spec.MaxLength {
		return invalid(fmt.Sprintf("%s must be at most %d characters", labelFor(q), *spec.MaxLength)), false
	}
	if spec.Pattern != "" {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return invalid(fmt.Sprintf("%s has an invalid validation pattern", labelFor(q))), false
		}
		if !re.MatchString(text) {
			return invalid(fmt.Sprintf("%s has an invalid format", labelFor(q))), false
		}
	}
	return Result{}, true
}

func checkSelect(q questionnaire.Question, value any) (Result, bool) {
	if len(q.Options) == 0 {
		return Result{}, true
	}
	selected := coerceAnswerString(value)
	for _, allowed := range q.OptionValues() {
		if selected == allowed {
			return Result{}, true
		}
	}
	return invalid(fmt.Sprintf("%q is not a valid choice for %s", selected, labelFor(q))), false
}

func checkMultiSelect(q questionnaire.Question, value any) (Result, bool) {
	if len(q.Options) == 0 {
		return Result{}, true
	}
	allowed := make(map[string]struct{}, len(q.Options))
	for _, v := range q.OptionValues() {
		allowed[v] = struct{}{}
	}

	var selected []string
	switch v := value.(type) {
	case []string:
		selected = v
	case []any:
		for _, item := range v {
			selected = append(selected, coerceAnswerString(item))
		}
	default:
		return invalid(fmt.Sprintf("%s must be a list of choices", labelFor(q))), false
	}

	var rejected []string
	for _, item := range selected {
		if _, ok := allowed[item]; !ok {
			rejected = append(rejected, item)
		}
	}
	if len(rejected) > 0 {
		return invalid(fmt.Sprintf("invalid choices for %s: %s", labelFor(q), strings.Join(rejected, ", "))), false
	}
	return Result{}, true
}

func parseNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceAnswerString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func labelFor(q questionnaire.Question) string {
	if q.Text != "" {
		return q.Text
	}
	return q.ID
}

func invalid(message string) Result {
	return Result{
		Valid:      false,
		Severity:   SeverityError,
		Message:    message,
		Confidence: 1,
	}
}

func structuralOK() Result {
	return Result{Valid: true, Severity: SeveritySuccess, Confidence: 1}
}
