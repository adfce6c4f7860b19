package questionnaire

import "strings"

// FormData maps question ids to answer values. It is the single source of
// truth for answer state; the engine reads it but never mutates it.
type FormData map[string]any

// Answered reports whether id carries a non-empty answer.
func (d FormData) Answered(id string) bool {
	value, ok := d[id]
	if !ok {
		return false
	}
	return !IsEmptyValue(value)
}

// Clone returns a shallow copy of the answer map.
func (d FormData) Clone() FormData {
	if d == nil {
		return nil
	}
	out := make(FormData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// StringValue returns the answer for id coerced to a string, or "".
func (d FormData) StringValue(id string) string {
	value, ok := d[id]
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// StringsValue returns the answer for id as a string slice. Both []string and
// []any (the shape JSON decoding produces) are supported.
func (d FormData) StringsValue(id string) []string {
	switch v := d[id].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// IsEmptyValue reports whether value counts as an unanswered question:
// nil, blank string, or an empty slice.
func IsEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}
