package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-questflow/pkg/condition"
)

// lookup resolves a property path against the context. Bare paths check
// answers first and fall back to the profile; the `profile.`, `answers.` and
// `extras.` prefixes force a source.
func lookup(ctx condition.Context, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lower, "profile."):
		return lookupMap(ctx.Profile, path[len("profile."):])
	case strings.HasPrefix(lower, "answers."):
		return lookupMap(ctx.Answers, path[len("answers."):])
	case strings.HasPrefix(lower, "extras."):
		return lookupMap(ctx.Extras, path[len("extras."):])
	}

	if value, ok := lookupMap(ctx.Answers, path); ok {
		return value, true
	}
	return lookupMap(ctx.Profile, path)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || strings.TrimSpace(path) == "" {
		return nil, false
	}
	path = strings.TrimSpace(path)

	// Exact match first so flat dotted keys like "address.city" win over
	// nested traversal.
	if v, ok := values[path]; ok {
		return v, true
	}

	segments, err := splitPath(path)
	if err != nil {
		return nil, false
	}

	var current any = values
	for _, seg := range segments {
		next, ok := step(current, seg)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

type segment struct {
	key   string
	index int
	isIdx bool
}

// splitPath breaks "a.b[0].c" and `a["b c"]` into traversal segments.
func splitPath(path string) ([]segment, error) {
	var segments []segment
	i := 0
	for i < len(path) {
		switch path[i] {
		case '.':
			i++
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("unterminated bracket in %q", path)
			}
			inner := strings.TrimSpace(path[i+1 : i+end])
			i += end + 1
			if len(inner) >= 2 && (inner[0] == '"' || inner[0] == '\'') {
				segments = append(segments, segment{key: inner[1 : len(inner)-1]})
				continue
			}
			idx, err := strconv.Atoi(inner)
			if err != nil {
				return nil, fmt.Errorf("invalid index %q in %q", inner, path)
			}
			segments = append(segments, segment{index: idx, isIdx: true})
		default:
			start := i
			for i < len(path) && path[i] != '.' && path[i] != '[' {
				i++
			}
			segments = append(segments, segment{key: path[start:i]})
		}
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("empty path %q", path)
	}
	return segments, nil
}

func step(current any, seg segment) (any, bool) {
	if seg.isIdx {
		switch typed := current.(type) {
		case []any:
			if seg.index < 0 || seg.index >= len(typed) {
				return nil, false
			}
			return typed[seg.index], true
		case []string:
			if seg.index < 0 || seg.index >= len(typed) {
				return nil, false
			}
			return typed[seg.index], true
		default:
			return nil, false
		}
	}
	switch typed := current.(type) {
	case map[string]any:
		next, ok := typed[seg.key]
		return next, ok
	case map[string]string:
		next, ok := typed[seg.key]
		return next, ok
	default:
		return nil, false
	}
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	if value == nil {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
