// Package expr implements the restricted condition grammar with a
// hand-written tokenizer and recursive-descent parser. No dynamic code
// generation: expressions compile to a small AST evaluated against the
// condition context.
//
// Supported forms:
//   - truthy identifiers: `has_children`
//   - property paths: `profile.profession`, `items[0].value`
//   - membership: `family_composition.includes("children")`
//   - comparisons: `==`, `!=`, `<`, `<=`, `>`, `>=`
//   - composition: `&&`, `||`, `!`, parentheses
//   - literals: single or double quoted strings, numbers, true/false, null
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-questflow/pkg/condition"
)

const includesSuffix = ".includes"

// Evaluator is a stateless condition.Evaluator for the restricted grammar.
type Evaluator struct{}

// New returns an Evaluator. It carries no state and is safe for concurrent
// use across sessions.
func New() *Evaluator { return &Evaluator{} }

// Evaluate parses and evaluates expression against ctx. Empty expressions
// are vacuously true.
func (e *Evaluator) Evaluate(expression string, ctx condition.Context) (bool, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return true, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 {
		return true, nil
	}

	node, err := parse(tokens)
	if err != nil {
		return false, err
	}
	return node.eval(ctx)
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func() byte {
		if i >= len(input) {
			return 0
		}
		return input[i]
	}

	for i < len(input) {
		ch := peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			i++
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
		case ch == ')':
			i++
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
		case ch == '!':
			i++
			if peek() == '=' {
				i++
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
			} else {
				tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			}
		case ch == '=':
			i++
			if peek() != '=' {
				return nil, errors.New("condition/expr: unexpected '='; use '=='")
			}
			i++
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
		case ch == '<':
			i++
			if peek() == '=' {
				i++
				tokens = append(tokens, token{kind: tokenLte, raw: "<="})
			} else {
				tokens = append(tokens, token{kind: tokenLt, raw: "<"})
			}
		case ch == '>':
			i++
			if peek() == '=' {
				i++
				tokens = append(tokens, token{kind: tokenGte, raw: ">="})
			} else {
				tokens = append(tokens, token{kind: tokenGt, raw: ">"})
			}
		case ch == '&':
			i++
			if peek() != '&' {
				return nil, errors.New("condition/expr: unexpected '&'; use '&&'")
			}
			i++
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
		case ch == '|':
			i++
			if peek() != '|' {
				return nil, errors.New("condition/expr: unexpected '|'; use '||'")
			}
			i++
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
		case ch == '"' || ch == '\'':
			value, rest, err := scanString(input[i:])
			if err != nil {
				return nil, err
			}
			i = len(input) - len(rest)
			tokens = append(tokens, token{kind: tokenString, raw: value})
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			raw := strings.TrimSpace(input[start:i])
			if raw == "" {
				continue
			}
			switch strings.ToLower(raw) {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(raw)})
			case "null", "nil", "undefined":
				tokens = append(tokens, token{kind: tokenNull, raw: "null"})
			default:
				if looksNumeric(raw) {
					tokens = append(tokens, token{kind: tokenNumber, raw: raw})
				} else {
					tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
				}
			}
		}
	}

	return tokens, nil
}

// isDelimiter stops identifier/number scanning. Dots and brackets stay inside
// the token so property paths and `.includes` arrive whole.
func isDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '(', ')', '!', '=', '<', '>', '&', '|', '"', '\'':
		return true
	default:
		return false
	}
}

// scanString consumes a quoted literal at the head of input, honouring
// backslash escapes, and returns the unquoted value plus the remainder.
func scanString(input string) (string, string, error) {
	quote := input[0]
	var sb strings.Builder
	escaped := false
	for j := 1; j < len(input); j++ {
		c := input[j]
		if escaped {
			sb.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == quote {
			return sb.String(), input[j+1:], nil
		}
		sb.WriteByte(c)
	}
	return "", "", errors.New("condition/expr: unterminated string literal")
}

func looksNumeric(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	if !(ch >= '0' && ch <= '9') && ch != '-' && ch != '+' {
		return false
	}
	_, err := strconv.ParseFloat(raw, 64)
	return err == nil
}

type node interface {
	eval(ctx condition.Context) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx condition.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return n.right.eval(ctx)
}

type andNode struct{ left, right node }

func (n andNode) eval(ctx condition.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return n.right.eval(ctx)
}

type notNode struct{ inner node }

func (n notNode) eval(ctx condition.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type literalKind int

const (
	litString literalKind = iota
	litNumber
	litBool
	litNull
)

type literal struct {
	kind literalKind
	raw  string
}

type compareNode struct {
	path string
	op   tokenKind
	lit  literal
}

func (n compareNode) eval(ctx condition.Context) (bool, error) {
	value, _ := lookup(ctx, n.path)

	switch n.op {
	case tokenEq, tokenNeq:
		equal, err := n.equals(value)
		if err != nil {
			return false, err
		}
		if n.op == tokenNeq {
			return !equal, nil
		}
		return equal, nil
	case tokenLt, tokenLte, tokenGt, tokenGte:
		if n.lit.kind != litNumber {
			return false, fmt.Errorf("condition/expr: ordering comparison needs a numeric literal, got %q", n.lit.raw)
		}
		want, err := strconv.ParseFloat(n.lit.raw, 64)
		if err != nil {
			return false, fmt.Errorf("condition/expr: invalid number literal %q", n.lit.raw)
		}
		got, ok := coerceNumber(value)
		if !ok {
			return false, nil
		}
		switch n.op {
		case tokenLt:
			return got < want, nil
		case tokenLte:
			return got <= want, nil
		case tokenGt:
			return got > want, nil
		default:
			return got >= want, nil
		}
	default:
		return false, fmt.Errorf("condition/expr: unsupported comparison operator")
	}
}

func (n compareNode) equals(value any) (bool, error) {
	switch n.lit.kind {
	case litNull:
		return value == nil, nil
	case litBool:
		want := n.lit.raw == "true"
		got, _ := coerceBool(value)
		return got == want, nil
	case litNumber:
		want, err := strconv.ParseFloat(n.lit.raw, 64)
		if err != nil {
			return false, fmt.Errorf("condition/expr: invalid number literal %q", n.lit.raw)
		}
		got, ok := coerceNumber(value)
		if !ok {
			return false, nil
		}
		return got == want, nil
	default:
		return coerceString(value) == n.lit.raw, nil
	}
}

// includesNode implements `path.includes(literal)` over slice answers.
type includesNode struct {
	path string
	lit  literal
}

func (n includesNode) eval(ctx condition.Context) (bool, error) {
	value, ok := lookup(ctx, n.path)
	if !ok || value == nil {
		return false, nil
	}
	switch items := value.(type) {
	case []string:
		for _, item := range items {
			if item == n.lit.raw {
				return true, nil
			}
		}
	case []any:
		for _, item := range items {
			if matchesLiteral(item, n.lit) {
				return true, nil
			}
		}
	case string:
		return strings.Contains(items, n.lit.raw), nil
	default:
		return false, fmt.Errorf("condition/expr: %q is not a collection", n.path)
	}
	return false, nil
}

func matchesLiteral(value any, lit literal) bool {
	switch lit.kind {
	case litNumber:
		want, err := strconv.ParseFloat(lit.raw, 64)
		if err != nil {
			return false
		}
		got, ok := coerceNumber(value)
		return ok && got == want
	case litBool:
		got, _ := coerceBool(value)
		return got == (lit.raw == "true")
	case litNull:
		return value == nil
	default:
		return coerceString(value) == lit.raw
	}
}

type truthyNode struct{ path string }

func (n truthyNode) eval(ctx condition.Context) (bool, error) {
	value, ok := lookup(ctx, n.path)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type stream struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (node, error) {
	s := &stream{tokens: tokens}
	root, err := parseOr(s)
	if err != nil {
		return nil, err
	}
	if s.pos < len(s.tokens) {
		return nil, fmt.Errorf("condition/expr: unexpected token %q", s.tokens[s.pos].raw)
	}
	return root, nil
}

func parseOr(s *stream) (node, error) {
	left, err := parseAnd(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenOr) {
		right, err := parseAnd(s)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(s *stream) (node, error) {
	left, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenAnd) {
		right, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseUnary(s *stream) (node, error) {
	if s.match(tokenNot) {
		inner, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parsePrimary(s)
}

func parsePrimary(s *stream) (node, error) {
	if s.match(tokenLParen) {
		inner, err := parseOr(s)
		if err != nil {
			return nil, err
		}
		if !s.match(tokenRParen) {
			return nil, errors.New("condition/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := s.consume(tokenIdentifier)
	if !ok {
		if s.pos >= len(s.tokens) {
			return nil, errors.New("condition/expr: empty expression")
		}
		return nil, fmt.Errorf("condition/expr: expected identifier, got %q", s.tokens[s.pos].raw)
	}

	if strings.HasSuffix(ident.raw, includesSuffix) {
		path := strings.TrimSuffix(ident.raw, includesSuffix)
		if path == "" {
			return nil, errors.New("condition/expr: includes needs a target path")
		}
		if !s.match(tokenLParen) {
			return nil, errors.New("condition/expr: includes needs '('")
		}
		lit, err := s.consumeLiteral()
		if err != nil {
			return nil, err
		}
		if !s.match(tokenRParen) {
			return nil, errors.New("condition/expr: includes missing ')'")
		}
		return includesNode{path: path, lit: lit}, nil
	}

	for _, op := range []tokenKind{tokenEq, tokenNeq, tokenLte, tokenLt, tokenGte, tokenGt} {
		if s.match(op) {
			lit, err := s.consumeLiteral()
			if err != nil {
				return nil, err
			}
			return compareNode{path: ident.raw, op: op, lit: lit}, nil
		}
	}

	return truthyNode{path: ident.raw}, nil
}

func (s *stream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *stream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *stream) consumeLiteral() (literal, error) {
	if s.pos >= len(s.tokens) {
		return literal{}, errors.New("condition/expr: missing literal")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString:
		return literal{kind: litString, raw: tok.raw}, nil
	case tokenNumber:
		return literal{kind: litNumber, raw: tok.raw}, nil
	case tokenBool:
		return literal{kind: litBool, raw: tok.raw}, nil
	case tokenNull:
		return literal{kind: litNull, raw: "null"}, nil
	case tokenIdentifier:
		// Bare identifiers read as strings keeps documents forgiving about
		// unquoted enum values.
		return literal{kind: litString, raw: tok.raw}, nil
	default:
		return literal{}, fmt.Errorf("condition/expr: expected literal, got %q", tok.raw)
	}
}
