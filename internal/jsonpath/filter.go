package jsonpath

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jacoelho/jp/internal/jsonvalue"
	"github.com/jacoelho/jp/internal/number"
)

const (
	litNum litKind = iota + 1
	litStr
	litBool
	litNull
	litRegex
)

type litKind uint8

var filterAtomRe = regexp.MustCompile(`^@((?:\.[-\w]+)+)?\s*(==|!=|<=|>=|<|>|=~|!~)?\s*(.*)$`)

// filterExpr evaluates a filter predicate against a candidate node.
// Comparisons against a value of the wrong type yield false.
type filterExpr interface {
	eval(v *jsonvalue.Value) bool
}

// orExpr is true when any clause is true.
type orExpr struct {
	clauses []filterExpr
}

func (e orExpr) eval(v *jsonvalue.Value) bool {
	for _, c := range e.clauses {
		if c.eval(v) {
			return true
		}
	}
	return false
}

// andExpr is true when every clause is true.
type andExpr struct {
	clauses []filterExpr
}

func (e andExpr) eval(v *jsonvalue.Value) bool {
	for _, c := range e.clauses {
		if !c.eval(v) {
			return false
		}
	}
	return true
}

// existsExpr is true when the field path resolves, e.g. [?(@.isbn)].
type existsExpr struct {
	path []string
}

func (e existsExpr) eval(v *jsonvalue.Value) bool {
	return lookupFieldPath(v, e.path) != nil
}

type cmpExpr struct {
	path []string
	op   string
	lit  literal
}

type literal struct {
	kind   litKind
	num    float64
	numRaw json.Number
	str    string
	b      bool
	regex  *regexp.Regexp
}

func (e cmpExpr) eval(v *jsonvalue.Value) bool {
	target := lookupFieldPath(v, e.path)
	if target == nil {
		return false
	}

	switch e.lit.kind {
	case litNum:
		return e.evalNumeric(target)
	case litStr:
		return e.evalString(target)
	case litBool:
		return e.evalBool(target)
	case litNull:
		return e.evalNull(target)
	case litRegex:
		return e.evalRegex(target)
	}
	return false
}

func (e cmpExpr) evalNumeric(target *jsonvalue.Value) bool {
	if target.Kind != jsonvalue.KindNumber {
		return false
	}

	// Equality compares the literals numerically so precision beyond
	// float64 is not lost on exact matches.
	switch e.op {
	case "==":
		return number.Equal(target.Num, e.lit.numRaw)
	case "!=":
		return !number.Equal(target.Num, e.lit.numRaw)
	}

	v, ok := number.ToFloat64(target.Num)
	if !ok {
		return false
	}

	switch e.op {
	case "<":
		return v < e.lit.num
	case "<=":
		return v <= e.lit.num
	case ">":
		return v > e.lit.num
	case ">=":
		return v >= e.lit.num
	}
	return false
}

func (e cmpExpr) evalString(target *jsonvalue.Value) bool {
	if target.Kind != jsonvalue.KindString {
		return false
	}

	switch e.op {
	case "==":
		return target.Str == e.lit.str
	case "!=":
		return target.Str != e.lit.str
	}
	return false
}

func (e cmpExpr) evalBool(target *jsonvalue.Value) bool {
	if target.Kind != jsonvalue.KindBool {
		return false
	}

	switch e.op {
	case "==":
		return target.Bool == e.lit.b
	case "!=":
		return target.Bool != e.lit.b
	}
	return false
}

func (e cmpExpr) evalNull(target *jsonvalue.Value) bool {
	switch e.op {
	case "==":
		return target.Kind == jsonvalue.KindNull
	case "!=":
		return target.Kind != jsonvalue.KindNull
	}
	return false
}

func (e cmpExpr) evalRegex(target *jsonvalue.Value) bool {
	if target.Kind != jsonvalue.KindString {
		return false
	}

	m := e.lit.regex.MatchString(target.Str)
	switch e.op {
	case "=~":
		return m
	case "!~":
		return !m
	}
	return false
}

// lookupFieldPath resolves @.a.b.c against a candidate node, returning nil
// when any intermediate step is missing or not an object.
func lookupFieldPath(v *jsonvalue.Value, path []string) *jsonvalue.Value {
	current := v
	for _, p := range path {
		child, ok := current.Field(p)
		if !ok {
			return nil
		}
		current = child
	}
	return current
}

// parseFilterExpr compiles a filter body. `&&` binds tighter than `||`.
func parseFilterExpr(s string) (filterExpr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: filter expression body is empty", ErrSyntax)
	}

	orParts := splitLogical(s, "||")
	clauses := make([]filterExpr, 0, len(orParts))
	for _, part := range orParts {
		clause, err := parseFilterConjunction(part)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return orExpr{clauses: clauses}, nil
}

func parseFilterConjunction(s string) (filterExpr, error) {
	andParts := splitLogical(s, "&&")
	clauses := make([]filterExpr, 0, len(andParts))
	for _, part := range andParts {
		clause, err := parseFilterAtom(part)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return andExpr{clauses: clauses}, nil
}

// splitLogical splits on a two-character logical operator outside quotes.
func splitLogical(s, op string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case !inQuotes && (c == '\'' || c == '"'):
			inQuotes = true
			quoteChar = c
			current.WriteByte(c)
		case inQuotes && c == quoteChar:
			escaped := i > 0 && s[i-1] == '\\'
			if !escaped {
				inQuotes = false
			}
			current.WriteByte(c)
		case !inQuotes && i+1 < len(s) && s[i] == op[0] && s[i+1] == op[1]:
			parts = append(parts, current.String())
			current.Reset()
			i++
		default:
			current.WriteByte(c)
		}
	}

	parts = append(parts, current.String())
	return parts
}

func parseFilterAtom(s string) (filterExpr, error) {
	s = strings.TrimSpace(s)
	m := filterAtomRe.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%w: filter clause '%s' must be like '@.path <op> <literal>' or '@.path'", ErrSyntax, s)
	}

	pathStr, op, literalStr := m[1], m[2], strings.TrimSpace(m[3])
	if pathStr == "" {
		return nil, fmt.Errorf("%w: filter clause '%s' must have a path starting with @", ErrSyntax, s)
	}
	path := strings.Split(pathStr[1:], ".")

	if op == "" {
		if literalStr != "" {
			return nil, fmt.Errorf("%w: unexpected trailing content '%s' in filter clause", ErrSyntax, literalStr)
		}
		return existsExpr{path: path}, nil
	}

	if literalStr == "" {
		return nil, fmt.Errorf("%w: missing literal after operator '%s'", ErrSyntax, op)
	}

	lit, err := parseLiteral(op, literalStr)
	if err != nil {
		return nil, err
	}

	return cmpExpr{path: path, op: op, lit: lit}, nil
}

func parseLiteral(op, s string) (literal, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return parseNumericLiteral(op, f, s)
	}

	if isQuotedName(s) {
		return parseEqualityLiteral(op, literal{kind: litStr, str: s[1 : len(s)-1]}, s)
	}

	switch s {
	case "true", "false":
		return parseEqualityLiteral(op, literal{kind: litBool, b: s == "true"}, s)
	case "null":
		return parseEqualityLiteral(op, literal{kind: litNull}, s)
	}

	if strings.HasPrefix(s, "/") {
		return parseRegexLiteral(op, s)
	}

	return literal{}, fmt.Errorf("%w: unsupported literal format '%s'", ErrSyntax, s)
}

func parseNumericLiteral(op string, value float64, s string) (literal, error) {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return literal{kind: litNum, num: value, numRaw: json.Number(s)}, nil
	default:
		return literal{}, fmt.Errorf("%w: operator '%s' not valid for numeric literal '%s'", ErrSyntax, op, s)
	}
}

func parseEqualityLiteral(op string, lit literal, s string) (literal, error) {
	switch op {
	case "==", "!=":
		return lit, nil
	default:
		return literal{}, fmt.Errorf("%w: operator '%s' not valid for literal '%s'", ErrSyntax, op, s)
	}
}

func parseRegexLiteral(op, s string) (literal, error) {
	if op != "=~" && op != "!~" {
		return literal{}, fmt.Errorf("%w: operator '%s' not valid for regex literal %s", ErrSyntax, op, s)
	}

	lastSlash := strings.LastIndexByte(s[1:], '/')
	if lastSlash == -1 {
		return literal{}, fmt.Errorf("%w: unterminated regex literal %s", ErrSyntax, s)
	}

	lastSlash++ // adjust for the offset
	pat := s[1:lastSlash]
	flags := s[lastSlash+1:]

	goFlags, err := regexFlags(flags, s)
	if err != nil {
		return literal{}, err
	}

	fullPattern := pat
	if goFlags != "" {
		fullPattern = "(?" + goFlags + ")" + pat
	}

	re, err := regexp.Compile(fullPattern)
	if err != nil {
		return literal{}, fmt.Errorf("%w: compiling regex literal %s: %v", ErrSyntax, s, err)
	}

	return literal{kind: litRegex, regex: re}, nil
}

func regexFlags(flags, lit string) (string, error) {
	var goFlags string

	for _, flag := range []string{"s", "i", "m"} {
		if strings.Contains(flags, flag) {
			goFlags += flag
		}
	}

	for _, fchar := range flags {
		if fchar != 's' && fchar != 'i' && fchar != 'm' {
			return "", fmt.Errorf("%w: unsupported regex flag '%c' in %s", ErrSyntax, fchar, lit)
		}
	}

	return goFlags, nil
}
