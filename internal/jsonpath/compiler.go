package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a compiled JSONPath expression. A Path is immutable and safe for
// concurrent use.
type Path struct {
	segs []segment
}

type segment struct {
	deep bool       // true for '..' descendant operator
	sels []selector // list of selectors for this segment (e.g. name, index, filter)
}

// Compile parses a JSONPath expression into a Path. Any syntactic
// violation is reported as an error wrapping ErrSyntax.
func Compile(expr string) (*Path, error) {
	expr = strings.TrimSpace(expr)
	if err := validateExpression(expr); err != nil {
		return nil, err
	}

	if expr == "$" {
		return &Path{}, nil
	}

	i := 1 // current parsing index in expr, after '$'
	var segs []segment

	for i < len(expr) {
		seg, newIndex, err := parseSegment(expr, i)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
		i = newIndex
	}

	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: expression parsed to no segments but was not '$'", ErrSyntax)
	}
	return &Path{segs: segs}, nil
}

func validateExpression(expr string) error {
	if expr == "" {
		return fmt.Errorf("%w: expression cannot be empty", ErrSyntax)
	}
	if expr[0] != '$' || (len(expr) > 1 && expr[1] != '.' && expr[1] != '[') {
		return fmt.Errorf("%w: expression must start with '$', '$.', or '$['", ErrSyntax)
	}
	return nil
}

func parseSegment(expr string, i int) (segment, int, error) {
	if expr[i] == '.' {
		return parseDotSegment(expr, i)
	}
	if expr[i] == '[' {
		return parseBracketSegment(expr, i)
	}

	return segment{}, i, fmt.Errorf("%w: unexpected token '%c' at position %d, expected '.' or '['", ErrSyntax, expr[i], i)
}

func parseDotSegment(expr string, i int) (segment, int, error) {
	seg := segment{}

	if i+1 < len(expr) && expr[i+1] == '.' { // descendant '..'
		seg.deep = true
		i += 2
	} else { // child '.'
		i++
	}

	if i >= len(expr) { // path cannot end with '.' or '..'
		return segment{}, i, fmt.Errorf("%w: path segment cannot end with '.' or '..'", ErrSyntax)
	}

	if expr[i] == '[' {
		if !seg.deep {
			return segment{}, i, fmt.Errorf("%w: unexpected '[' after '.', use either '.name' or '[...]'", ErrSyntax)
		}
		// descendant bracket form, e.g. '$..[0]' or '$..[?(...)]'
		bracketSeg, newIndex, err := parseBracketSegment(expr, i)
		if err != nil {
			return segment{}, i, err
		}
		bracketSeg.deep = true
		return bracketSeg, newIndex, nil
	}

	if expr[i] == '*' { // wildcard
		seg.sels = append(seg.sels, wildcardSel{})
		i++
	} else { // name selector
		name, newIndex, err := parseName(expr, i)
		if err != nil {
			return segment{}, i, err
		}
		seg.sels = append(seg.sels, nameSel(name))
		i = newIndex
	}

	return seg, i, nil
}

func parseName(expr string, i int) (string, int, error) {
	start := i
	for i < len(expr) && idRune(expr[i]) {
		i++
	}
	if start == i { // name cannot be empty
		return "", i, fmt.Errorf("%w: name selector cannot be empty after '.'", ErrSyntax)
	}
	return expr[start:i], i, nil
}

func parseBracketSegment(expr string, i int) (segment, int, error) {
	end := findMatchingBracket(expr, i)
	if end == -1 {
		return segment{}, i, fmt.Errorf("%w: unterminated bracket selector, missing ']'", ErrSyntax)
	}

	content := expr[i+1 : end]
	i = end + 1

	if strings.TrimSpace(content) == "" {
		return segment{}, i, fmt.Errorf("%w: empty bracket selector '[]'", ErrSyntax)
	}

	// Filter expression [?(...)]
	if strings.HasPrefix(strings.TrimSpace(content), "?") {
		return parseFilterSegment(content, i)
	}

	return parseUnionSegment(content, i)
}

func parseFilterSegment(content string, i int) (segment, int, error) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "?(") || !strings.HasSuffix(content, ")") {
		return segment{}, i, fmt.Errorf("%w: malformed filter structure, expected '[?(<expression>)]' but got '[%s]'", ErrSyntax, content)
	}

	inside := content[2 : len(content)-1]
	expr, err := parseFilterExpr(inside)
	if err != nil {
		return segment{}, i, fmt.Errorf("parsing filter body '%s': %w", inside, err)
	}

	return segment{sels: []selector{filterSel{expr: expr}}}, i, nil
}

func parseUnionSegment(content string, i int) (segment, int, error) {
	parts := splitUnionParts(content)

	seg := segment{}
	for _, part := range parts {
		sel, err := parseUnionPart(part)
		if err != nil {
			return segment{}, i, err
		}
		seg.sels = append(seg.sels, sel)
	}

	if len(seg.sels) == 0 {
		return segment{}, i, fmt.Errorf("%w: no valid selectors found in bracket content: '[%s]'", ErrSyntax, content)
	}

	return seg, i, nil
}

func parseUnionPart(part string) (selector, error) {
	p := strings.TrimSpace(part)
	if p == "" {
		return nil, fmt.Errorf("%w: empty part in union selector", ErrSyntax)
	}

	if p == "*" { // wildcard
		return wildcardSel{}, nil
	}

	if isQuotedName(p) {
		return nameSel(p[1 : len(p)-1]), nil
	}

	if strings.Contains(p, ":") {
		return parseSlice(p)
	}

	if idx, err := strconv.Atoi(p); err == nil {
		return indexSel(idx), nil
	}

	if isIdentifier(p) {
		return nameSel(p), nil
	}

	return nil, fmt.Errorf("%w: invalid content '%s' in bracket selector", ErrSyntax, p)
}

func isQuotedName(s string) bool {
	return (len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'') ||
		(len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"')
}

func isIdentifier(s string) bool {
	for i := range len(s) {
		if !idRune(s[i]) {
			return false
		}
	}
	return len(s) > 0
}

func parseSlice(p string) (selector, error) {
	sliceBounds := strings.Split(p, ":")
	if len(sliceBounds) > 3 {
		return nil, fmt.Errorf("%w: too many colons in slice '%s'", ErrSyntax, p)
	}

	s := sliceSel{step: 1}

	var err error
	if s.start, s.hasStart, err = parseSliceBound(sliceBounds[0], "start", p); err != nil {
		return nil, err
	}

	if len(sliceBounds) > 1 {
		if s.end, s.hasEnd, err = parseSliceBound(sliceBounds[1], "end", p); err != nil {
			return nil, err
		}
	}

	if len(sliceBounds) == 3 {
		step, has, err := parseSliceBound(sliceBounds[2], "step", p)
		if err != nil {
			return nil, err
		}
		if has {
			if step == 0 {
				return nil, fmt.Errorf("%w: slice step cannot be zero in '%s'", ErrSyntax, p)
			}
			s.step = step
		}
	}

	return s, nil
}

func parseSliceBound(valueStr, boundType, fullSlice string) (int, bool, error) {
	trimmed := strings.TrimSpace(valueStr)
	if trimmed == "" {
		return 0, false, nil
	}

	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false, fmt.Errorf("%w: slice %s '%s' in '%s' is not a number", ErrSyntax, boundType, trimmed, fullSlice)
	}

	return v, true, nil
}

// splitUnionParts splits bracket content by commas, respecting quoted strings.
func splitUnionParts(content string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := byte(0)

	for i := range len(content) {
		c := content[i]
		switch {
		case !inQuotes && (c == '\'' || c == '"'):
			inQuotes = true
			quoteChar = c
			current.WriteByte(c)
		case inQuotes && c == quoteChar:
			escaped := i > 0 && content[i-1] == '\\'
			if !escaped {
				inQuotes = false
			}
			current.WriteByte(c)
		case !inQuotes && c == ',':
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	parts = append(parts, current.String())
	return parts
}

// findMatchingBracket finds the matching closing bracket for an opening bracket at position start.
func findMatchingBracket(expr string, start int) int {
	if start >= len(expr) || expr[start] != '[' {
		return -1
	}

	bracketDepth := 0
	inSingleQuote := false
	inDoubleQuote := false

	for i := start; i < len(expr); i++ {
		c := expr[i]

		// Handle escape sequences in quoted strings
		if i > 0 && expr[i-1] == '\\' {
			continue
		}

		// Handle quoted strings
		if c == '\'' && !inDoubleQuote {
			inSingleQuote = !inSingleQuote
			continue
		}
		if c == '"' && !inSingleQuote {
			inDoubleQuote = !inDoubleQuote
			continue
		}

		// Skip bracket tracking inside quoted strings
		if inSingleQuote || inDoubleQuote {
			continue
		}

		// Track bracket depth
		switch c {
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
			if bracketDepth == 0 {
				return i
			}
		}
	}

	return -1
}

// idRune checks if a byte is valid for unquoted names after '.'.
func idRune(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b == '-'
}
