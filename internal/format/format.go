// Package format renders a match set as text. It is a pure function of its
// input: it always produces a string and never fails.
package format

import (
	"strings"

	"github.com/jacoelho/jp/internal/jsonvalue"
)

// Format renders matches either as one indented JSON array or as a
// newline-joined plain listing.
//
// In JSON mode the whole match set becomes a two-space-indented array,
// preserving match order and object member order. An empty match set
// renders as "[]".
//
// In plain mode each match renders on its own line with no trailing
// newline: strings as their raw text, numbers as their literal decimal
// text, everything else as compact JSON. An empty match set renders as
// the empty string.
func Format(matches []*jsonvalue.Value, asJSON bool) string {
	if asJSON {
		return jsonvalue.Array(matches...).Pretty()
	}

	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(plainText(m))
	}
	return b.String()
}

func plainText(v *jsonvalue.Value) string {
	if v == nil {
		return "null"
	}

	switch v.Kind {
	case jsonvalue.KindString:
		return v.Str
	case jsonvalue.KindNumber:
		return v.Num.String()
	default:
		return v.String()
	}
}
