// Package number provides numeric coercion helpers for filter comparisons.
package number

import "encoding/json"

// ToFloat64 converts supported numeric values to float64.
func ToFloat64(value any) (float64, bool) {
	switch current := value.(type) {
	case int:
		return float64(current), true
	case int64:
		return float64(current), true
	case float64:
		return current, true
	case json.Number:
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Equal compares two JSON number literals by numeric value, so that
// "1.0" and "1" are considered equal.
func Equal(a, b json.Number) bool {
	if a == b {
		return true
	}

	fa, okA := ToFloat64(a)
	fb, okB := ToFloat64(b)
	return okA && okB && fa == fb
}
