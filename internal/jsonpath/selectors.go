package jsonpath

import (
	"github.com/jacoelho/jp/internal/jsonvalue"
)

// edge describes how a node was reached from its parent during traversal.
// The document root has no incoming edge.
type edge struct {
	isRoot  bool
	isIndex bool
	index   int
	length  int // length of the containing array, for negative index matching
	key     string
}

// selector matches one atomic step of a compiled path.
type selector interface {
	// children appends the children of v selected by this selector to out,
	// in structural order.
	children(v *jsonvalue.Value, out []*jsonvalue.Value) []*jsonvalue.Value

	// matchesNode reports whether a node reached through e satisfies this
	// selector during descendant traversal.
	matchesNode(e edge, v *jsonvalue.Value) bool
}

type (
	nameSel     string
	wildcardSel struct{}
	indexSel    int
)

type sliceSel struct {
	start, end, step int
	hasStart, hasEnd bool
}

type filterSel struct {
	expr filterExpr
}

func (n nameSel) children(v *jsonvalue.Value, out []*jsonvalue.Value) []*jsonvalue.Value {
	if child, ok := v.Field(string(n)); ok {
		out = append(out, child)
	}
	return out
}

func (n nameSel) matchesNode(e edge, _ *jsonvalue.Value) bool {
	return !e.isRoot && !e.isIndex && e.key == string(n)
}

func (wildcardSel) children(v *jsonvalue.Value, out []*jsonvalue.Value) []*jsonvalue.Value {
	switch v.Kind {
	case jsonvalue.KindArray:
		out = append(out, v.Items...)
	case jsonvalue.KindObject:
		for _, m := range v.Members {
			out = append(out, m.Value)
		}
	}
	return out
}

func (wildcardSel) matchesNode(_ edge, _ *jsonvalue.Value) bool {
	return true
}

func (i indexSel) children(v *jsonvalue.Value, out []*jsonvalue.Value) []*jsonvalue.Value {
	if v.Kind != jsonvalue.KindArray {
		return out
	}

	idx := int(i)
	if idx < 0 {
		idx += len(v.Items)
	}
	if idx >= 0 && idx < len(v.Items) {
		out = append(out, v.Items[idx])
	}
	return out
}

func (i indexSel) matchesNode(e edge, _ *jsonvalue.Value) bool {
	if !e.isIndex {
		return false
	}

	idx := int(i)
	if idx < 0 {
		idx += e.length
	}
	return e.index == idx
}

// indices normalizes the slice bounds for a sequence of length n,
// following Python slice semantics.
func (s sliceSel) indices(n int) (start, end, step int) {
	step = s.step

	if step > 0 {
		start, end = 0, n
	} else {
		start, end = n-1, -1
	}

	if s.hasStart {
		start = clampSliceBound(s.start, n, step)
	}
	if s.hasEnd {
		end = clampSliceBound(s.end, n, step)
	}
	return start, end, step
}

func clampSliceBound(v, n, step int) int {
	if v < 0 {
		v += n
	}

	lo, hi := 0, n
	if step < 0 {
		lo, hi = -1, n-1
	}

	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s sliceSel) children(v *jsonvalue.Value, out []*jsonvalue.Value) []*jsonvalue.Value {
	if v.Kind != jsonvalue.KindArray {
		return out
	}

	start, end, step := s.indices(len(v.Items))
	if step > 0 {
		for i := start; i < end; i += step {
			out = append(out, v.Items[i])
		}
	} else {
		for i := start; i > end; i += step {
			out = append(out, v.Items[i])
		}
	}
	return out
}

func (s sliceSel) matchesNode(e edge, _ *jsonvalue.Value) bool {
	if !e.isIndex {
		return false
	}

	start, end, step := s.indices(e.length)
	if step > 0 {
		return e.index >= start && e.index < end && (e.index-start)%step == 0
	}
	return e.index <= start && e.index > end && (start-e.index)%(-step) == 0
}

func (f filterSel) children(v *jsonvalue.Value, out []*jsonvalue.Value) []*jsonvalue.Value {
	if v.Kind != jsonvalue.KindArray {
		return out
	}

	for _, item := range v.Items {
		if f.expr.eval(item) {
			out = append(out, item)
		}
	}
	return out
}

func (f filterSel) matchesNode(_ edge, v *jsonvalue.Value) bool {
	return f.expr.eval(v)
}
