package jsonpath

import (
	"github.com/jacoelho/jp/internal/jsonvalue"
	"github.com/jacoelho/jp/internal/stack"
)

// Select evaluates the compiled path against root and returns the matched
// nodes in discovery order. It never fails: selectors that do not apply to
// a candidate simply contribute nothing.
//
// The returned values alias the document tree; callers must not mutate
// them while the document is shared.
func (p *Path) Select(root *jsonvalue.Value) []*jsonvalue.Value {
	if root == nil {
		return []*jsonvalue.Value{}
	}

	current := []*jsonvalue.Value{root}
	for _, seg := range p.segs {
		next := make([]*jsonvalue.Value, 0, len(current))
		for _, cand := range current {
			if seg.deep {
				next = seg.applyDeep(cand, next)
			} else {
				next = seg.applyChild(cand, next)
			}
		}
		current = next
	}
	return current
}

func (seg segment) applyChild(v *jsonvalue.Value, out []*jsonvalue.Value) []*jsonvalue.Value {
	for _, sel := range seg.sels {
		out = sel.children(v, out)
	}
	return out
}

// node pairs a value with the edge it was reached through.
type node struct {
	e edge
	v *jsonvalue.Value
}

// applyDeep walks the subtree rooted at v in pre-order and collects every
// node matching one of the segment selectors. An explicit work-list keeps
// stack usage bounded on deeply nested documents.
func (seg segment) applyDeep(v *jsonvalue.Value, out []*jsonvalue.Value) []*jsonvalue.Value {
	work := stack.NewWithCapacity[node](16)
	work.Push(node{e: edge{isRoot: true}, v: v})

	for !work.IsEmpty() {
		cur, _ := work.Pop()

		for _, sel := range seg.sels {
			if sel.matchesNode(cur.e, cur.v) {
				out = append(out, cur.v)
				break
			}
		}

		// Children pushed right to left so the leftmost is visited first.
		switch cur.v.Kind {
		case jsonvalue.KindObject:
			for i := len(cur.v.Members) - 1; i >= 0; i-- {
				m := cur.v.Members[i]
				work.Push(node{e: edge{key: m.Key}, v: m.Value})
			}
		case jsonvalue.KindArray:
			for i := len(cur.v.Items) - 1; i >= 0; i-- {
				work.Push(node{
					e: edge{isIndex: true, index: i, length: len(cur.v.Items)},
					v: cur.v.Items[i],
				})
			}
		}
	}

	return out
}
