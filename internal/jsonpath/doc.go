// Package jsonpath compiles JSONPath expressions and evaluates them
// against an in-memory document tree.
//
// Supported selectors (RFC 9535 terminology):
//   - Child `.` and descendant `..` segments
//   - Name, array index (negative counts from the end), wildcard `*`,
//     slices `start:end:step` with Python semantics, unions `[a,b]`
//   - Filters `[?(<clause> && <clause> || ...)]` where a clause is
//     `@.path <op> <literal>` or a bare `@.path` existence check:
//     <op>      →  ==  !=  <  <=  >  >=  =~  !~
//     <literal> →  number | 'string' | true | false | null | /regex/flags
//     (flags: i, m, s; `&&` binds tighter than `||`)
//
// Evaluation is deterministic: candidates are processed left to right and
// descendant traversal emits nodes in pre-order. Comparisons against a
// value of the wrong type are false, never an error.
package jsonpath
