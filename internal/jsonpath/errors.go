package jsonpath

import "errors"

// ErrSyntax indicates a JSONPath expression syntax error during compilation.
var ErrSyntax = errors.New("jsonpath: syntax error")
