// Package jsonvalue models a JSON document as a closed tagged variant.
// Unlike map[string]any, object members keep the order they appear in the
// input, which makes traversal and re-serialization deterministic.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single object entry. Objects are slices of members so that
// insertion order survives decode and encode.
type Member struct {
	Key   string
	Value *Value
}

// Value is one node of a JSON document. Only the field matching Kind is
// meaningful; the others hold their zero value.
type Value struct {
	Kind    Kind
	Bool    bool
	Num     json.Number
	Str     string
	Items   []*Value
	Members []Member
}

// Null returns a JSON null value.
func Null() *Value {
	return &Value{Kind: KindNull}
}

// Bool creates a boolean value.
func Bool(b bool) *Value {
	return &Value{Kind: KindBool, Bool: b}
}

// Number creates a numeric value from its literal text.
func Number(n json.Number) *Value {
	return &Value{Kind: KindNumber, Num: n}
}

// String creates a string value.
func String(s string) *Value {
	return &Value{Kind: KindString, Str: s}
}

// Array creates an array value from the given items.
func Array(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{Kind: KindArray, Items: items}
}

// Object creates an object value from the given members, in order.
func Object(members ...Member) *Value {
	return &Value{Kind: KindObject, Members: members}
}

// Field returns the value of the named member, if present.
func (v *Value) Field(key string) (*Value, bool) {
	if v == nil || v.Kind != KindObject {
		return nil, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Len returns the number of children for arrays and objects, zero otherwise.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.Kind {
	case KindArray:
		return len(v.Items)
	case KindObject:
		return len(v.Members)
	default:
		return 0
	}
}

// Decode reads a single JSON value from r. Numbers are kept as their literal
// text and object member order is preserved.
func Decode(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("decode JSON: unexpected end of input")
		}
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	return v, nil
}

// Parse decodes a JSON value from a byte slice.
func Parse(data []byte) (*Value, error) {
	return Decode(bytes.NewReader(data))
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (*Value, error) {
	obj := &Value{Kind: KindObject, Members: []Member{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, expected string", keyTok)
		}

		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, Member{Key: key, Value: val})
	}

	// consume closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	arr := &Value{Kind: KindArray, Items: []*Value{}}
	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)
	}

	// consume closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

// String renders the value as compact JSON.
func (v *Value) String() string {
	return string(v.appendJSON(nil, "", 0))
}

// Pretty renders the value as JSON indented with two spaces.
func (v *Value) Pretty() string {
	return string(v.appendJSON(nil, "  ", 0))
}

func (v *Value) appendJSON(dst []byte, indent string, depth int) []byte {
	if v == nil {
		return append(dst, "null"...)
	}

	switch v.Kind {
	case KindNull:
		return append(dst, "null"...)
	case KindBool:
		return strconv.AppendBool(dst, v.Bool)
	case KindNumber:
		if v.Num == "" {
			return append(dst, '0')
		}
		return append(dst, v.Num.String()...)
	case KindString:
		return appendQuoted(dst, v.Str)
	case KindArray:
		if len(v.Items) == 0 {
			return append(dst, "[]"...)
		}
		dst = append(dst, '[')
		for i, item := range v.Items {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendNewlineIndent(dst, indent, depth+1)
			dst = item.appendJSON(dst, indent, depth+1)
		}
		dst = appendNewlineIndent(dst, indent, depth)
		return append(dst, ']')
	case KindObject:
		if len(v.Members) == 0 {
			return append(dst, "{}"...)
		}
		dst = append(dst, '{')
		for i, m := range v.Members {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendNewlineIndent(dst, indent, depth+1)
			dst = appendQuoted(dst, m.Key)
			dst = append(dst, ':')
			if indent != "" {
				dst = append(dst, ' ')
			}
			dst = m.Value.appendJSON(dst, indent, depth+1)
		}
		dst = appendNewlineIndent(dst, indent, depth)
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

func appendNewlineIndent(dst []byte, indent string, depth int) []byte {
	if indent == "" {
		return dst
	}
	dst = append(dst, '\n')
	for range depth {
		dst = append(dst, indent...)
	}
	return dst
}

func appendQuoted(dst []byte, s string) []byte {
	// json.Marshal of a string cannot fail and handles all escaping.
	quoted, _ := json.Marshal(s)
	return append(dst, quoted...)
}
