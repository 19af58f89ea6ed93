package format

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/jacoelho/jp/internal/jsonvalue"
)

func mustParse(t *testing.T, doc string) *jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parsing %q failed: %v", doc, err)
	}
	return v
}

func TestFormatPlainText(t *testing.T) {
	matches := []*jsonvalue.Value{
		mustParse(t, `42`),
		mustParse(t, `"x"`),
		mustParse(t, `{"a":1}`),
	}

	expect := "42\nx\n{\"a\":1}"
	if got := Format(matches, false); got != expect {
		t.Errorf("Format(plain) = %q, want %q", got, expect)
	}
}

func TestFormatPlainTextKinds(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		expect string
	}{
		{name: "string_is_raw", doc: `"hello world"`, expect: "hello world"},
		{name: "number_keeps_literal", doc: `1.50`, expect: "1.50"},
		{name: "bool_as_json", doc: `true`, expect: "true"},
		{name: "null_as_json", doc: `null`, expect: "null"},
		{name: "array_compact", doc: `[1, 2]`, expect: "[1,2]"},
		{name: "object_compact", doc: `{"a": "b"}`, expect: `{"a":"b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format([]*jsonvalue.Value{mustParse(t, tt.doc)}, false)
			if got != tt.expect {
				t.Errorf("Format = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil, true); got != "[]" {
		t.Errorf("Format(empty, json) = %q, want []", got)
	}
	if got := Format(nil, false); got != "" {
		t.Errorf("Format(empty, plain) = %q, want empty string", got)
	}
}

func TestFormatJSONIndentation(t *testing.T) {
	matches := []*jsonvalue.Value{mustParse(t, `{"price":15}`)}

	expect := strings.Join([]string{
		`[`,
		`  {`,
		`    "price": 15`,
		`  }`,
		`]`,
	}, "\n")

	if got := Format(matches, true); got != expect {
		t.Errorf("Format(json) = %q, want %q", got, expect)
	}
}

func TestFormatJSONRoundTrip(t *testing.T) {
	matches := []*jsonvalue.Value{
		mustParse(t, `{"b":1,"a":2}`),
		mustParse(t, `[null,true,"s"]`),
		mustParse(t, `3.5`),
	}

	var decoded []any
	if err := json.Unmarshal([]byte(Format(matches, true)), &decoded); err != nil {
		t.Fatalf("formatted output is not valid JSON: %v", err)
	}

	expect := []any{
		map[string]any{"b": 1.0, "a": 2.0},
		[]any{nil, true, "s"},
		3.5,
	}
	if !reflect.DeepEqual(decoded, expect) {
		t.Errorf("round trip = %v, want %v", decoded, expect)
	}
}

func TestFormatPreservesMemberOrder(t *testing.T) {
	matches := []*jsonvalue.Value{mustParse(t, `{"z":1,"a":2}`)}

	got := Format(matches, true)
	if strings.Index(got, `"z"`) > strings.Index(got, `"a"`) {
		t.Errorf("member order not preserved: %q", got)
	}
}

func TestFormatIsPure(t *testing.T) {
	matches := []*jsonvalue.Value{mustParse(t, `{"a":[1,2]}`)}

	first := Format(matches, true)
	second := Format(matches, true)
	if first != second {
		t.Errorf("repeated Format differs: %q vs %q", first, second)
	}
}
