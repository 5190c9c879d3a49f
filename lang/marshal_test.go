package lang

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/ardnew/scss/lang/value"
)

func TestSessionToMap(t *testing.T) {
	s, err := New().NewSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	text := "$n: 2;\n$w: 3px;\n$l: 1 2;\n.a { x: 1; &:hover { y: 2; } }\n.b { @extend .a; }"
	if err := s.Run(NewSource("in.scss", text)); err != nil {
		t.Fatal(err)
	}

	got := s.ToMap()

	wantVars := map[string]any{
		"$n": 2.0,
		"$w": "3px",
		"$l": []any{1.0, 2.0},
	}
	if !reflect.DeepEqual(got["variables"], wantVars) {
		t.Errorf("variables = %#v, want %#v", got["variables"], wantVars)
	}

	rules, ok := got["rules"].([]any)
	if !ok || len(rules) != 2 {
		t.Fatalf("rules = %#v", got["rules"])
	}

	first := rules[0].(map[string]any)
	if want := []any{[]any{".a", ".b"}}; !reflect.DeepEqual(first["ancestry"], want) {
		t.Errorf("ancestry = %#v, want %#v", first["ancestry"], want)
	}

	if want := []any{map[string]any{"x": "1"}}; !reflect.DeepEqual(first["properties"], want) {
		t.Errorf("properties = %#v, want %#v", first["properties"], want)
	}

	if first["file"] != "in.scss" || first["line"] != 4 {
		t.Errorf("location = %v:%v", first["file"], first["line"])
	}

	second := rules[1].(map[string]any)
	if want := []any{[]any{".a:hover", ".b:hover"}}; !reflect.DeepEqual(second["ancestry"], want) {
		t.Errorf("ancestry = %#v, want %#v", second["ancestry"], want)
	}
}

func TestRuleMarshalJSON(t *testing.T) {
	r := &Rule{
		Ancestry:   []Header{AtRuleHeader("@media", "print"), SelectorHeader(mustSelector(t, ".a"))},
		Properties: []Property{{Name: "x", Value: "1", HasValue: true}, {Name: "@include-me"}},
		Extends:    []Extend{{Target: mustSelector(t, ".b")}},
		Position:   3,
		Nested:     2,
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	want := map[string]any{
		"position":   3.0,
		"nested":     2.0,
		"ancestry":   []any{"@media print", []any{".a"}},
		"properties": []any{map[string]any{"x": "1"}, "@include-me"},
		"extends":    []any{".b"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestToNative(t *testing.T) {
	m := value.Map{Pairs: []value.Pair{
		{Key: value.Bare("k"), Value: value.True},
	}}

	tests := []struct {
		name string
		in   value.Value
		want any
	}{
		{"null", value.Null{}, nil},
		{"unitless", value.NewNumber(1.5, ""), 1.5},
		{"unit", value.NewNumber(2, "em"), "2em"},
		{"quoted", value.Quoted("a b"), "a b"},
		{"map", m, map[string]any{"k": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToNative(tt.in, value.DefaultOptions); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToNative = %#v, want %#v", got, tt.want)
			}
		})
	}
}
