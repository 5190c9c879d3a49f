package lang

import (
	"encoding/json"

	"github.com/ardnew/scss/lang/selector"
	"github.com/ardnew/scss/lang/value"
)

// MarshalJSON implements json.Marshaler for Rule.
func (r *Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// ToMap converts the rule to a native Go map structure.
func (r *Rule) ToMap() map[string]any {
	result := map[string]any{
		"position": r.Position,
		"nested":   r.Nested,
	}

	if r.File != "" {
		result["file"] = r.File
		result["line"] = r.Line
	}

	headers := make([]any, 0, len(r.Ancestry))

	for _, h := range r.Ancestry {
		if h.IsSelector() {
			headers = append(headers, selectorTexts(h.Selectors))
		} else {
			headers = append(headers, h.Render("", "", false))
		}
	}

	result["ancestry"] = headers

	props := make([]any, 0, len(r.Properties))

	for _, p := range r.Properties {
		if p.HasValue {
			props = append(props, map[string]any{p.Name: p.Value})
		} else {
			props = append(props, p.Name)
		}
	}

	result["properties"] = props

	if len(r.Extends) > 0 {
		targets := make([]any, len(r.Extends))
		for i, e := range r.Extends {
			targets[i] = e.Target.Render(false)
		}

		result["extends"] = targets
	}

	return result
}

func selectorTexts(sels []selector.Selector) []any {
	out := make([]any, len(sels))
	for i, s := range sels {
		out[i] = s.Render(false)
	}

	return out
}

// ToMap converts the resolved rules and global variables of the session to
// native Go structures. Empty rules are omitted.
func (s *Session) ToMap() map[string]any {
	var rules []any

	for _, r := range s.Rules() {
		if r.IsEmpty() {
			continue
		}

		rules = append(rules, r.ToMap())
	}

	vars := map[string]any{}

	for name, v := range s.Variables() {
		vars["$"+name] = ToNative(v, s.valueOptions())
	}

	return map[string]any{
		"rules":     rules,
		"variables": vars,
	}
}

// ToNative converts a value to its native Go type: numbers without units
// become float64, booleans bool, null nil, lists slices and maps maps keyed
// by the rendered key. Everything else is its rendered CSS text.
func ToNative(v value.Value, opts value.Options) any {
	switch v := v.(type) {
	case value.Null, value.Undefined:
		return nil
	case value.Boolean:
		return bool(v)
	case value.Number:
		if v.Unitless() {
			return v.Amount
		}
	case value.String:
		return v.Text
	case value.List:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = ToNative(item, opts)
		}

		return out
	case value.Map:
		out := make(map[string]any, len(v.Pairs))
		for _, p := range v.Pairs {
			out[value.Text(p.Key)] = ToNative(p.Value, opts)
		}

		return out
	}

	text, err := v.Render(opts)
	if err != nil {
		return nil
	}

	return text
}
