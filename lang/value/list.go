package value

import (
	"strings"

	"github.com/ardnew/scss/pkg"
)

// List is an ordered sequence of values separated by commas or spaces.
type List struct {
	Items []Value
	Comma bool
}

// NewList returns a list of items.
func NewList(comma bool, items ...Value) List { return List{Items: items, Comma: comma} }

// Maybe returns the only item of a single-element list, or the list itself.
func Maybe(items []Value, comma bool) Value {
	if len(items) == 1 {
		return items[0]
	}

	return List{Items: items, Comma: comma}
}

// Items returns the elements v iterates over: a list's items, a map's
// key/value pairs as two-element lists, or v alone.
func Items(v Value) []Value {
	switch v := v.(type) {
	case List:
		return v.Items
	case Map:
		out := make([]Value, len(v.Pairs))
		for i, p := range v.Pairs {
			out[i] = NewList(false, p.Key, p.Value)
		}

		return out
	default:
		return []Value{v}
	}
}

func (l List) Kind() Kind { return KindList }

func (l List) Truthy() bool { return true }

func (l List) separator(compress bool) string {
	switch {
	case !l.Comma:
		return " "
	case compress:
		return ","
	default:
		return ", "
	}
}

// Render joins the rendered items, skipping nulls. The empty list has no
// CSS representation.
func (l List) Render(opts Options) (string, error) {
	if len(l.Items) == 0 {
		return "", pkg.ErrValue.Errorf("() is not a valid CSS value")
	}

	parts := make([]string, 0, len(l.Items))

	for _, item := range l.Items {
		switch item.Kind() {
		case KindNull, KindUndefined:
			continue
		}

		s, err := item.Render(opts)
		if err != nil {
			return "", err
		}

		if s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, l.separator(opts.Compress)), nil
}

// Equal compares items pairwise.
func (l List) Equal(o List) bool {
	if len(l.Items) != len(o.Items) || (len(l.Items) > 1 && l.Comma != o.Comma) {
		return false
	}

	for i := range l.Items {
		if !Equal(l.Items[i], o.Items[i]) {
			return false
		}
	}

	return true
}

// Pair is one key/value entry of a Map.
type Pair struct {
	Key   Value
	Value Value
}

// Map is an ordered set of key/value pairs.
type Map struct {
	Pairs []Pair
}

// NewMap builds a map from pairs. Later duplicates of a key are dropped.
func NewMap(pairs ...Pair) Map {
	var m Map

	for _, p := range pairs {
		if _, ok := m.Get(p.Key); !ok {
			m.Pairs = append(m.Pairs, p)
		}
	}

	return m
}

func (m Map) Kind() Kind { return KindMap }

func (m Map) Truthy() bool { return true }

// Render always fails; maps are not CSS values.
func (m Map) Render(Options) (string, error) {
	return "", pkg.ErrValue.Errorf("maps are not valid CSS values")
}

// Get returns the value stored under key.
func (m Map) Get(key Value) (Value, bool) {
	for _, p := range m.Pairs {
		if Equal(p.Key, key) {
			return p.Value, true
		}
	}

	return nil, false
}

// Keys returns the keys in insertion order.
func (m Map) Keys() []Value {
	keys := make([]Value, len(m.Pairs))
	for i, p := range m.Pairs {
		keys[i] = p.Key
	}

	return keys
}

// Merge returns the pairs of m followed by the pairs of o whose keys m does
// not already hold; the first writer of a key wins.
func (m Map) Merge(o Map) Map {
	pairs := make([]Pair, 0, len(m.Pairs)+len(o.Pairs))
	pairs = append(pairs, m.Pairs...)
	pairs = append(pairs, o.Pairs...)

	return NewMap(pairs...)
}

// Equal compares pairs in order.
func (m Map) Equal(o Map) bool {
	if len(m.Pairs) != len(o.Pairs) {
		return false
	}

	for i := range m.Pairs {
		if !Equal(m.Pairs[i].Key, o.Pairs[i].Key) ||
			!Equal(m.Pairs[i].Value, o.Pairs[i].Value) {
			return false
		}
	}

	return true
}
