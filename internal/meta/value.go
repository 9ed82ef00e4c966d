package meta

import (
	"gopkg.in/yaml.v3"
)

// Kind discriminates the shapes a metadata value can take.
type Kind int

const (
	// KindScalar is a single string value.
	KindScalar Kind = iota
	// KindSequence is an ordered list of values.
	KindSequence
	// KindMapping is an ordered map of string keys to values.
	KindMapping
)

// Value is one node of the metadata tree: a scalar, a sequence, or a
// mapping. Accessors report absence instead of panicking when the shape
// does not match, mirroring how schemaless front matter is consumed.
type Value struct {
	kind    Kind
	scalar  string
	items   []Value
	entries []entry
}

type entry struct {
	key string
	val Value
}

// ScalarValue returns a scalar Value.
func ScalarValue(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// SequenceValue returns a sequence Value.
func SequenceValue(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// MappingValue returns an empty mapping Value.
func MappingValue() Value {
	return Value{kind: KindMapping}
}

// Kind returns the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// String returns the scalar content, if the value is a scalar.
func (v Value) String() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	return v.scalar, true
}

// Strings returns the scalar items of a sequence. Non-scalar items are
// skipped.
func (v Value) Strings() ([]string, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	out := make([]string, 0, len(v.items))
	for _, item := range v.items {
		if s, ok := item.String(); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// Items returns the elements of a sequence.
func (v Value) Items() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return v.items, true
}

// Get looks up a key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	for _, e := range v.entries {
		if e.key == key {
			return e.val, true
		}
	}
	return Value{}, false
}

// set inserts or replaces a mapping entry, preserving the position of an
// existing key and appending new keys at the end.
func (v *Value) set(key string, val Value) {
	for i, e := range v.entries {
		if e.key == key {
			v.entries[i].val = val
			return
		}
	}
	v.entries = append(v.entries, entry{key: key, val: val})
}

// remove deletes a mapping entry, reporting whether the key was present.
func (v *Value) remove(key string) bool {
	for i, e := range v.entries {
		if e.key == key {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
			return true
		}
	}
	return false
}

// append adds an item to a sequence entry of a mapping, creating the
// sequence when the key is absent.
func (v *Value) appendTo(key string, item Value) {
	if cur, ok := v.Get(key); ok && cur.kind == KindSequence {
		cur.items = append(cur.items, item)
		v.set(key, cur)
		return
	}
	v.set(key, SequenceValue(item))
}

// valueFromNode converts a parsed YAML node into a Value.
func valueFromNode(n *yaml.Node) Value {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return MappingValue()
		}
		return valueFromNode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias != nil {
			return valueFromNode(n.Alias)
		}
		return ScalarValue("")
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, valueFromNode(c))
		}
		return Value{kind: KindSequence, items: items}
	case yaml.MappingNode:
		v := MappingValue()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v.set(n.Content[i].Value, valueFromNode(n.Content[i+1]))
		}
		return v
	default:
		return ScalarValue(n.Value)
	}
}

// node converts a Value back into a YAML node for serialization. The
// emitter quotes scalars containing structurally significant characters, so
// re-parsing the rendered text yields the same logical value.
func (v Value) node() *yaml.Node {
	switch v.kind {
	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			n.Content = append(n.Content, item.node())
		}
		return n
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.entries {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.key},
				e.val.node())
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.scalar}
	}
}
