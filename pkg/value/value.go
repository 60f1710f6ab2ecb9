// Package value holds the generic structured value passed between the
// runners and the modules they invoke: the JSON data model with objects
// that remember the order their keys were decoded in.
package value

import (
	"encoding/json"
)

type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value. The zero Value is null.
type Value struct {
	kind  Kind
	b     bool
	num   json.Number
	str   string
	items []Value
	obj   *Map
}

func NewNull() Value                { return Value{} }
func NewBool(b bool) Value          { return Value{kind: Bool, b: b} }
func NewNumber(n json.Number) Value { return Value{kind: Number, num: n} }
func NewString(s string) Value      { return Value{kind: String, str: s} }
func NewArray(items ...Value) Value { return Value{kind: Array, items: items} }

func NewObject(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: Object, obj: m}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == Null }
func (v Value) IsObject() bool { return v.kind == Object }

func (v Value) Bool() (bool, bool)          { return v.b, v.kind == Bool }
func (v Value) Number() (json.Number, bool) { return v.num, v.kind == Number }
func (v Value) Str() (string, bool)         { return v.str, v.kind == String }
func (v Value) Items() ([]Value, bool)      { return v.items, v.kind == Array }

// Map returns the object's key map, or nil when v is not an object.
func (v Value) Map() *Map {
	if v.kind != Object {
		return nil
	}
	return v.obj
}

// Get looks up key in an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Interface converts v into the shapes encoding/json produces for an
// interface{} target, with numbers kept as json.Number.
func (v Value) Interface() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		return v.num
	case String:
		return v.str
	case Array:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, v.obj.Len())
		for _, k := range v.obj.Keys() {
			item, _ := v.obj.Get(k)
			out[k] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Map is an insertion-ordered string-keyed map of values.
type Map struct {
	keys   []string
	values map[string]Value
}

func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores v under key. A new key goes to the end, an existing key keeps
// its position.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}
