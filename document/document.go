// Package document models schema-free ground-truth and prediction documents.
//
// A Value is one of six kinds: null, bool, number, string, map or sequence.
// Maps keep their keys unique and remember insertion order, so every
// traversal over a decoded document is deterministic. Numbers keep the
// literal text they were decoded from.
package document

import (
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMap
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindSequence:
		return "sequence"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Field is a single map entry.
type Field struct {
	Key   string
	Value Value
}

// Value is a node of a Document. The zero Value is null.
type Value struct {
	kind   Kind
	text   string // string contents, or number literal
	b      bool
	fields []Field
	items  []Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// NewString returns a string value.
func NewString(s string) Value { return Value{kind: KindString, text: s} }

// NewBool returns a boolean value.
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewNumber returns a number holding the given literal, e.g. "100" or "1.5".
// The literal is kept verbatim and is what Text reports.
func NewNumber(literal string) Value { return Value{kind: KindNumber, text: literal} }

// NewInt returns a number value for n.
func NewInt(n int64) Value { return NewNumber(strconv.FormatInt(n, 10)) }

// NewFloat returns a number value for f. NaN and infinities have no JSON
// representation and become null.
func NewFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return NewNumber(strconv.FormatFloat(f, 'f', -1, 64))
}

// NewMap returns a map built from fields. A repeated key replaces the value
// of its first occurrence, keeping that position.
func NewMap(fields ...Field) Value {
	out := make([]Field, 0, len(fields))
	index := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := index[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		index[f.Key] = len(out)
		out = append(out, f)
	}
	return Value{kind: KindMap, fields: out}
}

// NewSequence returns a sequence of items.
func NewSequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, items: items}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether v is a string, number or bool.
func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindNumber || v.kind == KindBool
}

// Str returns the contents of a string value.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// Bool returns the contents of a boolean value.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Float parses a number value.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Text returns the textual form of a scalar: the string itself, the number
// literal, or "true"/"false". Null, maps and sequences yield "".
func (v Value) Text() string {
	switch v.kind {
	case KindString, KindNumber:
		return v.text
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Fields returns the entries of a map in stored order.
func (v Value) Fields() []Field {
	if v.kind != KindMap {
		return nil
	}
	return v.fields
}

// Items returns the elements of a sequence.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.items
}

// Len returns the number of map entries or sequence items, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindMap:
		return len(v.fields)
	case KindSequence:
		return len(v.items)
	default:
		return 0
	}
}

// Get looks up key in a map.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether v is a map containing key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// GetString returns the string stored under key, if any.
func (v Value) GetString(key string) (string, bool) {
	child, ok := v.Get(key)
	if !ok {
		return "", false
	}
	return child.Str()
}

// Equal reports whether a and b hold the same document. Map order is
// significant.
func Equal(a, b Value) bool {
	type pair struct{ a, b Value }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.a.kind != p.b.kind {
			return false
		}
		switch p.a.kind {
		case KindBool:
			if p.a.b != p.b.b {
				return false
			}
		case KindString, KindNumber:
			if p.a.text != p.b.text {
				return false
			}
		case KindMap:
			if len(p.a.fields) != len(p.b.fields) {
				return false
			}
			for i := range p.a.fields {
				if p.a.fields[i].Key != p.b.fields[i].Key {
					return false
				}
				stack = append(stack, pair{p.a.fields[i].Value, p.b.fields[i].Value})
			}
		case KindSequence:
			if len(p.a.items) != len(p.b.items) {
				return false
			}
			for i := range p.a.items {
				stack = append(stack, pair{p.a.items[i], p.b.items[i]})
			}
		}
	}
	return true
}
