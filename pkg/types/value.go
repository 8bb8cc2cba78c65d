package types

import (
	"encoding/json"
	"fmt"
)

// ValueKind tags the variant held by a Value.
type ValueKind string

const (
	ValueInt   ValueKind = "int"
	ValueFloat ValueKind = "float"
	ValueText  ValueKind = "text"
	ValueBool  ValueKind = "bool"
	ValueList  ValueKind = "list"
	ValueMap   ValueKind = "map"
)

// Value is a small tagged union carried in check metadata, so results stay
// introspectable without leaking concrete dataset types to callers.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Text  string
	Bool  bool
	List  []Value
	Map   map[string]Value
}

// Metadata holds the check-specific diagnostic fields of a result.
type Metadata map[string]Value

func IntValue(v int64) Value {
	return Value{Kind: ValueInt, Int: v}
}

func FloatValue(v float64) Value {
	return Value{Kind: ValueFloat, Float: v}
}

func TextValue(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

func BoolValue(b bool) Value {
	return Value{Kind: ValueBool, Bool: b}
}

func ListValue(items ...Value) Value {
	return Value{Kind: ValueList, List: items}
}

// StringsValue wraps a string slice as a list of text values.
func StringsValue(ss []string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = TextValue(s)
	}
	return Value{Kind: ValueList, List: items}
}

func MapValue(m map[string]Value) Value {
	return Value{Kind: ValueMap, Map: m}
}

// MarshalJSON emits the underlying value rather than the union envelope, so
// metadata serializes to plain JSON for downstream sinks.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueInt:
		return json.Marshal(v.Int)
	case ValueFloat:
		return json.Marshal(v.Float)
	case ValueText:
		return json.Marshal(v.Text)
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case ValueMap:
		if v.Map == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Map)
	default:
		return nil, fmt.Errorf("unknown value kind %q", v.Kind)
	}
}
