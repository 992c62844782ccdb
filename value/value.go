// Package value defines the closed set of value shapes the store can hold.
//
// Every stored value is one of: a string, a scalar (int, float, bool, nil,
// date), a list, a record, or a binary blob. The codec layer selects an
// on-disk format from the shape, so the set is deliberately closed rather
// than accepting arbitrary dynamic data.
package value

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind identifies the concrete type held by a Value.
type Kind int

const (
	KindNil Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
	KindList
	KindRecord
	KindBinary
)

// Shape is the coarse classification that drives codec selection.
//
// All non-string scalars (int, float, bool, nil, date) share ShapeScalar;
// the string scalar is split out because it selects a different format.
type Shape string

const (
	ShapeString Shape = "string"
	ShapeScalar Shape = "scalar"
	ShapeList   Shape = "list"
	ShapeRecord Shape = "record"
	ShapeBinary Shape = "binary"
)

// Value is a tagged union over the supported kinds. The zero Value is nil.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
	t    time.Time
	list []Value
	rec  map[string]Value
	bin  []byte
}

func Nil() Value                 { return Value{kind: KindNil} }
func String(s string) Value      { return Value{kind: KindString, str: s} }
func Int(i int64) Value          { return Value{kind: KindInt, i: i} }
func Float(f float64) Value      { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Time(t time.Time) Value     { return Value{kind: KindTime, t: t} }
func List(elems ...Value) Value  { return Value{kind: KindList, list: elems} }
func Binary(data []byte) Value   { return Value{kind: KindBinary, bin: data} }

func Record(fields map[string]Value) Value {
	return Value{kind: KindRecord, rec: fields}
}

func (v Value) Kind() Kind { return v.kind }

// Shape returns the five-way classification used by the codec policy.
func (v Value) Shape() Shape {
	switch v.kind {
	case KindString:
		return ShapeString
	case KindList:
		return ShapeList
	case KindRecord:
		return ShapeRecord
	case KindBinary:
		return ShapeBinary
	default:
		return ShapeScalar
	}
}

// Elems returns the list contents. ok is false if the value is not a list.
func (v Value) Elems() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// Fields returns the record contents. ok is false if the value is not a record.
func (v Value) Fields() (map[string]Value, bool) {
	if v.kind != KindRecord {
		return nil, false
	}
	return v.rec, true
}

// Str returns the string contents. ok is false if the value is not a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Equal reports structural equality for composites and exact equality for
// scalars. Values of different kinds are never equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNil:
		return true
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	case KindBinary:
		return bytes.Equal(v.bin, o.bin)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(v.rec) != len(o.rec) {
			return false
		}
		for k, ve := range v.rec {
			oe, ok := o.rec[k]
			if !ok || !ve.Equal(oe) {
				return false
			}
		}
		return true
	}

	return false
}

// Interface converts the value to its native Go representation for the
// codecs: string, int64, float64, bool, nil, time.Time, []any,
// map[string]any, or []byte.
func (v Value) Interface() any {
	switch v.kind {
	case KindNil:
		return nil
	case KindString:
		return v.str
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindBinary:
		return v.bin
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	case KindRecord:
		out := make(map[string]any, len(v.rec))
		for k, e := range v.rec {
			out[k] = e.Interface()
		}
		return out
	}

	return nil
}

// FromInterface classifies decoded data back into the union. Codecs hand
// back a small set of dynamic types; anything else is an error rather than
// being coerced.
func FromInterface(data any) (Value, error) {
	switch d := data.(type) {
	case nil:
		return Nil(), nil
	case string:
		return String(d), nil
	case bool:
		return Bool(d), nil
	case int:
		return Int(int64(d)), nil
	case int8:
		return Int(int64(d)), nil
	case int16:
		return Int(int64(d)), nil
	case int32:
		return Int(int64(d)), nil
	case int64:
		return Int(d), nil
	case uint:
		return Int(int64(d)), nil
	case uint8:
		return Int(int64(d)), nil
	case uint16:
		return Int(int64(d)), nil
	case uint32:
		return Int(int64(d)), nil
	case uint64:
		return Int(int64(d)), nil
	case float32:
		return Float(float64(d)), nil
	case float64:
		return Float(d), nil
	case time.Time:
		return Time(d), nil
	case []byte:
		return Binary(d), nil
	case []any:
		elems := make([]Value, len(d))
		for i, e := range d {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return List(elems...), nil
	case map[string]any:
		fields := make(map[string]Value, len(d))
		for k, e := range d {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			fields[k] = ev
		}
		return Record(fields), nil
	case map[any]any:
		fields := make(map[string]Value, len(d))
		for k, e := range d {
			ks, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("unsupported record key type %T", k)
			}
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			fields[ks] = ev
		}
		return Record(fields), nil
	}

	return Value{}, fmt.Errorf("unsupported value type %T", data)
}

// String renders a compact single-line form for display and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindString:
		return v.str
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	case KindBinary:
		return fmt.Sprintf("binary(%d bytes)", len(v.bin))
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRecord:
		keys := make([]string, 0, len(v.rec))
		for k := range v.rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.rec[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}

	return "nil"
}
