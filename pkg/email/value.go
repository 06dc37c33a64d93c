package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the type tag of a template Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "absent"
	}
}

// Value is a scalar template value. The zero Value is absent.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

func String(s string) Value { return Value{kind: KindString, str: s} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// ValueOf converts a decoded JSON scalar (or a Go scalar) into a Value.
// nil maps to an absent Value. Arrays, objects and any other composite type
// are rejected with ErrInvalidTemplateData.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a number", ErrInvalidTemplateData, v.String())
		}
		return Number(f), nil
	case float64:
		return Number(v), nil
	case float32:
		return Number(float64(v)), nil
	case int:
		return Number(float64(v)), nil
	case int32:
		return Number(float64(v)), nil
	case int64:
		return Number(float64(v)), nil
	case uint:
		return Number(float64(v)), nil
	case uint32:
		return Number(float64(v)), nil
	case uint64:
		return Number(float64(v)), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported value of type %T", ErrInvalidTemplateData, x)
	}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Truthy reports whether the value enables a conditional block.
// Absent is false, strings are true when not blank, numbers when non-zero,
// bools are themselves.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return strings.TrimSpace(v.str) != ""
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindBool:
		return v.b
	default:
		return false
	}
}

// String renders the value for substitution. Numbers use the shortest
// decimal form, so 5.5 renders as "5.5" and 24.0 as "24".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Blank reports whether the value is absent or renders to whitespace only.
func (v Value) Blank() bool {
	return v.kind == KindAbsent || strings.TrimSpace(v.String()) == ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTemplateData, err)
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Data is the caller supplied field set for a template.
type Data map[string]Value

// DataFrom converts a loosely typed map into Data. Every offending key is
// reported in one error.
func DataFrom(m map[string]any) (Data, error) {
	data := make(Data, len(m))
	var bad []string
	for k, raw := range m {
		v, err := ValueOf(raw)
		if err != nil {
			bad = append(bad, k)
			continue
		}
		data[k] = v
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, fmt.Errorf("%w: fields must be string, number, boolean or null: %s",
			ErrInvalidTemplateData, strings.Join(bad, ", "))
	}
	return data, nil
}

func (d *Data) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: templateData must be a JSON object", ErrInvalidTemplateData)
	}
	parsed, err := DataFrom(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Get returns the value for key, or an absent Value.
func (d Data) Get(key string) Value {
	return d[key]
}

// Clone returns a shallow copy. Values are immutable so this is a full copy.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
