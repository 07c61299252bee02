package graphvalue

import "fmt"

// Value is a sealed tagged variant over the property value types a
// back-end driver can surface. Concrete implementations are String,
// Int, Float, Bool, and List. The marker method keeps the set closed
// to this package.
type Value interface {
	graphValue()
}

// String is a textual property value.
type String string

func (String) graphValue() {}

// Int is a 64-bit signed integer property value.
type Int int64

func (Int) graphValue() {}

// Float is a 64-bit floating point property value.
type Float float64

func (Float) graphValue() {}

// Bool is a boolean property value.
type Bool bool

func (Bool) graphValue() {}

// List is an ordered collection of scalar property values. A List
// never contains another List; the back-end query templates only ever
// need one level of nesting.
type List []Value

func (List) graphValue() {}

// NewString wraps s as a Value.
func NewString(s string) Value { return String(s) }

// NewInt wraps i as a Value.
func NewInt(i int64) Value { return Int(i) }

// NewFloat wraps f as a Value.
func NewFloat(f float64) Value { return Float(f) }

// NewBool wraps b as a Value.
func NewBool(b bool) Value { return Bool(b) }

// NewList wraps vs as a Value, copying the slice so later mutation of
// vs by the caller cannot reach back into the stored property.
func NewList(vs ...Value) Value {
	out := make(List, len(vs))
	copy(out, vs)
	return out
}

// FromNative converts a Go native value (as returned by a driver's
// Value.AsObject) into a graphvalue.Value. It rejects nil and any type
// it does not recognize.
func FromNative(v any) (Value, error) {
	switch t := v.(type) {
	case string:
		return String(t), nil
	case int64:
		return Int(t), nil
	case int:
		return Int(int64(t)), nil
	case float64:
		return Float(t), nil
	case bool:
		return Bool(t), nil
	case []any:
		out := make(List, 0, len(t))
		for _, e := range t {
			ev, err := FromNative(e)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("graphvalue: unsupported native type %T", v)
	}
}

// ToNative converts a Value back into a plain Go value suitable for
// use as a driver statement parameter.
func ToNative(v Value) any {
	switch t := v.(type) {
	case String:
		return string(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case Bool:
		return bool(t)
	case List:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToNative(e)
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether a and b carry the same tag and payload.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
