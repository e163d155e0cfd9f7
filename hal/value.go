package hal

import (
	"fmt"

	"github.com/ccbrown/hal-fu/jsontree"
)

// Value represents a resource's state value. The set of implementations is closed: SignedInt,
// UnsignedInt, Float, Text, Bool, Null, List, and Object are the only types that satisfy it.
//
// Values are immutable once constructed. Use EqualValues to compare them.
type Value interface {
	isValue()
}

// SignedInt is an integer that fits in an int64.
type SignedInt int64

// UnsignedInt is an unsigned integer, such as one converted from a uint64.
type UnsignedInt uint64

// Float is a floating point number.
type Float float64

// Text is a string.
type Text string

// Bool is a boolean.
type Bool bool

// Null is the JSON null value. It is also what absent optional values, such as nil pointers,
// convert to.
type Null struct{}

// List is an ordered sequence of values.
type List []Value

// Object is a string-keyed mapping of values. Regardless of Go's map iteration order, objects are
// always serialized with their keys in lexicographic order.
type Object map[string]Value

func (SignedInt) isValue()   {}
func (UnsignedInt) isValue() {}
func (Float) isValue()       {}
func (Text) isValue()        {}
func (Bool) isValue()        {}
func (Null) isValue()        {}
func (List) isValue()        {}
func (Object) isValue()      {}

// EqualValues reports whether two values are structurally equal. Variants must match exactly, so
// SignedInt(1) and UnsignedInt(1) are not equal.
func EqualValues(a, b Value) bool {
	switch a := a.(type) {
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !EqualValues(a[i], b[i]) {
				return false
			}
		}
		return true
	case Object:
		b, ok := b.(Object)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, v := range a {
			if other, ok := b[k]; !ok || !EqualValues(v, other) {
				return false
			}
		}
		return true
	}
	return a == b
}

// ValueToGenericJSON converts a value into a generic JSON tree. Objects become *jsontree.Object,
// lists become []any, and floats become jsontree.Float so that they're still floats once decoded.
// A nil Value is treated as Null.
func ValueToGenericJSON(v Value) any {
	switch v := v.(type) {
	case SignedInt:
		return int64(v)
	case UnsignedInt:
		return uint64(v)
	case Float:
		return jsontree.Float(v)
	case Text:
		return string(v)
	case Bool:
		return bool(v)
	case Null, nil:
		return nil
	case List:
		ret := make([]any, len(v))
		for i, item := range v {
			ret[i] = ValueToGenericJSON(item)
		}
		return ret
	case Object:
		ret := jsontree.NewObjectWithCapacity(len(v))
		for k, item := range v {
			ret.Set(k, ValueToGenericJSON(item))
		}
		return ret
	}
	panic(fmt.Sprintf("unknown value type %T", v))
}
