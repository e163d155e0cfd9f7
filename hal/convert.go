package hal

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ccbrown/hal-fu/jsontree"
)

// Valuer can be implemented by types that want to control how they're represented as state.
type Valuer interface {
	HALValue() Value
}

// ValueOf converts a native Go value into a Value:
//
//   - nil, nil pointers, and nil interfaces become Null. Non-nil pointers are dereferenced.
//   - Signed integers become SignedInt, unsigned integers become UnsignedInt.
//   - Floats become Float, bools become Bool, and strings become Text.
//   - json.Number becomes SignedInt, UnsignedInt, or Float depending on its literal.
//   - Slices and arrays become List. A nil slice is an empty List.
//   - Maps with string keys, *jsontree.Object, and map[any]any with only string keys become
//     Object. A nil map is an empty Object.
//   - Values, Valuers, and encoding.TextMarshalers convert themselves.
//
// Anything else, such as a struct, channel, or function, results in an UnsupportedValue error.
// ValueOf accepts any generic JSON tree, including the output of encoding/json, json-iterator,
// yaml.v3, and msgpack decoders.
func ValueOf(v any) (Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || ((rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil()) {
		return Null{}, nil
	}

	switch v := v.(type) {
	case Value:
		return v, nil
	case Valuer:
		return v.HALValue(), nil
	case jsontree.Float:
		return Float(v), nil
	case json.Number:
		n, err := jsontree.Number(v)
		if err != nil {
			return nil, &Error{
				Kind:    TypeMismatch,
				Message: err.Error(),
			}
		}
		return ValueOf(n)
	case *jsontree.Object:
		ret := make(Object, v.Len())
		for _, item := range v.Items() {
			value, err := ValueOf(item.Value)
			if err != nil {
				return nil, errors.Wrap(err, item.Key)
			}
			ret[item.Key] = value
		}
		return ret, nil
	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return nil, &Error{
				Kind:    UnsupportedValue,
				Message: err.Error(),
			}
		}
		return Text(text), nil
	}

	return valueOfReflectValue(rv)
}

func valueOfReflectValue(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return ValueOf(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return SignedInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return UnsignedInt(rv.Uint()), nil
	case reflect.Float32:
		// Go through the shortest decimal representation so that float32(0.1) becomes 0.1, not
		// 0.10000000149011612.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		return Float(f), nil
	case reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Slice, reflect.Array:
		ret := make(List, rv.Len())
		for i := range ret {
			value, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return nil, errors.Wrapf(err, "[%d]", i)
			}
			ret[i] = value
		}
		return ret, nil
	case reflect.Map:
		keyKind := rv.Type().Key().Kind()
		if keyKind != reflect.String && keyKind != reflect.Interface {
			return nil, &Error{
				Kind:    UnsupportedValue,
				Message: fmt.Sprintf("map keys must be strings, not %v", rv.Type().Key()),
			}
		}
		ret := make(Object, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			if k.Kind() == reflect.Interface {
				k = k.Elem()
			}
			if k.Kind() != reflect.String {
				return nil, &Error{
					Kind:    UnsupportedValue,
					Message: fmt.Sprintf("map keys must be strings, got %v", iter.Key().Interface()),
				}
			}
			value, err := ValueOf(iter.Value().Interface())
			if err != nil {
				return nil, errors.Wrap(err, k.String())
			}
			ret[k.String()] = value
		}
		return ret, nil
	}
	return nil, &Error{
		Kind:    UnsupportedValue,
		Message: fmt.Sprintf("%v cannot be represented as a state value", rv.Type()),
	}
}

// MustValueOf is like ValueOf, but panics if the value can't be converted.
func MustValueOf(v any) Value {
	ret, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return ret
}
