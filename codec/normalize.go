package codec

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/ccbrown/hal-fu/hal"
	"github.com/ccbrown/hal-fu/jsontree"
)

// normalize converts the output of the YAML and MessagePack decoders into the same kind of tree
// jsontree.Decode produces. Those decoders pick the smallest Go type that holds a number, so
// integers are widened to int64 (or uint64 if they don't fit) and floats become jsontree.Float.
func normalize(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, string:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return normalizeUint(uint64(v)), nil
	case uint8:
		return normalizeUint(uint64(v)), nil
	case uint16:
		return normalizeUint(uint64(v)), nil
	case uint32:
		return normalizeUint(uint64(v)), nil
	case uint64:
		return normalizeUint(v), nil
	case float32:
		return jsontree.Float(hal.MustValueOf(v).(hal.Float)), nil
	case float64:
		return jsontree.Float(v), nil
	case []any:
		ret := make([]any, len(v))
		for i, item := range v {
			item, err := normalize(item)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d]", i)
			}
			ret[i] = item
		}
		return ret, nil
	}

	obj, ok := jsontree.AsObject(v)
	if !ok {
		return nil, &hal.Error{
			Kind:    hal.UnsupportedValue,
			Message: fmt.Sprintf("%T has no json equivalent", v),
		}
	}
	ret := jsontree.NewObjectWithCapacity(obj.Len())
	for _, item := range obj.Items() {
		value, err := normalize(item.Value)
		if err != nil {
			return nil, errors.Wrap(err, item.Key)
		}
		ret.Set(item.Key, value)
	}
	return ret, nil
}

func normalizeUint(v uint64) any {
	if v <= math.MaxInt64 {
		return int64(v)
	}
	return v
}
