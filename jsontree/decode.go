package jsontree

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var api = jsoniter.Config{}.Froze()

// Decode parses JSON text into a generic tree. Objects become *Object, integers become int64 (or
// uint64 if they're too large for int64), and all other numbers become Float.
func Decode(data []byte) (any, error) {
	iter := api.BorrowIterator(data)
	defer api.ReturnIterator(iter)

	v, err := readValue(iter)
	if err == nil && iter.Error != nil && iter.Error != io.EOF {
		err = iter.Error
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode json")
	}
	if iter.WhatIsNext() != jsoniter.InvalidValue || iter.Error == nil {
		return nil, errors.New("unable to decode json: unexpected data after top-level value")
	}
	return v, nil
}

func readValue(iter *jsoniter.Iterator) (any, error) {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		obj := NewObject()
		var err error
		iter.ReadObjectCB(func(iter *jsoniter.Iterator, key string) bool {
			var v any
			if v, err = readValue(iter); err != nil {
				return false
			}
			obj.Set(key, v)
			return true
		})
		return obj, err
	case jsoniter.ArrayValue:
		arr := []any{}
		var err error
		iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
			var v any
			if v, err = readValue(iter); err != nil {
				return false
			}
			arr = append(arr, v)
			return true
		})
		return arr, err
	case jsoniter.StringValue:
		return iter.ReadString(), nil
	case jsoniter.NumberValue:
		n := iter.ReadNumber()
		if iter.Error != nil && iter.Error != io.EOF {
			return nil, iter.Error
		}
		return ParseNumber(string(n))
	case jsoniter.BoolValue:
		return iter.ReadBool(), nil
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil, nil
	}
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, iter.Error
	}
	return nil, errors.New("expected a json value")
}

// ParseNumber converts a JSON number literal into a tree value. Literals with a fraction or
// exponent become Float. Integers become int64, or uint64 if they're positive and too large for
// int64. Integers too large for either fall back to Float.
func ParseNumber(s string) (any, error) {
	if !strings.ContainsAny(s, ".eE") {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, errors.Wrapf(err, "invalid number %q", s)
	}
	if math.IsInf(f, 0) {
		return nil, errors.Errorf("number %q is out of range", s)
	}
	return Float(f), nil
}

// Number converts a json.Number, as produced by decoders configured with UseNumber, into a tree
// value.
func Number(n json.Number) (any, error) {
	return ParseNumber(string(n))
}
