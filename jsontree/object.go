package jsontree

import (
	"reflect"
	"sort"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack"
	"gopkg.in/yaml.v3"
)

// ObjectItem is a key-value pair for an item in an Object.
type ObjectItem struct {
	Key   string
	Value any
}

// Object represents a JSON object whose keys are always kept in lexicographic order. It's more or
// less just a sorted list that serializes to a JSON map.
//
// Values are expected to be generic tree values: nil, bool, string, int64, uint64, Float, []any,
// or *Object.
type Object struct {
	items []ObjectItem
}

// NewObject creates a new, empty object.
func NewObject() *Object {
	return &Object{}
}

// NewObjectWithCapacity creates a new, empty object with room for n items pre-allocated.
func NewObjectWithCapacity(n int) *Object {
	return &Object{
		items: make([]ObjectItem, 0, n),
	}
}

func (o *Object) search(key string) int {
	return sort.Search(len(o.items), func(i int) bool {
		return o.items[i].Key >= key
	})
}

// Set inserts a key-value pair, replacing the value if the key already exists.
func (o *Object) Set(key string, value any) {
	i := o.search(key)
	if i < len(o.items) && o.items[i].Key == key {
		o.items[i].Value = value
		return
	}
	o.items = append(o.items, ObjectItem{})
	copy(o.items[i+1:], o.items[i:])
	o.items[i] = ObjectItem{
		Key:   key,
		Value: value,
	}
}

// Get returns the value for the given key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	i := o.search(key)
	if i < len(o.items) && o.items[i].Key == key {
		return o.items[i].Value, true
	}
	return nil, false
}

// Len returns the number of items in the object.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.items)
}

// Keys returns the object's keys in sorted order.
func (o *Object) Keys() []string {
	ret := make([]string, o.Len())
	for i := range ret {
		ret[i] = o.items[i].Key
	}
	return ret
}

// Items provides the items in the object, sorted by key. The returned slice must not be modified.
func (o *Object) Items() []ObjectItem {
	if o == nil {
		return nil
	}
	return o.items
}

func (o *Object) MarshalJSON() ([]byte, error) {
	return api.Marshal(o)
}

// MarshalYAML emits the object as a mapping node so that key order is preserved.
func (o *Object) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}
	for _, item := range o.Items() {
		var k, v yaml.Node
		if err := k.Encode(item.Key); err != nil {
			return nil, err
		}
		if err := v.Encode(item.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &k, &v)
	}
	return node, nil
}

func (o *Object) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(o.Len()); err != nil {
		return err
	}
	for _, item := range o.Items() {
		if err := enc.EncodeString(item.Key); err != nil {
			return err
		}
		if err := enc.Encode(item.Value); err != nil {
			return err
		}
	}
	return nil
}

// AsObject interprets v as an object. In addition to *Object, it accepts the map types produced by
// the standard JSON, YAML, and MessagePack decoders. Maps are copied into a new sorted object. The
// second return value is false if v isn't an object or has a key that isn't a string.
func AsObject(v any) (*Object, bool) {
	switch v := v.(type) {
	case *Object:
		return v, v != nil
	case map[string]any:
		ret := NewObjectWithCapacity(len(v))
		for k, v := range v {
			ret.Set(k, v)
		}
		return ret, true
	case map[any]any:
		ret := NewObjectWithCapacity(len(v))
		for k, v := range v {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			ret.Set(s, v)
		}
		return ret, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	ret := NewObjectWithCapacity(rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		ret.Set(iter.Key().String(), iter.Value().Interface())
	}
	return ret, true
}

// AsArray interprets v as an array. Any non-nil slice or array is accepted.
func AsArray(v any) ([]any, bool) {
	if v, ok := v.([]any); ok {
		return v, v != nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	ret := make([]any, rv.Len())
	for i := range ret {
		ret[i] = rv.Index(i).Interface()
	}
	return ret, true
}

type objectEncoder struct{}

func (e *objectEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return ((*Object)(ptr)).Len() == 0
}

func (e *objectEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	o := (*Object)(ptr)
	if len(o.items) == 0 {
		stream.WriteEmptyObject()
		return
	}
	stream.WriteObjectStart()
	for i, item := range o.items {
		if i != 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(item.Key)
		writeValue(stream, item.Value)
	}
	stream.WriteObjectEnd()
}

// writeValue writes arrays itself since jsoniter's slice encoder replaces element errors with
// plain strings, which would hide an UnsupportedFloatError from callers.
func writeValue(stream *jsoniter.Stream, v any) {
	arr, ok := v.([]any)
	if !ok {
		stream.WriteVal(v)
		return
	}
	if arr == nil {
		stream.WriteNil()
		return
	}
	if len(arr) == 0 {
		stream.WriteEmptyArray()
		return
	}
	stream.WriteArrayStart()
	for i, elem := range arr {
		if i != 0 {
			stream.WriteMore()
		}
		writeValue(stream, elem)
	}
	stream.WriteArrayEnd()
}

func init() {
	jsoniter.RegisterTypeEncoder("jsontree.Object", &objectEncoder{})
	jsoniter.RegisterTypeEncoder("jsontree.Float", &floatEncoder{})
}
