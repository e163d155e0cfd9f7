// Package codec encodes and decodes HAL documents in the formats the hal command supports.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ccbrown/hal-fu/hal"
	"github.com/ccbrown/hal-fu/jsontree"
)

// Codec converts between generic JSON trees and a wire format.
type Codec interface {
	// Name is the short name used to select the codec, e.g. "json".
	Name() string

	// ContentType returns the media type for documents in this format (e.g.
	// "application/hal+json").
	ContentType() string

	// Marshal encodes a generic tree such as the one returned by (*hal.Resource).ToGenericJSON.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into a generic tree that hal.ResourceFromGenericJSON accepts.
	Unmarshal(data []byte) (any, error)
}

// Names lists the names accepted by ByName.
var Names = []string{"json", "yaml", "msgpack"}

// ByName returns the codec with the given name.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON(), nil
	case "yaml", "yml":
		return YAML(), nil
	case "msgpack", "messagepack":
		return MessagePack(), nil
	}
	return nil, errors.Errorf("unknown format %q (expected one of %v)", name, strings.Join(Names, ", "))
}

// ByExtension picks a codec based on a file's extension. Files with unrecognized extensions are
// assumed to be JSON.
func ByExtension(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML()
	case ".msgpack", ".mp":
		return MessagePack()
	}
	return JSON()
}

// Marshal encodes a resource. The only resources that can't be encoded are those containing floats
// that the format can't represent, in which case a hal.UnsupportedValue error is returned.
func Marshal(c Codec, r *hal.Resource) ([]byte, error) {
	buf, err := c.Marshal(r.ToGenericJSON())
	if err != nil {
		return nil, encodeError(c, err)
	}
	return buf, nil
}

// MarshalResource encodes anything that can represent itself as a resource.
func MarshalResource(c Codec, m hal.Marshaler) ([]byte, error) {
	return Marshal(c, m.MarshalHAL())
}

// Unmarshal decodes a resource, including any embedded resources.
func Unmarshal(c Codec, data []byte) (*hal.Resource, error) {
	v, err := c.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	r, err := hal.ResourceFromGenericJSON(v)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %v resource", c.Name())
	}
	return r, nil
}

func encodeError(c Codec, err error) error {
	var floatErr *jsontree.UnsupportedFloatError
	if errors.As(err, &floatErr) {
		err = &hal.Error{
			Kind:    hal.UnsupportedValue,
			Message: fmt.Sprintf("%v cannot be represented in %v", floatErr.Value, c.Name()),
		}
	}
	return errors.Wrapf(err, "unable to encode %v", c.Name())
}
