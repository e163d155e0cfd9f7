package codec

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/ccbrown/hal-fu/jsontree"
)

type jsonCodec struct {
	api jsoniter.API
}

var compactJSON = &jsonCodec{
	api: jsoniter.Config{}.Froze(),
}

// JSON returns a codec for compact application/hal+json documents.
func JSON() Codec {
	return compactJSON
}

// JSONIndent returns a JSON codec that puts each member on its own line, indented by the given
// number of spaces per level.
func JSONIndent(spaces int) Codec {
	if spaces <= 0 {
		return compactJSON
	}
	return &jsonCodec{
		api: jsoniter.Config{
			IndentionStep: spaces,
		}.Froze(),
	}
}

func (c *jsonCodec) Name() string {
	return "json"
}

func (c *jsonCodec) ContentType() string {
	return "application/hal+json"
}

func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return c.api.Marshal(v)
}

// Unmarshal preserves the distinction between integers and floats, so "30" decodes as an integer
// and "30.0" decodes as a float.
func (c *jsonCodec) Unmarshal(data []byte) (any, error) {
	return jsontree.Decode(data)
}
