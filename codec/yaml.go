package codec

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type yamlCodec struct{}

// YAML returns a codec for application/hal+yaml documents. Keys are written in the same order as
// they are in JSON.
func YAML() Codec {
	return &yamlCodec{}
}

func (c *yamlCodec) Name() string {
	return "yaml"
}

func (c *yamlCodec) ContentType() string {
	return "application/hal+yaml"
}

func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (c *yamlCodec) Unmarshal(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "unable to decode yaml")
	}
	return normalize(v)
}
