package codec

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
)

type msgpackCodec struct{}

// MessagePack returns a codec for MessagePack documents.
func MessagePack() Codec {
	return &msgpackCodec{}
}

func (c *msgpackCodec) Name() string {
	return "msgpack"
}

func (c *msgpackCodec) ContentType() string {
	return "application/vnd.msgpack"
}

func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *msgpackCodec) Unmarshal(data []byte) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode msgpack")
	}
	if _, err := dec.PeekCode(); err == nil {
		return nil, errors.New("unable to decode msgpack: unexpected data after top-level value")
	}
	return normalize(v)
}
