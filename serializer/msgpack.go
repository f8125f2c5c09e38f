package serializer

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/elast0ny/wamp-async/message"
)

type msgpackSerializer struct{}

func (msgpackSerializer) Name() string { return "msgpack" }

func (msgpackSerializer) Pack(m message.Message) ([]byte, error) {
	tuple, err := message.Encode(m)
	if err != nil {
		return nil, fmt.Errorf("serializer/msgpack: encode: %w", err)
	}
	data, err := msgpack.Marshal(tuple)
	if err != nil {
		return nil, fmt.Errorf("serializer/msgpack: marshal: %w", err)
	}
	return data, nil
}

func (msgpackSerializer) Unpack(data []byte) (message.Message, error) {
	var tuple []interface{}
	if err := msgpack.Unmarshal(data, &tuple); err != nil {
		return nil, fmt.Errorf("serializer/msgpack: unmarshal: %w", err)
	}
	m, err := message.Decode(tuple)
	if err != nil {
		return nil, fmt.Errorf("serializer/msgpack: decode: %w", err)
	}
	return m, nil
}
