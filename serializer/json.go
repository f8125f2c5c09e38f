package serializer

import (
	"encoding/json"
	"fmt"

	"github.com/elast0ny/wamp-async/message"
)

type jsonSerializer struct{}

func (jsonSerializer) Name() string { return "json" }

func (jsonSerializer) Pack(m message.Message) ([]byte, error) {
	tuple, err := message.Encode(m)
	if err != nil {
		return nil, fmt.Errorf("serializer/json: encode: %w", err)
	}
	data, err := json.Marshal(tuple)
	if err != nil {
		return nil, fmt.Errorf("serializer/json: marshal: %w", err)
	}
	return data, nil
}

func (jsonSerializer) Unpack(data []byte) (message.Message, error) {
	var tuple []interface{}
	if err := json.Unmarshal(data, &tuple); err != nil {
		return nil, fmt.Errorf("serializer/json: unmarshal: %w", err)
	}
	m, err := message.Decode(tuple)
	if err != nil {
		return nil, fmt.Errorf("serializer/json: decode: %w", err)
	}
	return m, nil
}
