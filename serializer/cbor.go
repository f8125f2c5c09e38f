package serializer

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/elast0ny/wamp-async/message"
)

type cborSerializer struct{}

func (cborSerializer) Name() string { return "cbor" }

func (cborSerializer) Pack(m message.Message) ([]byte, error) {
	tuple, err := message.Encode(m)
	if err != nil {
		return nil, fmt.Errorf("serializer/cbor: encode: %w", err)
	}
	data, err := cbor.Marshal(tuple)
	if err != nil {
		return nil, fmt.Errorf("serializer/cbor: marshal: %w", err)
	}
	return data, nil
}

// Unpack decodes a CBOR wire tuple. The cbor library decodes maps without a
// known Go type as map[interface{}]interface{}; message.Decode's dict/kwargs
// helpers already normalize that to string-keyed maps.
func (cborSerializer) Unpack(data []byte) (message.Message, error) {
	var tuple []interface{}
	if err := cbor.Unmarshal(data, &tuple); err != nil {
		return nil, fmt.Errorf("serializer/cbor: unmarshal: %w", err)
	}
	m, err := message.Decode(tuple)
	if err != nil {
		return nil, fmt.Errorf("serializer/cbor: decode: %w", err)
	}
	return m, nil
}
