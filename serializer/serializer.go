// Package serializer implements the three WAMP basic-profile wire codecs
// (JSON, MsgPack, CBOR) behind a single Serializer interface. Each codec
// packs a message.Message into its positional wire tuple and marshals
// that tuple, and reverses the process on the way in.
package serializer

import (
	"fmt"

	"github.com/elast0ny/wamp-async/message"
)

// Serializer packs and unpacks WAMP messages for one wire codec.
type Serializer interface {
	// Pack encodes m into its wire representation.
	Pack(m message.Message) ([]byte, error)

	// Unpack decodes a wire representation produced by Pack back into a
	// typed message.Message.
	Unpack(data []byte) (message.Message, error)

	// Name reports the WAMP subprotocol/serializer identifier, e.g.
	// "json", "msgpack", "cbor".
	Name() string
}

// ID is a stable identifier naming one of the three supported codecs, used
// for raw-socket handshake negotiation and config defaults ordering.
type ID int

const (
	// JSON selects the JSON codec.
	JSON ID = iota
	// MsgPack selects the MessagePack codec.
	MsgPack
	// CBOR selects the CBOR codec.
	CBOR
)

func (id ID) String() string {
	switch id {
	case JSON:
		return "json"
	case MsgPack:
		return "msgpack"
	case CBOR:
		return "cbor"
	default:
		return "unknown"
	}
}

// New returns the Serializer implementation for id.
func New(id ID) (Serializer, error) {
	switch id {
	case JSON:
		return jsonSerializer{}, nil
	case MsgPack:
		return msgpackSerializer{}, nil
	case CBOR:
		return cborSerializer{}, nil
	default:
		return nil, &UnsupportedSerializerError{ID: id}
	}
}

// UnsupportedSerializerError is returned by New for an unrecognized ID.
type UnsupportedSerializerError struct {
	ID ID
}

func (e *UnsupportedSerializerError) Error() string {
	return fmt.Sprintf("serializer: unsupported serializer id %d", int(e.ID))
}
