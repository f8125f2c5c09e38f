package transport

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/elast0ny/wamp-async/serializer"
)

// Raw-socket handshake and framing constants, fixed by the WAMP-over-
// raw-socket wire format.
const (
	rawSocketMagic      byte   = 0x7F
	rawSocketMinMsgSize uint32 = 1 << 9
	rawSocketMaxMsgSize uint32 = 1 << 24

	frameTypeRegular byte = 0
	frameTypePing    byte = 1
	frameTypePong    byte = 2
)

// rawSocketSerializerNibble maps a serializer.ID to its raw-socket
// handshake low nibble: 1=JSON, 2=MsgPack, 0=CBOR.
func rawSocketSerializerNibble(id serializer.ID) (byte, error) {
	switch id {
	case serializer.JSON:
		return 1, nil
	case serializer.MsgPack:
		return 2, nil
	case serializer.CBOR:
		return 0, nil
	default:
		return 0, fmt.Errorf("transport: no raw-socket serializer nibble for %v", id)
	}
}

// HandshakeRejectedError reports a raw-socket handshake rejected by the
// peer, carrying the error nibble so callers can distinguish a rejected
// serializer proposal (nibble 1) from other rejection reasons and retry
// with the next serializer in their priority list.
type HandshakeRejectedError struct {
	Nibble byte
	Reason string
}

func (e *HandshakeRejectedError) Error() string {
	return fmt.Sprintf("transport/rawsocket: server rejected handshake: %s", e.Reason)
}

// SerializerUnsupported reports whether the rejection was specifically
// nibble 1, "serializer unsupported".
func (e *HandshakeRejectedError) SerializerUnsupported() bool { return e.Nibble == 1 }

func rawSocketHandshakeError(nibble byte) string {
	switch nibble {
	case 0:
		return "illegal (must not be used)"
	case 1:
		return "serializer unsupported"
	case 2:
		return "maximum message length unacceptable"
	case 3:
		return "use of reserved bits (unsupported feature)"
	case 4:
		return "maximum connection count reached"
	default:
		return "unknown error"
	}
}

// sizeNibble returns the smallest nibble n such that 2^(9+n) >= want,
// clamped to the raw-socket min/max message size.
func sizeNibble(want uint32) byte {
	size := rawSocketMinMsgSize
	var n byte
	for size < want && size < rawSocketMaxMsgSize {
		size <<= 1
		n++
	}
	return n
}

// RawSocket is the framed TCP transport: a one-time 4-byte handshake
// followed by a stream of 4-byte-prefixed frames.
type RawSocket struct {
	conn       net.Conn
	maxMsgSize uint32
}

// DialRawSocket opens a plain TCP connection to addr and performs the
// WAMP raw-socket handshake negotiating id and maxMsgSize.
func DialRawSocket(addr string, id serializer.ID, maxMsgSize uint32) (*RawSocket, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport/rawsocket: dial %s: %w", addr, err)
	}
	return newRawSocket(conn, id, maxMsgSize)
}

// DialRawSocketTLS opens a TLS connection to addr and performs the WAMP
// raw-socket handshake negotiating id and maxMsgSize.
func DialRawSocketTLS(addr string, cfg *tls.Config, id serializer.ID, maxMsgSize uint32) (*RawSocket, error) {
	conn, err := tls.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("transport/rawsocket: tls dial %s: %w", addr, err)
	}
	return newRawSocket(conn, id, maxMsgSize)
}

func newRawSocket(conn net.Conn, id serializer.ID, maxMsgSize uint32) (*RawSocket, error) {
	if maxMsgSize == 0 {
		maxMsgSize = rawSocketMaxMsgSize
	}

	serNibble, err := rawSocketSerializerNibble(id)
	if err != nil {
		conn.Close()
		return nil, err
	}

	client := [4]byte{
		rawSocketMagic,
		(sizeNibble(maxMsgSize) << 4) | (serNibble & 0x0F),
		0, 0,
	}

	slog.Debug("raw-socket sending handshake", "bytes", client, "serializer", id)
	if _, err := conn.Write(client[:]); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport/rawsocket: writing handshake: %w", err)
	}

	var server [4]byte
	if _, err := io.ReadFull(conn, server[:]); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport/rawsocket: reading handshake reply: %w", err)
	}

	if server[0] != rawSocketMagic || server[2] != 0 || server[3] != 0 {
		conn.Close()
		return nil, fmt.Errorf("transport/rawsocket: server reply was not a WAMP raw-socket handshake")
	}
	if server[1] != client[1] {
		errNibble := (server[1] & 0xF0) >> 4
		conn.Close()
		return nil, &HandshakeRejectedError{Nibble: errNibble, Reason: rawSocketHandshakeError(errNibble)}
	}

	negotiated := rawSocketMinMsgSize << sizeNibble(maxMsgSize)
	return &RawSocket{conn: conn, maxMsgSize: negotiated}, nil
}

// Send writes frame as a regular raw-socket message.
func (r *RawSocket) Send(frame []byte) error {
	return r.sendFramed(frameTypeRegular, frame)
}

func (r *RawSocket) sendFramed(frameType byte, payload []byte) error {
	if uint32(len(payload)) > r.maxMsgSize {
		return &FrameTooLargeError{Size: uint32(len(payload)), Max: r.maxMsgSize}
	}

	var header [4]byte
	header[0] = frameType & 0x07
	header[1] = byte(len(payload) >> 16)
	header[2] = byte(len(payload) >> 8)
	header[3] = byte(len(payload))

	if _, err := r.conn.Write(header[:]); err != nil {
		return fmt.Errorf("transport/rawsocket: writing frame header: %w", err)
	}
	if _, err := r.conn.Write(payload); err != nil {
		return fmt.Errorf("transport/rawsocket: writing frame payload: %w", err)
	}
	return nil
}

// Recv reads the next regular frame, skipping PING and PONG frames. Unlike
// WebSocket, the raw-socket profile does not require a PING to be answered;
// replying here would also mean writing from the goroutine that calls Recv
// while the owning engine's Send calls write from a different goroutine,
// corrupting frame boundaries on the wire.
func (r *RawSocket) Recv() ([]byte, error) {
	for {
		var header [4]byte
		if _, err := io.ReadFull(r.conn, header[:]); err != nil {
			return nil, fmt.Errorf("transport/rawsocket: reading frame header: %w", err)
		}
		if header[0]&0xF8 != 0 {
			return nil, fmt.Errorf("transport/rawsocket: invalid frame header %v", header)
		}
		frameType := header[0] & 0x07
		length := uint32(header[3]) + uint32(header[2])<<8 + uint32(header[1])<<16

		payload := make([]byte, length)
		if _, err := io.ReadFull(r.conn, payload); err != nil {
			return nil, fmt.Errorf("transport/rawsocket: reading frame payload: %w", err)
		}

		switch frameType {
		case frameTypeRegular:
			return payload, nil
		case frameTypePing, frameTypePong:
			// skipped per the raw-socket profile; no reply required
		default:
			return nil, fmt.Errorf("transport/rawsocket: reserved frame type %d", frameType)
		}
	}
}

// Close closes the underlying connection.
func (r *RawSocket) Close() error {
	return r.conn.Close()
}

// SetDeadline propagates a read/write deadline to the underlying
// connection. The session engine does not call it.
func (r *RawSocket) SetDeadline(t time.Time) error {
	return r.conn.SetDeadline(t)
}
