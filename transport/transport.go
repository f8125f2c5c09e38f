// Package transport implements the two WAMP basic-profile wire transports,
// raw-socket and WebSocket, each in plain and TLS variants, behind a single
// Transport interface. Transports move opaque serializer frames; they know
// nothing about message.Message.
package transport

import "fmt"

// Transport moves framed serializer output over a connection. A single
// Transport is owned by one session engine, which calls Recv from its read
// goroutine while its event-loop goroutine calls Send and Close. One Recv
// may therefore run concurrently with Send or Close; Send calls must not
// run concurrently with each other, nor Recv calls with each other.
type Transport interface {
	// Send writes one complete serialized message frame.
	Send(frame []byte) error

	// Recv blocks for the next complete serialized message frame.
	Recv() ([]byte, error)

	// Close releases the underlying connection. Concurrent or repeated
	// Close calls are safe; Recv unblocks with an error after Close.
	Close() error
}

// FrameTooLargeError is returned by RawSocket.Send when an outgoing frame
// exceeds the negotiated maximum message size. Incoming frames are not
// checked against that size.
type FrameTooLargeError struct {
	Size, Max uint32
}

func (e *FrameTooLargeError) Error() string {
	return fmt.Sprintf("transport: frame size %d exceeds maximum %d", e.Size, e.Max)
}
