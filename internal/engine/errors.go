package engine

import (
	"fmt"

	"github.com/elast0ny/wamp-async/message"
)

// ConnectionError wraps a transport-level failure: I/O, handshake, TLS,
// framing, or an unexpected transport response.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return fmt.Sprintf("wamp: connection error: %v", e.Err) }
func (e *ConnectionError) Unwrap() error { return e.Err }

// SerializationError wraps a codec Pack or Unpack failure.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("wamp: serialization error: %v", e.Err)
}
func (e *SerializationError) Unwrap() error { return e.Err }

// ProtocolError reports a well-formed message that violated the WAMP
// state machine, e.g. a HELLO answered with anything but
// WELCOME/CHALLENGE/ABORT.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "wamp: protocol error: " + e.Reason }

// ServerError reports a WAMP ERROR message mapped back to the pending
// request it answers; URI and Details are surfaced verbatim.
type ServerError struct {
	URI     message.URI
	Details message.Dict
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("wamp: server error %s: %v", e.URI, e.Details)
}

// ClientDiedError is returned to every pending reply when the command
// channel closes before Shutdown was requested.
type ClientDiedError struct{}

func (e *ClientDiedError) Error() string { return "wamp: client died: command channel closed" }

// RequestIDCollisionError is reserved for the case where a fresh ID draw
// cannot be resolved; in practice idgen retries silently and this is
// never returned by this implementation.
type RequestIDCollisionError struct{}

func (e *RequestIDCollisionError) Error() string { return "wamp: request id collision" }

// UnknownError is a catch-all for a failure that does not fit any of the
// other error kinds. It should not occur in practice; its existence is
// defensive against a future message or transport variant this engine
// does not yet classify.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string { return fmt.Sprintf("wamp: unknown error: %v", e.Err) }
func (e *UnknownError) Unwrap() error { return e.Err }

// disconnectError wraps the cause attributed to pending replies drained at
// engine termination.
func disconnectError(cause error) error {
	if cause == nil {
		return &ClientDiedError{}
	}
	return cause
}
