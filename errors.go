package wamp

import (
	"github.com/elast0ny/wamp-async/internal/engine"
	"github.com/elast0ny/wamp-async/message"
)

// Error types returned by Client methods. They alias the session
// engine's and message package's own types so callers never need to
// import internal packages to use errors.As or errors.Is.
type (
	// ConnectionError wraps a transport-level failure: I/O, handshake,
	// TLS, framing, or an unexpected transport response.
	ConnectionError = engine.ConnectionError

	// SerializationError wraps a codec Pack or Unpack failure.
	SerializationError = engine.SerializationError

	// ProtocolError reports a well-formed message that violated the
	// WAMP session state machine.
	ProtocolError = engine.ProtocolError

	// ServerError reports a WAMP ERROR message mapped back to the
	// pending request it answers.
	ServerError = engine.ServerError

	// ClientDiedError is returned to every pending call when the
	// client's command channel is closed before Shutdown completes.
	ClientDiedError = engine.ClientDiedError

	// RequestIDCollisionError is reserved for an ID draw that cannot be
	// resolved; in practice the generator retries silently and this is
	// never observed.
	RequestIDCollisionError = engine.RequestIDCollisionError

	// InvalidURIError reports a URI that failed WAMP validation.
	InvalidURIError = message.InvalidURIError

	// UnknownError is a catch-all for a failure that does not fit any of
	// the other kinds above; it should not occur in practice.
	UnknownError = engine.UnknownError
)
