// Package wamp implements the client side of the WAMP v2 basic profile:
// a long-lived, session-oriented client multiplexing the Caller, Callee,
// Publisher, and Subscriber roles over one framed connection to a
// router.
//
// Dial a transport with DialRawSocket, DialRawSocketTLS, DialWebSocket,
// or DialWebSocketTLS to obtain a Client, then Join a realm before
// calling Subscribe, Publish, Register, or Call. Every Client method is
// safe to call from multiple goroutines; the session's single-owner
// event loop serializes access to the underlying connection internally.
package wamp
