// Package engine implements the WAMP session engine: the single-owner
// event loop that drives one connection's HELLO/WELCOME handshake, session
// state machine, and request/reply correlation. It is the core described
// by the facade in package wamp; nothing outside this module touches its
// tables.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/elast0ny/wamp-async/internal/idgen"
	"github.com/elast0ny/wamp-async/message"
	"github.com/elast0ny/wamp-async/serializer"
	"github.com/elast0ny/wamp-async/transport"
)

// sessionState is the engine's position in the WAMP session lifecycle.
type sessionState int

const (
	stateUnjoined sessionState = iota
	stateJoining
	stateJoined
	stateLeaving
	stateTerminated
)

// Status is a coarse connectivity state surfaced to the facade.
type Status int

const (
	StatusNoEventLoop Status = iota
	StatusRunning
	StatusDisconnected
)

// StatusUpdate is one transition on the engine's status channel.
type StatusUpdate struct {
	Status Status
	Err    error
}

// Engine owns one connection's transport, codec, and session tables. It
// runs as a single goroutine started by Run; no other goroutine may read
// or write its tables.
type Engine struct {
	cfg       Config
	transport transport.Transport
	codec     serializer.Serializer

	commands chan command
	status   chan StatusUpdate
	work     *invocationQueue
	workChan <-chan *Invocation
	inbound  chan inboundMsg
	done     chan struct{}

	state       sessionState
	realmJoined bool
	sessionID   message.ID
	peerRoles   message.Dict

	pendingRequests     map[message.ID]bool
	pendingTransactions map[message.ID]transactionWaiter
	pendingSubscribes   map[message.ID]*subscribeWaiter
	pendingRegisters    map[message.ID]*registerWaiter
	pendingCalls        map[message.ID]chan<- callReply

	subscriptions map[message.ID]*eventQueue
	registrations map[message.ID]InvocationHandler

	joining *joiningState
}

type inboundMsg struct {
	msg message.Message
	err error
}

// New constructs an engine bound to t and codec, ready to Run. Callers
// drive it exclusively through the methods in api.go (Join, Subscribe,
// Call, and so on); the command channel itself never leaves this
// package.
func New(cfg Config, t transport.Transport, codec serializer.Serializer) *Engine {
	e := &Engine{
		cfg:                 cfg,
		transport:           t,
		codec:               codec,
		commands:            make(chan command),
		status:              make(chan StatusUpdate, 4),
		inbound:             make(chan inboundMsg, 1),
		done:                make(chan struct{}),
		pendingRequests:     make(map[message.ID]bool),
		pendingTransactions: make(map[message.ID]transactionWaiter),
		pendingSubscribes:   make(map[message.ID]*subscribeWaiter),
		pendingRegisters:    make(map[message.ID]*registerWaiter),
		pendingCalls:        make(map[message.ID]chan<- callReply),
		subscriptions:       make(map[message.ID]*eventQueue),
		registrations:       make(map[message.ID]InvocationHandler),
	}
	if cfg.Roles.Has(RoleCallee) {
		e.work = newInvocationQueue()
		e.workChan = e.work.Chan()
	}
	return e
}

// Status returns the engine's status channel.
func (e *Engine) Status() <-chan StatusUpdate { return e.status }

// Work returns the RPC work channel, or nil if the Callee role is
// disabled in this engine's configuration. The channel never drops an
// invocation on a momentary backlog; it is unbounded and only closes once
// the engine has fully terminated.
func (e *Engine) Work() <-chan *Invocation {
	return e.workChan
}

// Run drives the event loop until the transport fails, a protocol
// violation occurs, or Shutdown is commanded. It returns once the engine
// has fully terminated and drained every pending reply.
func (e *Engine) Run() {
	e.status <- StatusUpdate{Status: StatusRunning}
	go e.readLoop()

	var finalErr error
	for {
		select {
		case in := <-e.inbound:
			if in.err != nil {
				// A read failure while no realm is joined (e.g. right
				// after our own Leave) is an expected close, not a
				// disconnect error.
				if e.realmJoined {
					finalErr = in.err
				}
				goto terminate
			}
			if stop, err := e.handleInbound(in.msg); stop {
				finalErr = err
				goto terminate
			}
		case cmd, ok := <-e.commands:
			if !ok {
				finalErr = &ClientDiedError{}
				goto terminate
			}
			if stop, err := e.handleCommand(cmd); stop {
				finalErr = err
				goto terminate
			}
		}
	}

terminate:
	e.terminate(finalErr)
}

func (e *Engine) readLoop() {
	for {
		frame, err := e.transport.Recv()
		if err != nil {
			select {
			case e.inbound <- inboundMsg{err: &ConnectionError{Err: err}}:
			case <-e.done:
			}
			return
		}
		msg, err := e.codec.Unpack(frame)
		if err != nil {
			select {
			case e.inbound <- inboundMsg{err: &SerializationError{Err: err}}:
			case <-e.done:
			}
			return
		}
		select {
		case e.inbound <- inboundMsg{msg: msg}:
		case <-e.done:
			return
		}
	}
}

func (e *Engine) terminate(cause error) {
	close(e.done)
	e.transport.Close()
	e.drainAll(cause)
	if e.work != nil {
		e.work.closeQueue()
	}
	e.state = stateTerminated
	e.status <- StatusUpdate{Status: StatusDisconnected, Err: cause}
	close(e.status)
}

func (e *Engine) drainAll(cause error) {
	err := disconnectError(cause)

	if e.joining != nil {
		e.joining.reply <- joinReply{Err: err}
		e.joining = nil
	}
	for id, w := range e.pendingTransactions {
		w(0, err)
		delete(e.pendingTransactions, id)
	}
	for id, w := range e.pendingSubscribes {
		w.reply <- subscribeReply{Err: err}
		delete(e.pendingSubscribes, id)
	}
	for id, w := range e.pendingRegisters {
		w.reply <- registerReply{Err: err}
		delete(e.pendingRegisters, id)
	}
	for id, ch := range e.pendingCalls {
		ch <- callReply{Err: err}
		delete(e.pendingCalls, id)
	}
	for id, q := range e.subscriptions {
		q.closeQueue()
		delete(e.subscriptions, id)
	}
	for id := range e.pendingRequests {
		delete(e.pendingRequests, id)
	}
}

// nextRequestID draws a fresh request ID not already outstanding.
func (e *Engine) nextRequestID() (message.ID, error) {
	id, err := idgen.Next(func(id message.ID) bool { return e.pendingRequests[id] })
	if err != nil {
		return 0, fmt.Errorf("engine: drawing request id: %w", err)
	}
	e.pendingRequests[id] = true
	return id, nil
}

func (e *Engine) releaseRequestID(id message.ID) {
	delete(e.pendingRequests, id)
}

// send packs and writes msg. On failure it returns a ConnectionError; the
// caller is responsible for rolling back any pending-table insertion.
func (e *Engine) send(msg message.Message) error {
	frame, err := e.codec.Pack(msg)
	if err != nil {
		return &SerializationError{Err: err}
	}
	if err := e.transport.Send(frame); err != nil {
		return &ConnectionError{Err: err}
	}
	return nil
}

func (e *Engine) logDrop(kind string, id message.ID) {
	slog.Warn("wamp: dropping message for unknown correlation id", "kind", kind, "id", uint64(id))
}
