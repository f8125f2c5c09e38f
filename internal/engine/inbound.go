package engine

import (
	"fmt"

	"github.com/elast0ny/wamp-async/message"
)

// handleInbound dispatches one decoded inbound message. It returns
// (true, err) when the engine must terminate as a result.
func (e *Engine) handleInbound(m message.Message) (bool, error) {
	switch v := m.(type) {
	case *message.Welcome:
		return e.onWelcome(v)
	case *message.Challenge:
		return e.onChallenge(v)
	case *message.Abort:
		return e.onAbort(v)
	case *message.Goodbye:
		return e.onGoodbye(v)
	case *message.Subscribed:
		e.onSubscribed(v)
		return false, nil
	case *message.Unsubscribed:
		e.onUnsubscribed(v)
		return false, nil
	case *message.Published:
		e.onPublished(v)
		return false, nil
	case *message.Event:
		e.onEvent(v)
		return false, nil
	case *message.Registered:
		e.onRegistered(v)
		return false, nil
	case *message.Unregistered:
		e.onUnregistered(v)
		return false, nil
	case *message.Invocation:
		e.onInvocation(v)
		return false, nil
	case *message.Result:
		e.onResult(v)
		return false, nil
	case *message.Error:
		e.onError(v)
		return false, nil
	default:
		e.logDrop(fmt.Sprintf("%T", m), 0)
		return false, nil
	}
}

func (e *Engine) onWelcome(v *message.Welcome) (bool, error) {
	if e.state != stateJoining || e.joining == nil {
		return true, &ProtocolError{Reason: "WELCOME received outside Joining state"}
	}
	e.sessionID = v.Session
	e.peerRoles = asPeerRoles(v.Details["roles"])
	e.realmJoined = true
	e.state = stateJoined

	j := e.joining
	e.joining = nil
	j.reply <- joinReply{SessionID: v.Session, Roles: e.peerRoles}
	return false, nil
}

// asPeerRoles normalizes the WELCOME details' "roles" field, which may
// arrive as message.Dict (constructed in-process) or as the codec's raw
// decoded map shape depending on serializer.
func asPeerRoles(v interface{}) message.Dict {
	switch m := v.(type) {
	case message.Dict:
		return m
	case map[string]interface{}:
		return message.Dict(m)
	case map[interface{}]interface{}:
		out := make(message.Dict, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out
	default:
		return message.Dict{}
	}
}

func (e *Engine) onChallenge(v *message.Challenge) (bool, error) {
	if e.state != stateJoining || e.joining == nil {
		return true, &ProtocolError{Reason: "CHALLENGE received outside Joining state"}
	}
	if e.joining.challengeHandler == nil {
		return true, &ProtocolError{Reason: "CHALLENGE received with no challenge handler configured"}
	}

	sig, extra, err := e.joining.challengeHandler(v.AuthMethod, v.Extra)
	if err != nil {
		return true, &ProtocolError{Reason: "challenge handler failed: " + err.Error()}
	}
	if extra == nil {
		extra = message.Dict{}
	}
	authenticate := &message.Authenticate{Signature: sig, Extra: extra}
	if err := e.send(authenticate); err != nil {
		return true, err
	}
	return false, nil
}

func (e *Engine) onAbort(v *message.Abort) (bool, error) {
	err := &ProtocolError{Reason: fmt.Sprintf("ABORT: %s %v", v.Reason, v.Details)}
	if e.joining != nil {
		j := e.joining
		e.joining = nil
		j.reply <- joinReply{Err: err}
	}
	return true, err
}

func (e *Engine) onGoodbye(v *message.Goodbye) (bool, error) {
	if e.realmJoined {
		reply := &message.Goodbye{Details: message.Dict{}, Reason: "wamp.close.goodbye_and_out"}
		e.realmJoined = false
		if err := e.send(reply); err != nil {
			return true, err
		}
		return true, nil
	}
	if v.Reason == "wamp.close.goodbye_and_out" {
		// Acknowledgement of our own Leave: the exchange is complete, and
		// the engine is ready for a fresh Join on the same connection.
		e.state = stateUnjoined
		return false, nil
	}
	return true, &ProtocolError{Reason: "unexpected GOODBYE while not joined"}
}

func (e *Engine) onSubscribed(v *message.Subscribed) {
	w, ok := e.pendingSubscribes[v.Request]
	if !ok {
		e.logDrop("SUBSCRIBED", v.Request)
		return
	}
	delete(e.pendingSubscribes, v.Request)
	e.releaseRequestID(v.Request)

	if _, exists := e.subscriptions[v.Subscription]; exists {
		e.logDrop("SUBSCRIBED(duplicate subscription id)", v.Subscription)
		w.reply <- subscribeReply{Err: &ProtocolError{Reason: "duplicate subscription id"}}
		return
	}
	q := newEventQueue()
	e.subscriptions[v.Subscription] = q
	w.reply <- subscribeReply{Subscription: v.Subscription, Events: q.Chan()}
}

func (e *Engine) onUnsubscribed(v *message.Unsubscribed) {
	w, ok := e.pendingTransactions[v.Request]
	if !ok {
		e.logDrop("UNSUBSCRIBED", v.Request)
		return
	}
	delete(e.pendingTransactions, v.Request)
	e.releaseRequestID(v.Request)
	w(0, nil)
}

func (e *Engine) onPublished(v *message.Published) {
	w, ok := e.pendingTransactions[v.Request]
	if !ok {
		e.logDrop("PUBLISHED", v.Request)
		return
	}
	delete(e.pendingTransactions, v.Request)
	e.releaseRequestID(v.Request)
	w(v.Publication, nil)
}

func (e *Engine) onEvent(v *message.Event) {
	q, ok := e.subscriptions[v.Subscription]
	if !ok {
		e.logDrop("EVENT", v.Subscription)
		return
	}
	q.push(Event{Publication: v.Publication, Details: v.Details, Args: v.Args, KwArgs: v.KwArgs})
}

func (e *Engine) onRegistered(v *message.Registered) {
	w, ok := e.pendingRegisters[v.Request]
	if !ok {
		e.logDrop("REGISTERED", v.Request)
		return
	}
	delete(e.pendingRegisters, v.Request)
	e.releaseRequestID(v.Request)

	if _, exists := e.registrations[v.Registration]; exists {
		e.logDrop("REGISTERED(duplicate registration id)", v.Registration)
		w.reply <- registerReply{Err: &ProtocolError{Reason: "duplicate registration id"}}
		return
	}
	e.registrations[v.Registration] = w.handler
	w.reply <- registerReply{Registration: v.Registration}
}

func (e *Engine) onUnregistered(v *message.Unregistered) {
	w, ok := e.pendingTransactions[v.Request]
	if !ok {
		e.logDrop("UNREGISTERED", v.Request)
		return
	}
	delete(e.pendingTransactions, v.Request)
	e.releaseRequestID(v.Request)
	w(0, nil)
}

func (e *Engine) onInvocation(v *message.Invocation) {
	handler, ok := e.registrations[v.Registration]
	if !ok {
		e.logDrop("INVOCATION", v.Registration)
		return
	}
	if e.work == nil {
		e.logDrop("INVOCATION(callee role disabled)", v.Registration)
		return
	}
	inv := &Invocation{
		Request:      v.Request,
		Registration: v.Registration,
		Details:      v.Details,
		Args:         v.Args,
		KwArgs:       v.KwArgs,
		handler:      handler,
		commands:     e.commands,
		done:         e.done,
	}
	e.work.push(inv)
}

func (e *Engine) onResult(v *message.Result) {
	ch, ok := e.pendingCalls[v.Request]
	if !ok {
		e.logDrop("RESULT", v.Request)
		return
	}
	delete(e.pendingCalls, v.Request)
	e.releaseRequestID(v.Request)
	ch <- callReply{Args: v.Args, KwArgs: v.KwArgs}
}

func (e *Engine) onError(v *message.Error) {
	serverErr := &ServerError{URI: v.URI, Details: v.Details}

	switch v.RequestType {
	case message.CodeSubscribe:
		if w, ok := e.pendingSubscribes[v.Request]; ok {
			delete(e.pendingSubscribes, v.Request)
			e.releaseRequestID(v.Request)
			w.reply <- subscribeReply{Err: serverErr}
			return
		}
	case message.CodeUnsubscribe, message.CodePublish, message.CodeUnregister:
		if w, ok := e.pendingTransactions[v.Request]; ok {
			delete(e.pendingTransactions, v.Request)
			e.releaseRequestID(v.Request)
			w(0, serverErr)
			return
		}
	case message.CodeRegister:
		if w, ok := e.pendingRegisters[v.Request]; ok {
			delete(e.pendingRegisters, v.Request)
			e.releaseRequestID(v.Request)
			w.reply <- registerReply{Err: serverErr}
			return
		}
	case message.CodeCall:
		if ch, ok := e.pendingCalls[v.Request]; ok {
			delete(e.pendingCalls, v.Request)
			e.releaseRequestID(v.Request)
			ch <- callReply{Err: serverErr}
			return
		}
	default:
		e.logDrop(fmt.Sprintf("ERROR(unknown request type %v)", v.RequestType), v.Request)
		return
	}
	e.logDrop("ERROR", v.Request)
}
