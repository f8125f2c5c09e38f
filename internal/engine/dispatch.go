package engine

import (
	"fmt"

	"github.com/elast0ny/wamp-async/message"
)

// handleCommand processes one command from the facade. It returns
// (true, err) when the engine must terminate as a result.
func (e *Engine) handleCommand(cmd command) (bool, error) {
	switch c := cmd.(type) {
	case *joinCommand:
		return e.handleJoin(c)
	case *leaveCommand:
		return e.handleLeave(c)
	case *subscribeCommand:
		return e.handleSubscribe(c)
	case *unsubscribeCommand:
		return e.handleUnsubscribe(c)
	case *publishCommand:
		return e.handlePublish(c)
	case *registerCommand:
		return e.handleRegister(c)
	case *unregisterCommand:
		return e.handleUnregister(c)
	case *callCommand:
		return e.handleCall(c)
	case *invocationResultCommand:
		return e.handleInvocationResult(c)
	case *shutdownCommand:
		close(c.reply)
		return true, nil
	default:
		return true, fmt.Errorf("engine: unknown command type %T", cmd)
	}
}

func notConnected() error { return &ProtocolError{Reason: "not connected: no session"} }

func (e *Engine) handleJoin(c *joinCommand) (bool, error) {
	if e.state != stateUnjoined {
		c.reply <- joinReply{Err: notConnected()}
		return false, nil
	}

	roleDict := message.Dict{}
	if e.cfg.Roles.Has(RoleCaller) {
		roleDict["caller"] = message.Dict{}
	}
	if e.cfg.Roles.Has(RoleCallee) {
		roleDict["callee"] = message.Dict{}
	}
	if e.cfg.Roles.Has(RolePublisher) {
		roleDict["publisher"] = message.Dict{}
	}
	if e.cfg.Roles.Has(RoleSubscriber) {
		roleDict["subscriber"] = message.Dict{}
	}

	details := message.Dict{"roles": roleDict}
	if e.cfg.Agent != "" {
		details["agent"] = e.cfg.Agent
	}
	if len(c.authMethods) > 0 {
		methods := make([]interface{}, len(c.authMethods))
		for i, m := range c.authMethods {
			methods[i] = m
		}
		details["authmethods"] = methods
	}
	if c.authID != "" {
		details["authid"] = c.authID
	}
	if c.authExtra != nil {
		details["authextra"] = c.authExtra
	}

	hello := &message.Hello{Realm: c.realm, Details: details}
	if err := e.send(hello); err != nil {
		c.reply <- joinReply{Err: err}
		return true, err
	}

	e.state = stateJoining
	e.joining = &joiningState{
		authExtra:        c.authExtra,
		challengeHandler: c.challengeHandler,
		reply:            c.reply,
	}
	return false, nil
}

func (e *Engine) handleLeave(c *leaveCommand) (bool, error) {
	if e.state != stateJoined {
		c.reply <- notConnected()
		return false, nil
	}
	goodbye := &message.Goodbye{Details: message.Dict{}, Reason: "wamp.close.close_realm"}
	if err := e.send(goodbye); err != nil {
		c.reply <- err
		return true, err
	}
	e.realmJoined = false
	e.state = stateLeaving
	c.reply <- nil
	return false, nil
}

func (e *Engine) handleSubscribe(c *subscribeCommand) (bool, error) {
	if e.state != stateJoined {
		c.reply <- subscribeReply{Err: notConnected()}
		return false, nil
	}
	id, err := e.nextRequestID()
	if err != nil {
		c.reply <- subscribeReply{Err: err}
		return false, nil
	}
	msg := &message.Subscribe{Request: id, Options: c.options, Topic: c.topic}
	if err := e.send(msg); err != nil {
		e.releaseRequestID(id)
		c.reply <- subscribeReply{Err: err}
		return true, err
	}
	e.pendingSubscribes[id] = &subscribeWaiter{reply: c.reply}
	return false, nil
}

func (e *Engine) handleUnsubscribe(c *unsubscribeCommand) (bool, error) {
	if e.state != stateJoined {
		c.reply <- notConnected()
		return false, nil
	}
	if _, ok := e.subscriptions[c.subscription]; !ok {
		c.reply <- fmt.Errorf("engine: unknown subscription %d", c.subscription)
		return false, nil
	}
	id, err := e.nextRequestID()
	if err != nil {
		c.reply <- err
		return false, nil
	}
	msg := &message.Unsubscribe{Request: id, Subscription: c.subscription}
	if err := e.send(msg); err != nil {
		e.releaseRequestID(id)
		c.reply <- err
		return true, err
	}
	// Optimistic local deletion: remove before the server's acknowledgement.
	if q, ok := e.subscriptions[c.subscription]; ok {
		q.closeQueue()
		delete(e.subscriptions, c.subscription)
	}
	reply := c.reply
	e.pendingTransactions[id] = func(_ message.ID, err error) {
		reply <- err
	}
	return false, nil
}

func (e *Engine) handlePublish(c *publishCommand) (bool, error) {
	if e.state != stateJoined {
		c.reply <- publishReply{Err: notConnected()}
		return false, nil
	}
	id, err := e.nextRequestID()
	if err != nil {
		c.reply <- publishReply{Err: err}
		return false, nil
	}
	options := c.options
	if options == nil {
		options = message.Dict{}
	}
	if c.acknowledge {
		options["acknowledge"] = true
	}
	msg := &message.Publish{Request: id, Options: options, Topic: c.topic, Args: c.args, KwArgs: c.kwargs}
	if err := e.send(msg); err != nil {
		e.releaseRequestID(id)
		c.reply <- publishReply{Err: err}
		return true, err
	}
	if !c.acknowledge {
		e.releaseRequestID(id)
		c.reply <- publishReply{Acked: false}
		return false, nil
	}
	reply := c.reply
	e.pendingTransactions[id] = func(pubID message.ID, err error) {
		reply <- publishReply{Publication: pubID, Acked: err == nil, Err: err}
	}
	return false, nil
}

func (e *Engine) handleRegister(c *registerCommand) (bool, error) {
	if e.state != stateJoined {
		c.reply <- registerReply{Err: notConnected()}
		return false, nil
	}
	id, err := e.nextRequestID()
	if err != nil {
		c.reply <- registerReply{Err: err}
		return false, nil
	}
	msg := &message.Register{Request: id, Options: c.options, Procedure: c.procedure}
	if err := e.send(msg); err != nil {
		e.releaseRequestID(id)
		c.reply <- registerReply{Err: err}
		return true, err
	}
	e.pendingRegisters[id] = &registerWaiter{handler: c.handler, reply: c.reply}
	return false, nil
}

func (e *Engine) handleUnregister(c *unregisterCommand) (bool, error) {
	if e.state != stateJoined {
		c.reply <- notConnected()
		return false, nil
	}
	if _, ok := e.registrations[c.registration]; !ok {
		c.reply <- fmt.Errorf("engine: unknown registration %d", c.registration)
		return false, nil
	}
	id, err := e.nextRequestID()
	if err != nil {
		c.reply <- err
		return false, nil
	}
	msg := &message.Unregister{Request: id, Registration: c.registration}
	if err := e.send(msg); err != nil {
		e.releaseRequestID(id)
		c.reply <- err
		return true, err
	}
	delete(e.registrations, c.registration)
	reply := c.reply
	e.pendingTransactions[id] = func(_ message.ID, err error) {
		reply <- err
	}
	return false, nil
}

func (e *Engine) handleCall(c *callCommand) (bool, error) {
	if e.state != stateJoined {
		c.reply <- callReply{Err: notConnected()}
		return false, nil
	}
	id, err := e.nextRequestID()
	if err != nil {
		c.reply <- callReply{Err: err}
		return false, nil
	}
	msg := &message.Call{Request: id, Options: c.options, Procedure: c.procedure, Args: c.args, KwArgs: c.kwargs}
	if err := e.send(msg); err != nil {
		e.releaseRequestID(id)
		c.reply <- callReply{Err: err}
		return true, err
	}
	e.pendingCalls[id] = c.reply
	return false, nil
}

func (e *Engine) handleInvocationResult(c *invocationResultCommand) (bool, error) {
	var msg message.Message
	if c.err != nil {
		msg = &message.Error{
			RequestType: message.CodeInvocation,
			Request:     c.request,
			Details:     message.Dict{},
			URI:         "wamp.error.runtime_error",
			Args:        message.Args{c.err.Error()},
		}
	} else {
		msg = &message.Yield{Request: c.request, Options: message.Dict{}, Args: c.args, KwArgs: c.kwargs}
	}
	if err := e.send(msg); err != nil {
		return true, err
	}
	return false, nil
}
