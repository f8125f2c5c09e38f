package engine

import (
	"context"

	"github.com/elast0ny/wamp-async/message"
)

// This file is the engine's public surface: one blocking method per WAMP
// operation, each constructing the matching unexported command, handing
// it to the event loop, and waiting for its reply. Package wamp's facade
// calls these directly; nothing outside this package builds a command by
// hand.

func (e *Engine) sendCommand(ctx context.Context, cmd command) error {
	select {
	case e.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return &ClientDiedError{}
	}
}

// Join sends HELLO and blocks until WELCOME, ABORT, or ctx is canceled.
func (e *Engine) Join(ctx context.Context, realm message.URI, authMethods []string, authID string, authExtra message.Dict, challengeHandler ChallengeHandler) (JoinReply, error) {
	reply := make(chan joinReply, 1)
	cmd := &joinCommand{
		realm:            realm,
		authMethods:      authMethods,
		authID:           authID,
		authExtra:        authExtra,
		challengeHandler: challengeHandler,
		reply:            reply,
	}
	if err := e.sendCommand(ctx, cmd); err != nil {
		return JoinReply{}, err
	}
	select {
	case r := <-reply:
		return r, r.Err
	case <-ctx.Done():
		return JoinReply{}, ctx.Err()
	}
}

// Leave sends GOODBYE and returns once it has been written to the
// transport; it does not wait for the peer's acknowledging GOODBYE.
func (e *Engine) Leave(ctx context.Context) error {
	reply := make(chan error, 1)
	cmd := &leaveCommand{reply: reply}
	if err := e.sendCommand(ctx, cmd); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe sends SUBSCRIBE and blocks until SUBSCRIBED or ERROR.
func (e *Engine) Subscribe(ctx context.Context, topic message.URI, options message.Dict) (SubscribeReply, error) {
	reply := make(chan subscribeReply, 1)
	cmd := &subscribeCommand{topic: topic, options: options, reply: reply}
	if err := e.sendCommand(ctx, cmd); err != nil {
		return SubscribeReply{}, err
	}
	select {
	case r := <-reply:
		return r, r.Err
	case <-ctx.Done():
		return SubscribeReply{}, ctx.Err()
	}
}

// Unsubscribe sends UNSUBSCRIBE and blocks until UNSUBSCRIBED or ERROR.
func (e *Engine) Unsubscribe(ctx context.Context, subscription message.ID) error {
	reply := make(chan error, 1)
	cmd := &unsubscribeCommand{subscription: subscription, reply: reply}
	if err := e.sendCommand(ctx, cmd); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish sends PUBLISH. If acknowledge is false it returns as soon as
// the frame is written; otherwise it blocks until PUBLISHED or ERROR.
func (e *Engine) Publish(ctx context.Context, topic message.URI, options message.Dict, args message.Args, kwargs message.KwArgs, acknowledge bool) (PublishReply, error) {
	reply := make(chan publishReply, 1)
	cmd := &publishCommand{topic: topic, options: options, args: args, kwargs: kwargs, acknowledge: acknowledge, reply: reply}
	if err := e.sendCommand(ctx, cmd); err != nil {
		return PublishReply{}, err
	}
	select {
	case r := <-reply:
		return r, r.Err
	case <-ctx.Done():
		return PublishReply{}, ctx.Err()
	}
}

// Register sends REGISTER and blocks until REGISTERED or ERROR. handler
// is invoked by the application, off the event-loop goroutine, once per
// matching INVOCATION delivered through Work().
func (e *Engine) Register(ctx context.Context, procedure message.URI, options message.Dict, handler InvocationHandler) (RegisterReply, error) {
	reply := make(chan registerReply, 1)
	cmd := &registerCommand{procedure: procedure, options: options, handler: handler, reply: reply}
	if err := e.sendCommand(ctx, cmd); err != nil {
		return RegisterReply{}, err
	}
	select {
	case r := <-reply:
		return r, r.Err
	case <-ctx.Done():
		return RegisterReply{}, ctx.Err()
	}
}

// Unregister sends UNREGISTER and blocks until UNREGISTERED or ERROR.
func (e *Engine) Unregister(ctx context.Context, registration message.ID) error {
	reply := make(chan error, 1)
	cmd := &unregisterCommand{registration: registration, reply: reply}
	if err := e.sendCommand(ctx, cmd); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call sends CALL and blocks until RESULT or ERROR.
func (e *Engine) Call(ctx context.Context, procedure message.URI, options message.Dict, args message.Args, kwargs message.KwArgs) (CallReply, error) {
	reply := make(chan callReply, 1)
	cmd := &callCommand{procedure: procedure, options: options, args: args, kwargs: kwargs, reply: reply}
	if err := e.sendCommand(ctx, cmd); err != nil {
		return CallReply{}, err
	}
	select {
	case r := <-reply:
		return r, r.Err
	case <-ctx.Done():
		return CallReply{}, ctx.Err()
	}
}

// Shutdown asks the event loop to terminate cleanly and blocks until it
// has. Safe to call more than once; safe to call concurrently with any
// other method.
func (e *Engine) Shutdown(ctx context.Context) error {
	reply := make(chan struct{})
	cmd := &shutdownCommand{reply: reply}
	if err := e.sendCommand(ctx, cmd); err != nil {
		if _, ok := err.(*ClientDiedError); ok {
			return nil
		}
		return err
	}
	select {
	case <-reply:
		return nil
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
