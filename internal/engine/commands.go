package engine

import (
	"context"

	"github.com/elast0ny/wamp-async/message"
)

// ChallengeHandler answers one CHALLENGE during session opening. It
// returns the AUTHENTICATE message's signature and extra fields.
type ChallengeHandler func(authMethod string, extra message.Dict) (signature string, authExtra message.Dict, err error)

// InvocationHandler implements a registered procedure. It is called once
// per INVOCATION, outside the engine goroutine.
type InvocationHandler func(ctx context.Context, args message.Args, kwargs message.KwArgs) (message.Args, message.KwArgs, error)

// command is implemented by every engine command.
type command interface{ isCommand() }

type joinCommand struct {
	realm            message.URI
	authMethods      []string
	authID           string
	authExtra        message.Dict
	challengeHandler ChallengeHandler
	reply            chan<- joinReply
}

func (*joinCommand) isCommand() {}

// JoinReply carries the outcome of a Join command.
type JoinReply = joinReply

type joinReply struct {
	SessionID message.ID
	Roles     message.Dict
	Err       error
}

type leaveCommand struct {
	reply chan<- error
}

func (*leaveCommand) isCommand() {}

type subscribeCommand struct {
	topic   message.URI
	options message.Dict
	reply   chan<- subscribeReply
}

func (*subscribeCommand) isCommand() {}

// SubscribeReply carries the outcome of a Subscribe command.
type SubscribeReply = subscribeReply

type subscribeReply struct {
	Subscription message.ID
	Events       <-chan Event
	Err          error
}

type unsubscribeCommand struct {
	subscription message.ID
	reply        chan<- error
}

func (*unsubscribeCommand) isCommand() {}

type publishCommand struct {
	topic       message.URI
	options     message.Dict
	args        message.Args
	kwargs      message.KwArgs
	acknowledge bool
	reply       chan<- publishReply
}

func (*publishCommand) isCommand() {}

// PublishReply carries the outcome of a Publish command.
type PublishReply = publishReply

type publishReply struct {
	Publication message.ID
	Acked       bool
	Err         error
}

type registerCommand struct {
	procedure message.URI
	options   message.Dict
	handler   InvocationHandler
	reply     chan<- registerReply
}

func (*registerCommand) isCommand() {}

// RegisterReply carries the outcome of a Register command.
type RegisterReply = registerReply

type registerReply struct {
	Registration message.ID
	Err          error
}

type unregisterCommand struct {
	registration message.ID
	reply        chan<- error
}

func (*unregisterCommand) isCommand() {}

type callCommand struct {
	procedure message.URI
	options   message.Dict
	args      message.Args
	kwargs    message.KwArgs
	reply     chan<- callReply
}

func (*callCommand) isCommand() {}

// CallReply carries the outcome of a Call command.
type CallReply = callReply

type callReply struct {
	Args   message.Args
	KwArgs message.KwArgs
	Err    error
}

// invocationResultCommand carries a handler's outcome back to the engine.
// It is fire-and-forget: the engine makes a best-effort attempt to send
// the resulting YIELD or ERROR and does not acknowledge it.
type invocationResultCommand struct {
	request message.ID
	args    message.Args
	kwargs  message.KwArgs
	err     error
}

func (*invocationResultCommand) isCommand() {}

type shutdownCommand struct {
	reply chan<- struct{}
}

func (*shutdownCommand) isCommand() {}

// Invocation is a unit of RPC work handed to the application through the
// work channel. Run executes the registered handler and posts its
// outcome back to the engine; it must be called exactly once.
type Invocation struct {
	Request      message.ID
	Registration message.ID
	Details      message.Dict
	Args         message.Args
	KwArgs       message.KwArgs

	handler  InvocationHandler
	commands chan<- command
	done     <-chan struct{}
}

// Run executes the invocation's handler and reports its outcome to the
// engine. Safe to call from any goroutine; if the engine has already
// terminated, the outcome is silently discarded instead of blocking
// forever.
func (inv *Invocation) Run(ctx context.Context) {
	args, kwargs, err := inv.handler(ctx, inv.Args, inv.KwArgs)
	result := &invocationResultCommand{
		request: inv.Request,
		args:    args,
		kwargs:  kwargs,
		err:     err,
	}
	select {
	case inv.commands <- result:
	case <-inv.done:
	}
}
