package engine

import "github.com/elast0ny/wamp-async/message"

// transactionWaiter resolves an exchange whose successful reply carries at
// most one ID: unsubscribe, unregister, and acknowledged publish all use
// this shape, each supplying its own closure to translate the outcome
// into its reply type.
type transactionWaiter func(id message.ID, err error)

type subscribeWaiter struct {
	reply chan<- subscribeReply
}

type registerWaiter struct {
	handler InvocationHandler
	reply   chan<- registerReply
}

type joiningState struct {
	authExtra        message.Dict
	challengeHandler ChallengeHandler
	reply            chan<- joinReply
}
