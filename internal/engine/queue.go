package engine

import (
	"sync"

	"github.com/elast0ny/wamp-async/message"
)

// Event is a single broker dispatch delivered to a subscriber, in the
// order the router sent it.
type Event struct {
	Publication message.ID
	Details     message.Dict
	Args        message.Args
	KwArgs      message.KwArgs
}

// eventQueue is an unbounded, FIFO, single-producer/single-consumer queue.
// push is called from the engine's event loop and must never block;
// growth happens on an internal slice rather than a buffered channel, so a
// slow consumer cannot stall the engine. Chan exposes a channel view
// pumped by a background goroutine for consumers that prefer range-over-
// channel.
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Event
	closed bool
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues e. Never blocks.
func (q *eventQueue) push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, e)
	q.cond.Signal()
}

// closeQueue marks the queue closed; pending items already enqueued are
// still delivered, then pop reports !ok.
func (q *eventQueue) closeQueue() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *eventQueue) pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return Event{}, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, true
}

// Chan returns a channel fed by a background goroutine draining the
// queue in order. The goroutine exits once the queue is closed and
// drained.
func (q *eventQueue) Chan() <-chan Event {
	ch := make(chan Event)
	go func() {
		defer close(ch)
		for {
			e, ok := q.pop()
			if !ok {
				return
			}
			ch <- e
		}
	}()
	return ch
}

// invocationQueue is an unbounded, FIFO, single-producer/single-consumer
// queue of RPC invocations, shaped exactly like eventQueue. An INVOCATION
// is only ever lost if the application has dropped the work channel
// entirely (by letting the Engine, and this queue, be garbage collected);
// a momentary backlog of unread invocations must never be dropped, so
// push grows an internal slice rather than blocking or discarding on a
// fixed-size buffered channel.
type invocationQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*Invocation
	closed bool
}

func newInvocationQueue() *invocationQueue {
	q := &invocationQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues inv. Never blocks.
func (q *invocationQueue) push(inv *Invocation) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, inv)
	q.cond.Signal()
}

func (q *invocationQueue) closeQueue() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *invocationQueue) pop() (*Invocation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	inv := q.items[0]
	q.items = q.items[1:]
	return inv, true
}

// Chan returns a channel fed by a background goroutine draining the queue
// in order. The goroutine exits once the queue is closed and drained.
func (q *invocationQueue) Chan() <-chan *Invocation {
	ch := make(chan *Invocation)
	go func() {
		defer close(ch)
		for {
			inv, ok := q.pop()
			if !ok {
				return
			}
			ch <- inv
		}
	}()
	return ch
}
