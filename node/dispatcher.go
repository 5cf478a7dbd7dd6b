// Package node provides the minimal named-thread dispatcher runtime the
// service manager posts connection-notification events onto: one goroutine
// per named Thread, a buffered channel mailbox, and type-based handler
// dispatch instead of a full actor behavior hierarchy.
package node

import (
	"reflect"
	"sync"
)

// Thread is a single-goroutine consumer identified by name. Handlers
// registered with Subscribe run on Thread's own goroutine, one event at a
// time, in the order events were posted, so a caller never sees two events
// on the same thread reordered relative to how the manager posted them.
type Thread struct {
	name    string
	mailbox chan any
	done    chan struct{}

	mu       sync.Mutex
	handlers map[reflect.Type][]func(any)
}

// NewThread starts a Thread with the given mailbox capacity and begins
// draining it immediately.
func NewThread(name string, capacity int) *Thread {
	t := &Thread{
		name:     name,
		mailbox:  make(chan any, capacity),
		done:     make(chan struct{}),
		handlers: make(map[reflect.Type][]func(any)),
	}
	go t.run()
	return t
}

// Subscribe registers handler to be invoked for every event whose dynamic
// type matches a zero value of T.
func Subscribe[T any](t *Thread, handler func(T)) {
	var zero T
	typ := reflect.TypeOf(zero)
	t.mu.Lock()
	t.handlers[typ] = append(t.handlers[typ], func(v any) { handler(v.(T)) })
	t.mu.Unlock()
}

// Post enqueues event on the thread's mailbox. It returns false if the
// thread has already been stopped or its mailbox is full; the caller is
// expected to log the drop, matching the original's "destroy with error"
// handling for events that cannot be delivered.
func (t *Thread) Post(event any) bool {
	select {
	case <-t.done:
		return false
	default:
	}
	select {
	case t.mailbox <- event:
		return true
	default:
		return false
	}
}

func (t *Thread) run() {
	for {
		select {
		case event := <-t.mailbox:
			t.dispatch(event)
		case <-t.done:
			return
		}
	}
}

func (t *Thread) dispatch(event any) {
	typ := reflect.TypeOf(event)
	t.mu.Lock()
	handlers := append([]func(any){}, t.handlers[typ]...)
	t.mu.Unlock()
	for _, h := range handlers {
		h(event)
	}
}

// Stop terminates the thread's goroutine. Already-queued events that have
// not yet been dispatched are dropped.
func (t *Thread) Stop() {
	close(t.done)
}

func (t *Thread) Name() string { return t.name }
