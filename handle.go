package sqslisten

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Handle controls a single background listener. Discarding a Handle without
// calling Stop leaves the listener running until its context is cancelled.
type Handle struct {
	id   string
	stop atomic.Bool
	done chan struct{}
}

func newHandle() *Handle {
	return &Handle{id: uuid.NewString(), done: make(chan struct{})}
}

// ID returns the identifier of this listener. The same value appears on the
// listener's log entries.
func (h *Handle) ID() string {
	return h.id
}

// Stop asks the listener to exit and blocks until it has. The loop observes
// the request between iterations only: a receive already in flight completes
// first, and any messages it returned are dispatched and deleted before the
// listener exits. Stop is idempotent and safe to call from multiple
// goroutines; every call returns once the listener has exited.
func (h *Handle) Stop() {
	h.stop.Store(true)
	<-h.done
}

// Done returns a channel that is closed once the listener goroutine has
// exited, whether through Stop or context cancellation.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) stopRequested() bool {
	return h.stop.Load()
}
