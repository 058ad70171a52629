package sqslisten

import "context"

// Handler receives the outcome of every poll iteration. Exactly one of msg
// and recvErr is non-nil per call: a message that was received, or the error
// the receive call failed with.
//
// Run is called from the listener goroutine, one invocation at a time, in
// the order messages were returned by the queue. A non-nil return is the
// handler's own signal; it does not stop the listener and it does not keep
// the message on the queue. Every dispatched message is deleted afterwards
// regardless.
type Handler interface {
	Run(ctx context.Context, msg *Message, recvErr error) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg *Message, recvErr error) error

func (f HandlerFunc) Run(ctx context.Context, msg *Message, recvErr error) error {
	return f(ctx, msg, recvErr)
}
